package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  int
	}{
		{name: "empty list starts at one", items: nil, want: 1},
		{name: "single item", items: []Item{{ID: 1}}, want: 2},
		{name: "uses last element", items: []Item{{ID: 2}, {ID: 7}}, want: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextID(tt.items))
		})
	}
}

func TestIndex(t *testing.T) {
	items := []Item{{ID: 1}, {ID: 3}, {ID: 4}}
	assert.Equal(t, 1, Index(items, 3))
	assert.Equal(t, -1, Index(items, 2))
	assert.Equal(t, -1, Index(nil, 1))
}

func TestCloneNeverNil(t *testing.T) {
	got := Clone(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	src := []Item{{ID: 1, Text: "a"}}
	c := Clone(src)
	c[0].Text = "b"
	assert.Equal(t, "a", src[0].Text)
}

func TestStats(t *testing.T) {
	done, pending := Stats([]Item{{Complete: true}, {}, {}})
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, pending)
}
