// Package todo owns the authoritative todo list and its persistence.
//
// Every mutation commits: the registered observer sees the new list first,
// then the whole list is serialized and written to the key-value store.
// Operations on an id that is not present leave the list unchanged and
// report found=false; they still commit.
package todo

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
)

// DefaultKey is the storage key holding the serialized list.
const DefaultKey = "todos"

// ChangeFunc observes the list after each mutation. It receives a copy.
type ChangeFunc = func(todos []model.Item)

type Store struct {
	kv       store.KV
	key      string
	logger   *log.Logger
	todos    []model.Item
	onChange ChangeFunc
	err      error
}

type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New loads the list from kv. An absent or unparseable value yields an
// empty list.
func New(kv store.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.todos = s.load()
	return s
}

func (s *Store) load() []model.Item {
	raw, ok := s.kv.Get(s.key)
	if !ok {
		return []model.Item{}
	}
	items, err := Decode(raw)
	if err != nil {
		s.logger.Warn("discarding persisted list", "key", s.key, "err", err, "value", raw)
		return []model.Item{}
	}
	s.logger.Debug("loaded list", "key", s.key, "count", len(items))
	return items
}

// Todos returns a snapshot of the current list.
func (s *Store) Todos() []model.Item {
	return model.Clone(s.todos)
}

// BindChanged registers the single observer; a later call replaces it.
func (s *Store) BindChanged(fn ChangeFunc) {
	s.onChange = fn
}

// Err reports the failure of the most recent persistence write.
func (s *Store) Err() error {
	return s.err
}

// Add appends a new incomplete item. Text is stored as given.
func (s *Store) Add(text string) model.Item {
	it := model.Item{ID: model.NextID(s.todos), Text: text}
	s.todos = append(s.todos, it)
	s.commit()
	return it
}

// Edit replaces the text of the item with id, keeping its completion
// state and position.
func (s *Store) Edit(id int, text string) bool {
	i := model.Index(s.todos, id)
	if i >= 0 {
		cur := s.todos[i]
		s.todos[i] = model.Item{ID: cur.ID, Text: text, Complete: cur.Complete}
	}
	s.commit()
	return i >= 0
}

// Delete removes the item with id.
func (s *Store) Delete(id int) bool {
	i := model.Index(s.todos, id)
	if i >= 0 {
		s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
	}
	s.commit()
	return i >= 0
}

// Toggle flips the completion state of the item with id.
func (s *Store) Toggle(id int) bool {
	i := model.Index(s.todos, id)
	if i >= 0 {
		s.todos[i].Complete = !s.todos[i].Complete
	}
	s.commit()
	return i >= 0
}

// commit notifies, then persists. A failed write does not roll back.
func (s *Store) commit() {
	if s.onChange != nil {
		s.onChange(s.Todos())
	}

	raw, err := Encode(s.todos)
	if err == nil {
		err = s.kv.Set(s.key, raw)
	}
	s.err = err
	if err != nil {
		s.logger.Error("persist list", "key", s.key, "err", err)
	}
}
