// Package view holds the displays the controller drives: a one-shot
// console panel and an interactive terminal UI.
package view

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

var (
	ErrEmptyText = errors.New("empty text")
	ErrNotBound  = errors.New("no handler bound")
)

// maxTitleWidth truncates long items in the static panel.
const maxTitleWidth = 80

// handlers is the set of intent callbacks shared by every display.
type handlers struct {
	add    func(text string)
	edit   func(id int, text string)
	delete func(id int)
	toggle func(id int)
}

func (h *handlers) OnAddRequested(fn func(text string))          { h.add = fn }
func (h *handlers) OnEditRequested(fn func(id int, text string)) { h.edit = fn }
func (h *handlers) OnDeleteRequested(fn func(id int))            { h.delete = fn }
func (h *handlers) OnToggleRequested(fn func(id int))            { h.toggle = fn }

// Console keeps the latest rendered list and prints it on demand, so a
// single CLI invocation draws at most one panel.
type Console struct {
	handlers
	out   io.Writer
	group bool
	todos []model.Item
}

func NewConsole(out io.Writer, group bool) *Console {
	return &Console{out: out, group: group}
}

func (c *Console) Render(todos []model.Item) {
	c.todos = model.Clone(todos)
}

// Todos returns the last rendered list.
func (c *Console) Todos() []model.Item {
	return model.Clone(c.todos)
}

func (c *Console) RequestAdd(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	if c.add == nil {
		return ErrNotBound
	}
	c.add(text)
	return nil
}

func (c *Console) RequestEdit(id int, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	if c.edit == nil {
		return ErrNotBound
	}
	c.edit(id, text)
	return nil
}

func (c *Console) RequestDelete(id int) error {
	if c.delete == nil {
		return ErrNotBound
	}
	c.delete(id)
	return nil
}

func (c *Console) RequestToggle(id int) error {
	if c.toggle == nil {
		return ErrNotBound
	}
	c.toggle(id)
	return nil
}

// Print draws the last rendered list as a framed panel.
func (c *Console) Print() {
	t := ui.Current()
	d, p := model.Stats(c.todos)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(c.todos),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if c.group {
		lines = append(lines, groupLines(c.todos)...)
	} else {
		lines = append(lines, flatLines(c.todos)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(c.out, lines)
}

func flatLines(items []model.Item) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("nothing added yet")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		id := fmt.Sprintf("%3s", fmt.Sprintf("#%d", it.ID))
		box := t.Muted.Render(t.BoxUnchecked)
		text := truncate(it.Text, maxTitleWidth)
		if it.Complete {
			box = t.Success.Render(t.BoxChecked)
			text = t.Done.Render(text)
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(id), box, text))
	}
	return out
}

func groupLines(items []model.Item) []string {
	t := ui.Current()
	var pend, done []model.Item
	for _, it := range items {
		if it.Complete {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
