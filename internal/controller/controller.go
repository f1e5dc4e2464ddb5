// Package controller wires a display's intent events to the todo store and
// the store's change notifications back to the display.
package controller

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/model"
)

// Model is the todo store as seen by the controller.
type Model interface {
	Todos() []model.Item
	Add(text string) model.Item
	Edit(id int, text string) bool
	Delete(id int) bool
	Toggle(id int) bool
	BindChanged(fn func(todos []model.Item))
}

// Display renders lists and raises user intents.
type Display interface {
	Render(todos []model.Item)
	OnAddRequested(h func(text string))
	OnEditRequested(h func(id int, text string))
	OnDeleteRequested(h func(id int))
	OnToggleRequested(h func(id int))
}

type Controller struct {
	model   Model
	display Display
	logger  *log.Logger
}

type Option func(*Controller)

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New binds m and d. The order is fixed: subscribe to changes, paint the
// current list once, then register the intent handlers.
func New(m Model, d Display, opts ...Option) *Controller {
	c := &Controller{model: m, display: d, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(c)
	}

	m.BindChanged(c.onListChanged)
	c.onListChanged(m.Todos())

	d.OnAddRequested(c.handleAdd)
	d.OnEditRequested(c.handleEdit)
	d.OnDeleteRequested(c.handleDelete)
	d.OnToggleRequested(c.handleToggle)
	return c
}

func (c *Controller) onListChanged(todos []model.Item) {
	c.display.Render(todos)
}

func (c *Controller) handleAdd(text string) {
	it := c.model.Add(text)
	c.logger.Debug("add", "id", it.ID)
}

func (c *Controller) handleEdit(id int, text string) {
	found := c.model.Edit(id, text)
	c.logger.Debug("edit", "id", id, "found", found)
}

func (c *Controller) handleDelete(id int) {
	found := c.model.Delete(id)
	c.logger.Debug("delete", "id", id, "found", found)
}

func (c *Controller) handleToggle(id int) {
	found := c.model.Toggle(id)
	c.logger.Debug("toggle", "id", id, "found", found)
}
