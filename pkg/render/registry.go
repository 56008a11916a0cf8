package render

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/ianbrown80/workable-plugin/internal/messages"
	"github.com/ianbrown80/workable-plugin/pkg/model"
	"github.com/ianbrown80/workable-plugin/pkg/render/template"
	"github.com/ianbrown80/workable-plugin/pkg/schema"
)

// FieldRenderer writes the control markup for one field into buf. The
// surrounding container (label, required marker, validation nodes) is built
// by the Renderer; implementations only produce the input itself, except
// for group kinds which own their whole fieldset.
type FieldRenderer func(buf *bytes.Buffer, field model.Field, rc Context) error

// Context carries the helpers a FieldRenderer can lean on.
type Context struct {
	Templates  template.Renderer
	Catalog    *messages.Catalog
	InstanceID string

	// RenderNested renders a sub-field of a group through the full
	// container pipeline.
	RenderNested func(field model.Field) (string, error)
}

// ControlID returns the composite DOM id for a field, unique across
// multiple form instances on one page.
func (c Context) ControlID(name string) string {
	return name + "-" + c.InstanceID
}

// Registry maps schema kinds to their renderers. Hosts can replace
// individual entries to restyle a single control.
type Registry struct {
	mu        sync.RWMutex
	renderers map[schema.Kind]FieldRenderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[schema.Kind]FieldRenderer)}
}

// Register associates a renderer with a kind, replacing any existing entry.
func (r *Registry) Register(kind schema.Kind, fn FieldRenderer) error {
	if kind == "" {
		return fmt.Errorf("render: kind is required")
	}
	if fn == nil {
		return fmt.Errorf("render: renderer for %q is nil", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[kind] = fn
	return nil
}

// MustRegister is Register for wiring done at startup.
func (r *Registry) MustRegister(kind schema.Kind, fn FieldRenderer) {
	if err := r.Register(kind, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the renderer for a kind.
func (r *Registry) Lookup(kind schema.Kind) (FieldRenderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.renderers[kind]
	return fn, ok
}

// Kinds returns the registered kinds, for diagnostics.
func (r *Registry) Kinds() []schema.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]schema.Kind, 0, len(r.renderers))
	for kind := range r.renderers {
		kinds = append(kinds, kind)
	}
	return kinds
}

// DefaultRegistry returns a registry with every built-in control wired.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(schema.KindString, renderString)
	r.MustRegister(schema.KindFreeText, renderFreeText)
	r.MustRegister(schema.KindDate, renderDate)
	r.MustRegister(schema.KindNumeric, renderNumeric)
	r.MustRegister(schema.KindFile, renderFile)
	r.MustRegister(schema.KindBoolean, renderBoolean)
	r.MustRegister(schema.KindMultipleChoice, renderMultipleChoice)
	r.MustRegister(schema.KindDropdown, renderDropdown)
	r.MustRegister(schema.KindComplex, renderComplex)
	return r
}
