// Package export renders assembled statements. All display formatting
// (currency strings, localized dates) happens here; the core emits plain
// data only.
package export

import (
	"io"
	"strings"

	"github.com/passbook-dev/passbook/internal/statement"
)

// Renderer writes a statement in one output format.
type Renderer interface {
	Render(w io.Writer, st *statement.Statement) error
	Format() string
}

// Registry holds named renderers.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry creates an empty renderer registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register adds a renderer. Panics on duplicate format.
func (r *Registry) Register(ren Renderer) {
	key := strings.ToLower(ren.Format())
	if _, ok := r.renderers[key]; ok {
		panic("duplicate renderer format: " + key)
	}
	r.renderers[key] = ren
}

// Get returns the renderer for format, or nil.
func (r *Registry) Get(format string) Renderer {
	return r.renderers[strings.ToLower(format)]
}

// Formats returns the registered format names.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.renderers))
	for k := range r.renderers {
		out = append(out, k)
	}
	return out
}

// DefaultRegistry returns a registry with all built-in renderers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&TextRenderer{})
	r.Register(&JSONRenderer{})
	return r
}
