package hasprops

import (
	"sort"
	"sync"

	"github.com/reoring/hasprops/i18n"
)

// Registry maps schema names to closed schemas. Schemas are registered once,
// at type-definition time, typically from package init or var blocks.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{schemas: map[string]*Schema{}}
}

// Register adds s under its name. Registering a different schema under an
// existing name fails; registering the same schema twice is a no-op.
func (r *Registry) Register(s *Schema) error {
	if s == nil || s.name == "" {
		return Issues{{Path: "/", Code: CodeInvalidName, Message: i18n.T(CodeInvalidName, nil), Hint: "schema without a name"}}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.schemas[s.name]; ok {
		if prev == s {
			return nil
		}
		return Issues{{Path: "/", Code: CodeDuplicateType, Message: i18n.T(CodeDuplicateType, nil), Hint: s.name}}
	}
	r.schemas[s.name] = s
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(s *Schema) *Schema {
	if err := r.Register(s); err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the registered names in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var defaultRegistry = NewRegistry()

// Register adds s to the default registry.
func Register(s *Schema) error { return defaultRegistry.Register(s) }

// MustRegister adds s to the default registry and returns it.
func MustRegister(s *Schema) *Schema { return defaultRegistry.MustRegister(s) }

// Lookup finds a schema in the default registry.
func Lookup(name string) (*Schema, bool) { return defaultRegistry.Lookup(name) }

// Registered lists the default registry's schema names.
func Registered() []string { return defaultRegistry.Names() }
