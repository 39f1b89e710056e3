package schema

import (
	"fmt"
	"log/slog"

	"github.com/signadot/viewconf/debug"
)

// Registry holds named record and union definitions.
//
// Definitions are added with Define, which accepts names that are not yet
// defined, and become usable once Resolve binds every reference.  After
// Resolve the registry is read-only and safe for concurrent use.
type Registry struct {
	version string
	logger  *slog.Logger

	defs     []Def
	index    map[string]int
	resolved bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithVersion sets the schema version reported by Version and Describe.
func WithVersion(v string) Option {
	return func(r *Registry) { r.version = v }
}

// WithLogger sets a structured logger for definition and resolution
// diagnostics, logged at debug level.  A nil logger is silent.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{index: map[string]int{}}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Define registers definitions.  Each is copied; later changes to the
// arguments do not affect the registry.
func (r *Registry) Define(defs ...Def) error {
	if r.resolved {
		return ErrResolved
	}
	for _, def := range defs {
		if def == nil {
			return fmt.Errorf("nil definition")
		}
		name := def.DefName()
		if name == "" {
			return &DefinitionError{Def: "(unnamed)", Message: "definition has no name"}
		}
		if _, exists := r.index[name]; exists {
			return &DefinitionError{Def: name, Message: "already defined"}
		}
		if err := checkShape(def); err != nil {
			return err
		}
		r.index[name] = len(r.defs)
		r.defs = append(r.defs, def.clone())
		r.logger.Debug("defined", "name", name, "kind", defKind(def))
	}
	return nil
}

// checkShape rejects definitions that are malformed independently of any
// other definition.
func checkShape(def Def) error {
	switch d := def.(type) {
	case *Record:
		seen := map[string]bool{}
		for _, f := range d.Fields {
			if f == nil || f.Name == "" {
				return &DefinitionError{Def: d.Name, Message: "field has no name"}
			}
			if seen[f.Name] {
				return &DefinitionError{Def: d.Name, Message: fmt.Sprintf("field %q declared twice", f.Name)}
			}
			seen[f.Name] = true
			if f.Type == nil {
				return &DefinitionError{Def: d.Name, Message: fmt.Sprintf("field %q has no type", f.Name)}
			}
		}
		if d.Additional != nil && d.Unknown != UnknownAllow {
			return &DefinitionError{Def: d.Name, Message: "additional type requires UnknownAllow"}
		}
	case *Union:
		if d.Tag == "" {
			return &DefinitionError{Def: d.Name, Message: "union has no tag field"}
		}
		if len(d.Variants) == 0 {
			return &DefinitionError{Def: d.Name, Message: "union has no variants"}
		}
		seen := map[string]bool{}
		for _, v := range d.Variants {
			if len(v.Values) == 0 {
				return &DefinitionError{Def: d.Name, Message: fmt.Sprintf("variant %s has no tag values", v.Record)}
			}
			for _, x := range v.Values {
				if seen[x] {
					return &DefinitionError{Def: d.Name, Message: fmt.Sprintf("tag value %q used twice", x)}
				}
				seen[x] = true
			}
		}
	default:
		return &DefinitionError{Def: def.DefName(), Message: fmt.Sprintf("unsupported definition %T", def)}
	}
	return nil
}

func defKind(def Def) string {
	switch def.(type) {
	case *Record:
		return "record"
	case *Union:
		return "union"
	}
	return "?"
}

// Lookup returns the definition with the given name.  The returned value
// is owned by the registry and must not be modified.
func (r *Registry) Lookup(name string) (Def, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.defs[i], true
}

// Names returns the defined names in definition order.
func (r *Registry) Names() []string {
	res := make([]string, len(r.defs))
	for i, d := range r.defs {
		res[i] = d.DefName()
	}
	return res
}

func (r *Registry) Resolved() bool { return r.resolved }
func (r *Registry) Version() string { return r.version }

func (r *Registry) logf(msg string, args ...any) {
	if debug.Resolve() {
		debug.Logf(msg, args...)
	}
}

func (r *Registry) record(target int) *Record {
	rec, _ := r.defs[target-1].(*Record)
	return rec
}
