// Package registry holds the closed catalog of diagram components the
// pipeline is allowed to materialize. Every downstream stage treats the
// registry as the single source of truth: the scanner's capability table,
// the corrector's substitution map and the sandbox namespace all come
// from here. A Registry is immutable after construction.
package registry

import "strings"

// Placeholder is the catch-all component unknown constructor names are
// rewritten to. It always exists, even under a user-supplied catalog.
const Placeholder = "Generic"

// Capability classifies what a forbidden call name reaches for on the
// host. The scanner reports it verbatim in violation findings.
type Capability string

const (
	CapProcess    Capability = "process"
	CapEval       Capability = "eval"
	CapFilesystem Capability = "filesystem"
	CapNetwork    Capability = "network"
	CapReflection Capability = "reflection"
)

// Registry is a frozen view of the component catalog. The zero value is
// not usable; construct one with Default or Load.
type Registry struct {
	components    map[string]struct{}
	substitutions map[string]string
	namespaces    map[string]struct{}
	forbidden     map[string]Capability
}

// HasComponent reports whether name is a canonical component. Matching
// is case-sensitive: spelling variants go through Substitute instead.
func (r *Registry) HasComponent(name string) bool {
	_, ok := r.components[name]
	return ok
}

// Substitute maps a known wrong spelling onto its canonical component.
// It returns the canonical name and true, or "" and false when name has
// no registered substitution.
func (r *Registry) Substitute(name string) (string, bool) {
	canon, ok := r.substitutions[name]
	return canon, ok
}

// AllowedNamespace reports whether a `use` declaration may name ns.
func (r *Registry) AllowedNamespace(ns string) bool {
	_, ok := r.namespaces[strings.ToLower(ns)]
	return ok
}

// ForbiddenCapability looks up name in the deny table. Matching is
// case-insensitive so Exec and EXEC land on the same entry.
func (r *Registry) ForbiddenCapability(name string) (Capability, bool) {
	cap, ok := r.forbidden[strings.ToLower(name)]
	return cap, ok
}

// Components returns the canonical component names in no particular
// order. The slice is freshly allocated on every call.
func (r *Registry) Components() []string {
	out := make([]string, 0, len(r.components))
	for name := range r.components {
		out = append(out, name)
	}
	return out
}

// freeze builds an immutable Registry from a catalog, guaranteeing the
// placeholder is present and every substitution target is a component.
func freeze(c *catalog) *Registry {
	r := &Registry{
		components:    make(map[string]struct{}, len(c.Components)+1),
		substitutions: make(map[string]string, len(c.Substitutions)),
		namespaces:    make(map[string]struct{}, len(c.Namespaces)),
		forbidden:     make(map[string]Capability, len(c.Forbidden)),
	}
	for _, name := range c.Components {
		r.components[name] = struct{}{}
	}
	r.components[Placeholder] = struct{}{}
	for from, to := range c.Substitutions {
		if _, ok := r.components[to]; ok {
			r.substitutions[from] = to
		}
	}
	for _, ns := range c.Namespaces {
		r.namespaces[strings.ToLower(ns)] = struct{}{}
	}
	for name, cap := range c.Forbidden {
		r.forbidden[strings.ToLower(name)] = Capability(cap)
	}
	return r
}
