// Package registry implements the name registry (L3): the bijective
// file-path <-> context-name binding (the "intaker") and the
// parent-layout -> child-module edge set (the "gatekeeper").
package registry

import (
	"sync"

	"github.com/patrickgunnar/galadrielcss/internal/galaerr"
)

// CentralContextName is the reserved sentinel that denotes the central
// context internally, so user-defined context names never collide with
// it.
const CentralContextName = "gCtxCen_8Xq4ZJ"

// Registry holds the intaker and gatekeeper relations: which path owns
// which context name, and which layout a module belongs to.
type Registry struct {
	mu sync.RWMutex

	pathToName map[string]string
	nameToPath map[string]string

	// order is the sequence in which context names were first bound,
	// used so emission can walk contexts in a stable, byte-reproducible
	// order instead of Go's unordered map iteration.
	order []string

	// gatekeeper maps a layout context name to the set of module file
	// paths that extend it.
	gatekeeper map[string]map[string]struct{}
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		pathToName: make(map[string]string),
		nameToPath: make(map[string]string),
		gatekeeper: make(map[string]map[string]struct{}),
	}
}

// Bind associates path with name. It fails with KindContextNameConflict
// if another path already owns name; otherwise it inserts or overwrites
// path's row.
func (r *Registry) Bind(path, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, exists := r.nameToPath[name]; exists && owner != path {
		return galaerr.Newf(galaerr.KindContextNameConflict, galaerr.ActionNotify,
			"context name %q is already bound to %q", name, owner)
	}

	if oldName, exists := r.pathToName[path]; exists && oldName != name {
		delete(r.nameToPath, oldName)
		for i, n := range r.order {
			if n == oldName {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}

	if _, exists := r.nameToPath[name]; !exists {
		r.order = append(r.order, name)
	}

	r.pathToName[path] = name
	r.nameToPath[name] = path
	return nil
}

// Unbind removes path's row and removes path from every gatekeeper set.
func (r *Registry) Unbind(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unbindLocked(path)
}

func (r *Registry) unbindLocked(path string) {
	if name, exists := r.pathToName[path]; exists {
		delete(r.pathToName, path)
		delete(r.nameToPath, name)
		for i, n := range r.order {
			if n == name {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	for _, modules := range r.gatekeeper {
		delete(modules, path)
	}
}

// NameForPath returns the context name bound to path, if any.
func (r *Registry) NameForPath(path string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.pathToName[path]
	return name, ok
}

// PathForName returns the file path bound to name, if any.
func (r *Registry) PathForName(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	path, ok := r.nameToPath[name]
	return path, ok
}

// LinkModuleToLayout atomically unbinds modulePath from any previous
// layout set, then appends it to layoutName's set.
func (r *Registry) LinkModuleToLayout(layoutName, modulePath string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, modules := range r.gatekeeper {
		delete(modules, modulePath)
	}

	modules, ok := r.gatekeeper[layoutName]
	if !ok {
		modules = make(map[string]struct{})
		r.gatekeeper[layoutName] = modules
	}
	modules[modulePath] = struct{}{}
}

// LookupModules returns the current set of module file paths registered
// under layoutName.
func (r *Registry) LookupModules(layoutName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modules := r.gatekeeper[layoutName]
	out := make([]string, 0, len(modules))
	for path := range modules {
		out = append(out, path)
	}
	return out
}

// AllLayoutNames returns every layout context name currently tracked as
// a gatekeeper key. A layout becomes a key when a module is first linked
// to it and stays one after its last module is unlinked; a layout that
// never had a module linked to it is not returned.
func (r *Registry) AllLayoutNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.gatekeeper))
	for name := range r.gatekeeper {
		out = append(out, name)
	}
	return out
}

// AllContextNames returns every currently bound context name.
func (r *Registry) AllContextNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.nameToPath))
	for name := range r.nameToPath {
		out = append(out, name)
	}
	return out
}

// ContextOrder returns every currently bound context name in first-bind
// order, central included. Used by the emitter to walk per-context
// sections in a stable, reproducible sequence.
func (r *Registry) ContextOrder() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
