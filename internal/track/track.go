// Package track implements the Classinator (per-file tracking of which
// utility names belong to which logical class, grouped by
// deriving-from) and the Clastrack (the same shape after inheritance
// has been flattened into space-joined token strings).
package track

import (
	"sync"

	"github.com/patrickgunnar/galadrielcss/internal/omap"
)

// ClassMap is deriving-from-key -> logical-class -> utility names, in
// declaration order at both levels.
type ClassMap = *omap.Map[*omap.Map[[]string]]

// NewClassMap creates an empty ClassMap.
func NewClassMap() ClassMap {
	return omap.New[*omap.Map[[]string]]()
}

// Classinator holds the three tracking layers: central, layouts (keyed
// by context name), and modules (keyed by parent-layout-or-"_", then
// context name).
type Classinator struct {
	mu sync.RWMutex

	Central ClassMap
	Layouts map[string]ClassMap
	Modules map[string]map[string]ClassMap
}

// NewClassinator creates an empty Classinator.
func NewClassinator() *Classinator {
	return &Classinator{
		Central: NewClassMap(),
		Layouts: make(map[string]ClassMap),
		Modules: make(map[string]map[string]ClassMap),
	}
}

// SetCentral replaces the central tracking map wholesale.
func (c *Classinator) SetCentral(tracking ClassMap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Central = tracking
}

// SetLayout replaces contextName's layout tracking map wholesale.
func (c *Classinator) SetLayout(contextName string, tracking ClassMap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Layouts[contextName] = tracking
}

// SetModule replaces contextName's module tracking map wholesale, under
// parentLayout (or "_" if the module has no parent layout).
func (c *Classinator) SetModule(parentLayout, contextName string, tracking ClassMap) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if parentLayout == "" {
		parentLayout = "_"
	}
	parents, ok := c.Modules[parentLayout]
	if !ok {
		parents = make(map[string]ClassMap)
		c.Modules[parentLayout] = parents
	}
	parents[contextName] = tracking
}

// RemoveLayout drops contextName's tracking map.
func (c *Classinator) RemoveLayout(contextName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Layouts, contextName)
}

// RemoveModule drops contextName's tracking map from every parent
// bucket it might be registered under.
func (c *Classinator) RemoveModule(contextName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, parents := range c.Modules {
		delete(parents, contextName)
	}
}

// Snapshot returns the three layers for a consistent read during
// flattening (I1 reads the whole structure at once). The layout and
// module maps are shallow copies; the central map and the per-context
// tracking maps are returned as stored, not cloned.
func (c *Classinator) Snapshot() (ClassMap, map[string]ClassMap, map[string]map[string]ClassMap) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	layouts := make(map[string]ClassMap, len(c.Layouts))
	for k, v := range c.Layouts {
		layouts[k] = v
	}
	modules := make(map[string]map[string]ClassMap, len(c.Modules))
	for parent, ctxMap := range c.Modules {
		cp := make(map[string]ClassMap, len(ctxMap))
		for k, v := range ctxMap {
			cp[k] = v
		}
		modules[parent] = cp
	}
	return c.Central, layouts, modules
}

// FlatMap is logical-class -> space-joined utility token string, in
// insertion order.
type FlatMap = *omap.Map[string]

// Clastrack holds the three flattened layers produced by the
// inheritance flattener.
type Clastrack struct {
	mu sync.RWMutex

	Central FlatMap
	Layouts map[string]FlatMap
	Modules map[string]FlatMap
}

// NewClastrack creates an empty Clastrack.
func NewClastrack() *Clastrack {
	return &Clastrack{
		Central: omap.New[string](),
		Layouts: make(map[string]FlatMap),
		Modules: make(map[string]FlatMap),
	}
}

// Replace overwrites all three layers atomically.
func (c *Clastrack) Replace(central FlatMap, layouts, modules map[string]FlatMap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Central = central
	c.Layouts = layouts
	c.Modules = modules
}

// Resolve looks up logicalClass's token string within scope
// ("Central"/"Layout"/"Module"), for the named context.
func (c *Clastrack) Resolve(scope, contextName, logicalClass string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch scope {
	case "Central":
		return c.Central.Get(logicalClass)
	case "Layout":
		flat, ok := c.Layouts[contextName]
		if !ok {
			return "", false
		}
		return flat.Get(logicalClass)
	case "Module":
		flat, ok := c.Modules[contextName]
		if !ok {
			return "", false
		}
		return flat.Get(logicalClass)
	default:
		return "", false
	}
}
