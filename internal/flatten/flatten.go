// Package flatten implements the inheritance flattener (I1): it reduces
// the Classinator's three tracking layers (central, layouts, modules)
// into the Clastrack's three flat layers, where each logical class maps
// to a single space-joined string of utility class names that already
// includes every inherited ancestor's utilities.
package flatten

import (
	"sort"
	"strings"

	"github.com/patrickgunnar/galadrielcss/internal/omap"
	"github.com/patrickgunnar/galadrielcss/internal/track"
)

// Flatten reads classinator's current snapshot and replaces clastrack's
// three layers with the freshly flattened result. Central is flattened
// first (it has no ancestors), then every layout against central, then
// every module against its parent layout (if any) and central.
func Flatten(classinator *track.Classinator, clastrack *track.Clastrack) {
	central, layouts, modules := classinator.Snapshot()

	inheritedCentral := processInheritance(nil, transformClassMap(central))
	inheritedLayouts := processLayoutsInheritance(inheritedCentral, layouts)
	inheritedModules := processModulesInheritance(inheritedCentral, inheritedLayouts, modules)

	clastrack.Replace(inheritedCentral, inheritedLayouts, inheritedModules)
}

// transformClassMap joins each class's utility name slice into a single
// space-separated string, keeping the deriving-from grouping intact and
// preserving insertion order at both levels.
func transformClassMap(cm track.ClassMap) *omap.Map[*omap.Map[string]] {
	out := omap.New[*omap.Map[string]]()

	cm.Each(func(derivedFrom string, classMap *omap.Map[[]string]) {
		transformed := omap.New[string]()
		classMap.Each(func(className string, utilities []string) {
			transformed.Set(className, strings.Join(utilities, " "))
		})
		out.Set(derivedFrom, transformed)
	})

	return out
}

// processInheritance resolves one context's transformed class map
// against ancestors, in order (nearer ancestors first). Classes grouped
// under "_" (no derivation) are copied through unchanged. Classes
// grouped under any other deriving-from name are prefixed with that
// name's already-resolved utilities, looked up first within the map
// being built (so a class can derive from another class processed
// earlier in the same context) and then within ancestors.
func processInheritance(ancestors []track.FlatMap, transformed *omap.Map[*omap.Map[string]]) track.FlatMap {
	inherited := omap.New[string]()

	transformed.Each(func(derivedFrom string, classMap *omap.Map[string]) {
		if derivedFrom == "_" {
			classMap.Each(func(className, joined string) {
				inherited.Set(className, joined)
			})
			return
		}

		prefix, _ := inherited.Get(derivedFrom)
		if prefix == "" {
			for _, ancestor := range ancestors {
				if v, ok := ancestor.Get(derivedFrom); ok {
					prefix = v
					break
				}
			}
		}
		if prefix != "" {
			prefix += " "
		}

		classMap.Each(func(className, joined string) {
			inherited.Set(className, prefix+joined)
		})
	})

	return inherited
}

// processLayoutsInheritance flattens every layout's tracking map against
// central alone.
func processLayoutsInheritance(central track.FlatMap, layouts map[string]track.ClassMap) map[string]track.FlatMap {
	out := make(map[string]track.FlatMap, len(layouts))

	for _, layoutName := range sortedKeys(layouts) {
		transformed := transformClassMap(layouts[layoutName])
		out[layoutName] = processInheritance([]track.FlatMap{central}, transformed)
	}

	return out
}

// processModulesInheritance flattens every module's tracking map against
// its parent layout (if any) then central, in that order. The result is
// keyed by module context name alone, independent of the parent-layout
// grouping used by the Classinator.
func processModulesInheritance(central track.FlatMap, layoutsFlat map[string]track.FlatMap, modules map[string]map[string]track.ClassMap) map[string]track.FlatMap {
	out := make(map[string]track.FlatMap)

	for _, parentLayout := range sortedKeys(modules) {
		moduleMap := modules[parentLayout]

		var ancestors []track.FlatMap
		if layoutFlat, ok := layoutsFlat[parentLayout]; ok && layoutFlat.Len() > 0 {
			ancestors = append(ancestors, layoutFlat)
		}
		if central.Len() > 0 {
			ancestors = append(ancestors, central)
		}

		for _, moduleName := range sortedKeys(moduleMap) {
			transformed := transformClassMap(moduleMap[moduleName])
			out[moduleName] = processInheritance(ancestors, transformed)
		}
	}

	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
