// Package compile implements the context compiler (C1) and class
// generator (C2): reducing one parsed Nenyr context into writes on the
// semantic store plus a per-context tracking map, generating
// deterministic utility class names as it goes.
package compile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/patrickgunnar/galadrielcss/internal/alerts"
	"github.com/patrickgunnar/galadrielcss/internal/ast"
	"github.com/patrickgunnar/galadrielcss/internal/identicon"
	"github.com/patrickgunnar/galadrielcss/internal/omap"
	"github.com/patrickgunnar/galadrielcss/internal/registry"
	"github.com/patrickgunnar/galadrielcss/internal/resolve"
	"github.com/patrickgunnar/galadrielcss/internal/store"
	"github.com/patrickgunnar/galadrielcss/internal/track"
)

// sortedStringKeys returns m's keys in ascending order, so iteration
// over a plain Go map produces the same output across runs.
func sortedStringKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Engine bundles the shared state one compilation reads and writes.
// Callers construct one Engine per process (or per test) and pass it to
// Compile.
type Engine struct {
	Store       *store.Store
	Registry    *registry.Registry
	Classinator *track.Classinator
	Bus         *alerts.Bus
}

// Result reports what one compilation produced, for the orchestrator
// and for tests.
type Result struct {
	ContextName     string
	ParentLayout    string
	Warnings        []string
	UtilityCount    int
}

// Compile reduces parsed into writes on e's store and classinator, for
// the file at path. It returns a context-level error (name conflict)
// without mutating anything past the name-binding step; all other
// failures are reported as warnings on the alert bus and the affected
// property/class entry is skipped.
func Compile(e *Engine, path string, parsed ast.ParsedContext) (*Result, error) {
	start := time.Now()

	contextName := parsed.Name
	if parsed.Kind == ast.KindCentral {
		contextName = registry.CentralContextName
	}

	if err := e.Registry.Bind(path, contextName); err != nil {
		return nil, err
	}

	result := &Result{ContextName: contextName}
	if parsed.Kind == ast.KindModule {
		result.ParentLayout = parsed.ParentLayout
	}

	chain := InheritanceChain(contextName, result.ParentLayout)

	// Leaf sections: order-independent, written directly.
	e.Store.ReplaceImports(contextName, parsed.Imports)
	e.Store.ReplaceTypefaces(contextName, parsed.Typefaces)
	e.Store.ReplaceAliases(contextName, parsed.Aliases)

	e.compileVariables(contextName, parsed)
	e.compileThemes(contextName, parsed)

	if parsed.Kind == ast.KindCentral && parsed.Breakpoints != nil {
		e.Store.ReplaceBreakpoints(store.Breakpoints{
			MobileFirst:  parsed.Breakpoints.MobileFirst,
			DesktopFirst: parsed.Breakpoints.DesktopFirst,
		})
	}

	warnings := e.compileAnimations(contextName, parsed, chain)
	result.Warnings = append(result.Warnings, warnings...)

	tracking, classWarnings, utilCount := e.compileClasses(contextName, parsed, chain)
	result.Warnings = append(result.Warnings, classWarnings...)
	result.UtilityCount = utilCount

	switch parsed.Kind {
	case ast.KindCentral:
		e.Classinator.SetCentral(tracking)
	case ast.KindLayout:
		e.Classinator.SetLayout(contextName, tracking)
	case ast.KindModule:
		e.Classinator.SetModule(result.ParentLayout, contextName, tracking)
	}

	for _, w := range result.Warnings {
		e.Bus.Warning(start, w)
	}

	return result, nil
}

func (e *Engine) compileVariables(contextName string, parsed ast.ParsedContext) {
	if len(parsed.Variables) == 0 {
		e.Store.ReplaceVariables(contextName, map[string]store.Variable{})
		return
	}
	vars := make(map[string]store.Variable, len(parsed.Variables))
	for _, id := range sortedStringKeys(parsed.Variables) {
		vars[id] = store.Variable{UniqueName: identicon.VariableName(contextName, id), Value: parsed.Variables[id]}
	}
	e.Store.ReplaceVariables(contextName, vars)
}

func (e *Engine) compileThemes(contextName string, parsed ast.ParsedContext) {
	if parsed.Themes == nil {
		e.Store.ReplaceThemes(contextName, store.ThemeSchemas{})
		return
	}

	light := make(map[string]store.Variable, len(parsed.Themes.Light))
	dark := make(map[string]store.Variable, len(parsed.Themes.Dark))

	for _, id := range sortedStringKeys(parsed.Themes.Light) {
		light[id] = store.Variable{UniqueName: identicon.VariableName(contextName, id), Value: parsed.Themes.Light[id]}
	}
	for _, id := range sortedStringKeys(parsed.Themes.Dark) {
		// Light and dark share one unique name per identifier: reuse
		// light's name if the identifier exists in both.
		uniqueName := identicon.VariableName(contextName, id)
		if lv, ok := light[id]; ok {
			uniqueName = lv.UniqueName
		}
		dark[id] = store.Variable{UniqueName: uniqueName, Value: parsed.Themes.Dark[id]}
	}

	e.Store.ReplaceThemes(contextName, store.ThemeSchemas{Light: light, Dark: dark})
}

func (e *Engine) compileAnimations(contextName string, parsed ast.ParsedContext, chain []string) []string {
	var warnings []string
	compiled := make(map[string]store.CompiledAnimation, len(parsed.Animations))

	for _, name := range sortedStringKeys(parsed.Animations) {
		anim := parsed.Animations[name]
		uniqueName := identicon.AnimationName(contextName, name)
		keyframes, stopOrder := expandKeyframes(anim)

		if len(keyframes) == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"animation %q in context %q produced no keyframes", name, contextName))
		}

		resolvedKeyframes := make(map[string]map[string]string, len(keyframes))
		for _, stopKey := range stopOrder {
			props := keyframes[stopKey]
			resolvedProps := make(map[string]string, len(props))
			for _, property := range sortedStringKeys(props) {
				value := props[property]
				newProperty, ok := resolve.Alias(e.Store, property, chain)
				if !ok {
					warnings = append(warnings, fmt.Sprintf(
						"alias %q of animation %q in context %q not recognised", property, name, contextName))
					continue
				}
				newValue, ok := resolve.VariableInStr(e.Store, value, false, chain)
				if !ok {
					warnings = append(warnings, fmt.Sprintf(
						"value %q of animation %q in context %q could not be resolved", value, name, contextName))
					continue
				}
				resolvedProps[newProperty] = newValue
			}
			resolvedKeyframes[stopKey] = resolvedProps
		}

		compiled[name] = store.CompiledAnimation{
			UniqueName: uniqueName,
			Keyframes:  resolvedKeyframes,
			StopOrder:  stopOrder,
		}
	}

	e.Store.ReplaceAnimations(contextName, compiled)
	return warnings
}

// expandKeyframes derives the stop-key -> properties map (and its
// insertion order) for one animation, per its Kind.
func expandKeyframes(anim ast.Animation) (map[string]map[string]string, []string) {
	out := make(map[string]map[string]string)
	var order []string

	addStop := func(key string, props map[string]string) {
		if _, exists := out[key]; !exists {
			order = append(order, key)
		}
		out[key] = props
	}

	switch anim.Kind {
	case ast.AnimationFraction:
		for _, kf := range anim.Keyframes {
			parts := make([]string, 0, len(kf.Fractions))
			for _, s := range kf.Fractions {
				parts = append(parts, strconv.Itoa(s)+"%")
			}
			addStop(strings.Join(parts, ","), kf.Properties)
		}

	case ast.AnimationProgressive:
		n := len(anim.Keyframes)
		switch n {
		case 0:
			// no entries
		case 1:
			addStop("100%", anim.Keyframes[0].Properties)
		default:
			step := 100.0 / float64(n-1)
			for i, kf := range anim.Keyframes {
				pct := step * float64(i)
				addStop(formatPercent(pct), kf.Properties)
			}
		}

	case ast.AnimationTransitive:
		for _, kf := range anim.Keyframes {
			switch kf.Tag {
			case ast.TransitiveFrom:
				addStop("0%", kf.Properties)
			case ast.TransitiveHalfway:
				addStop("50%", kf.Properties)
			case ast.TransitiveTo:
				addStop("100%", kf.Properties)
			default:
				// unrecognised tag: ignored
			}
		}

	case ast.AnimationNone:
		// empty map, warning raised by caller
	}

	return out, order
}

func formatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return s + "%"
}

// formatBreakpointValue turns a resolved breakpoint schema and raw
// length into the media-feature expression the emitter writes verbatim
// inside "@media screen and (...)".
func formatBreakpointValue(schema, value string) string {
	if schema == "desktop-first" {
		return "max-width:" + value
	}
	return "min-width:" + value
}

func (e *Engine) compileClasses(contextName string, parsed ast.ParsedContext, chain []string) (track.ClassMap, []string, int) {
	tracking := track.NewClassMap()
	var warnings []string
	utilCount := 0

	for _, className := range sortedStringKeys(parsed.Classes) {
		class := parsed.Classes[className]
		isImportant := class.IsImportant != nil && *class.IsImportant
		derivedFrom := "_"
		if class.DerivedFrom != nil {
			derivedFrom = *class.DerivedFrom
		}

		var trackingNames []string

		for _, patternKey := range sortedStringKeys(class.StylePatterns) {
			properties := class.StylePatterns[patternKey]
			patternName := strings.TrimSuffix(patternKey, "stylesheet")
			for _, property := range sortedStringKeys(properties) {
				value := properties[property]
				name, ok := e.compileOneDeclaration(contextName, className, patternName, patternKey,
					nil, "", isImportant, property, value, chain, &warnings)
				if ok {
					trackingNames = append(trackingNames, name)
					utilCount++
				}
			}
		}

		for _, bpKey := range sortedStringKeys(class.ResponsivePatterns) {
			patterns := class.ResponsivePatterns[bpKey]
			schema, bpValue, ok := resolve.Breakpoint(e.Store, bpKey)
			if !ok {
				warnings = append(warnings, fmt.Sprintf(
					"breakpoint %q referenced by class %q in context %q is not recognised", bpKey, className, contextName))
				continue
			}
			bpValue = formatBreakpointValue(schema, bpValue)

			for _, patternKey := range sortedStringKeys(patterns) {
				properties := patterns[patternKey]
				patternName := strings.TrimSuffix(patternKey, "stylesheet")
				for _, property := range sortedStringKeys(properties) {
					value := properties[property]
					name, ok := e.compileOneDeclaration(contextName, className, patternName, patternKey,
						&bpKey, bpValue, isImportant, property, value, chain, &warnings)
					if ok {
						trackingNames = append(trackingNames, name)
						utilCount++
					}
				}
			}
		}

		entries, _ := tracking.Get(derivedFrom)
		if entries == nil {
			entries = omap.New[[]string]()
			tracking.Set(derivedFrom, entries)
		}
		entries.Set(className, trackingNames)
	}

	return tracking, warnings, utilCount
}

// compileOneDeclaration resolves one (property, value) declaration,
// generates its utility name, and writes it into the styles section
// (breakpoint nil) or into the responsive-styles section under
// breakpointValue, the formatted media-feature expression the caller
// resolved.
func (e *Engine) compileOneDeclaration(
	contextName, className, patternName, rawPatternKey string,
	breakpoint *string, breakpointValue string, isImportant bool, property, value string, chain []string, warnings *[]string,
) (string, bool) {
	newProperty, ok := resolve.Alias(e.Store, property, chain)
	if !ok {
		*warnings = append(*warnings, fmt.Sprintf(
			"alias %q of %s in class %q in context %q not recognised", property, rawPatternKey, className, contextName))
		return "", false
	}

	newValue, ok := resolve.VariableInStr(e.Store, value, true, chain)
	if !ok {
		*warnings = append(*warnings, fmt.Sprintf(
			"variable reference in %q of %s in class %q in context %q could not be resolved", value, rawPatternKey, className, contextName))
		return "", false
	}

	utilityName := identicon.UtilityClassName(breakpoint, isImportant, patternName, newProperty, newValue)

	if breakpoint == nil {
		e.Store.InsertStyle(patternName, importanceKey(isImportant), newProperty, utilityName, newValue)
	} else {
		e.Store.InsertResponsiveStyle(breakpointValue, patternName, importanceKey(isImportant), newProperty, utilityName, newValue)
	}

	return utilityName, true
}

func importanceKey(isImportant bool) string {
	if isImportant {
		return "!important"
	}
	return "_"
}
