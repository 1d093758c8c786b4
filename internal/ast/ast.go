// Package ast declares the parsed-context shapes the Nenyr parser is
// assumed to produce. The parser itself is out of scope for this core;
// this package is the contract boundary between it and the context
// compiler.
package ast

// ContextKind distinguishes the three source-file roles.
type ContextKind int

const (
	KindCentral ContextKind = iota
	KindLayout
	KindModule
)

// AnimationKind selects how an animation's keyframe stops are derived.
type AnimationKind int

const (
	AnimationFraction AnimationKind = iota
	AnimationProgressive
	AnimationTransitive
	AnimationNone
)

// TransitiveTag names one of the three fixed stops a Transitive
// animation keyframe may declare.
type TransitiveTag int

const (
	TransitiveFrom TransitiveTag = iota
	TransitiveHalfway
	TransitiveTo
	TransitiveUnknown
)

// Breakpoints holds the two breakpoint schemas a central context may
// declare. Keys are breakpoint identifiers, values are raw length
// strings (e.g. "640px").
type Breakpoints struct {
	MobileFirst  map[string]string
	DesktopFirst map[string]string
}

// ThemeSet holds the light/dark variable sub-maps of one theme block.
type ThemeSet struct {
	Light map[string]string
	Dark  map[string]string
}

// AnimationStop is one stop of an animation: for Fraction kind it may
// list multiple percentages, for Progressive/Transitive it has exactly
// one synthesized percentage key computed by the compiler.
type AnimationStop struct {
	// Fractions holds the stop percentages as declared (0..100) for the
	// Fraction kind. Empty for Progressive/Transitive, which synthesize
	// their own stop keys.
	Fractions []int
	// Tag is set for Transitive keyframes.
	Tag TransitiveTag
	// Properties is the property -> value map declared at this stop.
	Properties map[string]string
}

// Animation is one named animation declaration.
type Animation struct {
	Kind             AnimationKind
	Keyframes        []AnimationStop
	ProgressiveCount *int
}

// StylePattern maps a pattern name (`_stylesheet`, `:hover`, ...) to its
// property -> value declarations.
type StylePattern map[string]map[string]string

// ResponsivePattern adds the breakpoint-identifier layer on top of a
// StylePattern.
type ResponsivePattern map[string]StylePattern

// Class is one logical class declaration.
type Class struct {
	Name               string
	DerivedFrom        *string
	IsImportant        *bool
	StylePatterns      StylePattern
	ResponsivePatterns ResponsivePattern
}

// ParsedContext is the sum type for a parsed source file: Central,
// Layout, or Module, each carrying the shared optional sections plus
// per-kind specifics.
type ParsedContext struct {
	Kind ContextKind
	Name string

	Imports   []string
	Typefaces map[string]string
	Aliases   map[string]string
	Variables map[string]string
	Themes    *ThemeSet
	Animations map[string]Animation
	Classes   map[string]Class

	// Central-only.
	Breakpoints *Breakpoints

	// Layout/Module: the name of the central context this inherits
	// from (always set by the caller to the reserved sentinel, see
	// registry.CentralContextName).
	InheritsCentral string
	// Layout-only child inheritance, Module-only: name of an inherited
	// layout, if any.
	InheritsLayout *string
	// Module-only: the parent layout this module extends.
	ParentLayout string
}
