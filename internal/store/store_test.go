package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertStyleIntoPreinitializedPatternsIsFound(t *testing.T) {
	s := New()
	s.InsertStyle("_", "_", "color", "clr-ab12", "red")
	s.InsertStyle(":hover", "!important", "color", "clr-cd34", "blue")

	assert.True(t, s.HasUtility("clr-ab12"))
	assert.True(t, s.HasUtility("clr-cd34"))
}

func TestInsertStyleCreatesPatternOnDemand(t *testing.T) {
	s := New()
	s.InsertStyle("::placeholder", "_", "color", "clr-ab12", "red")

	snap := s.StylesSnapshot()
	var found bool
	for _, entry := range snap {
		if entry.Pattern == "::placeholder" && entry.UtilityName == "clr-ab12" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestImportsRoundTrip(t *testing.T) {
	s := New()
	s.ReplaceImports("ctxA", []string{"https://fonts.example/a.css"})
	s.ReplaceImports("ctxB", []string{"https://fonts.example/a.css", "https://fonts.example/b.css"})

	all := s.AllImports([]string{"ctxA", "ctxB"})
	assert.Equal(t, []string{"https://fonts.example/a.css", "https://fonts.example/b.css"}, all)

	s.RemoveImports("ctxA")
	all = s.AllImports([]string{"ctxA", "ctxB"})
	assert.Equal(t, []string{"https://fonts.example/a.css", "https://fonts.example/b.css"}, all)
}

func TestAliasesRoundTrip(t *testing.T) {
	s := New()
	s.ReplaceAliases("ctx", map[string]string{"nickname;bg": "background-color"})

	v, ok := s.LookupAlias("ctx", "nickname;bg")
	require.True(t, ok)
	assert.Equal(t, "background-color", v)

	s.RemoveAliases("ctx")
	_, ok = s.LookupAlias("ctx", "nickname;bg")
	assert.False(t, ok)
}

func TestBreakpointsLookupPrefersMobileFirst(t *testing.T) {
	s := New()
	s.ReplaceBreakpoints(Breakpoints{
		MobileFirst:  map[string]string{"md": "768px"},
		DesktopFirst: map[string]string{"md": "769px"},
	})

	schema, value, ok := s.LookupBreakpoint("md")
	require.True(t, ok)
	assert.Equal(t, "mobile-first", schema)
	assert.Equal(t, "768px", value)
}

func TestVariablesRoundTrip(t *testing.T) {
	s := New()
	s.ReplaceVariables("ctx", map[string]Variable{
		"primary": {UniqueName: "--gabc123", Value: "#fff"},
	})

	v, ok := s.LookupVariable("ctx", "primary")
	require.True(t, ok)
	assert.Equal(t, "--gabc123", v.UniqueName)

	all := s.AllVariables([]string{"ctx"})
	require.Len(t, all, 1)
	assert.Equal(t, "primary", all[0].ID)
}

func TestThemesLookupFallsBackToDark(t *testing.T) {
	s := New()
	s.ReplaceThemes("ctx", ThemeSchemas{
		Light: map[string]Variable{},
		Dark:  map[string]Variable{"accent": {UniqueName: "--gdef456", Value: "#000"}},
	})

	v, ok := s.LookupThemeVariable("ctx", "accent")
	require.True(t, ok)
	assert.Equal(t, "--gdef456", v.UniqueName)
}

func TestAnimationsRoundTrip(t *testing.T) {
	s := New()
	s.ReplaceAnimations("ctx", map[string]CompiledAnimation{
		"fadeIn": {UniqueName: "ganim123", StopOrder: []string{"0%", "100%"}},
	})

	anim, ok := s.LookupAnimation("ctx", "fadeIn")
	require.True(t, ok)
	assert.Equal(t, "ganim123", anim.UniqueName)
}

func TestHasUtilityFindsInsertedStyleAndResponsiveStyle(t *testing.T) {
	s := New()
	s.InsertStyle("_", "_", "color", "clr-ab12", "red")
	s.InsertResponsiveStyle("768px", "_", "_", "display", "dsp-ef56", "flex")

	assert.True(t, s.HasUtility("clr-ab12"))
	assert.True(t, s.HasUtility("dsp-ef56"))
	assert.False(t, s.HasUtility("unknown-name"))
}

func TestStylesSnapshotOrdersPreinitializedPatternsFirst(t *testing.T) {
	s := New()
	s.InsertStyle(":hover", "_", "color", "clr-ab12", "red")
	s.InsertStyle("_", "_", "display", "dsp-cd34", "flex")

	snap := s.StylesSnapshot()
	require.NotEmpty(t, snap)
	assert.Equal(t, "_", snap[0].Pattern)
}

func TestResponsiveStylesSnapshotSortsBreakpointValues(t *testing.T) {
	s := New()
	s.InsertResponsiveStyle("1024px", "_", "_", "display", "dsp-ab12", "grid")
	s.InsertResponsiveStyle("640px", "_", "_", "display", "dsp-cd34", "flex")

	snap := s.ResponsiveStylesSnapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "640px", snap[0].BreakpointValue)
	assert.Equal(t, "1024px", snap[1].BreakpointValue)
}
