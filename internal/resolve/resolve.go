// Package resolve implements the pure lookup functions (L4) used by the
// context compiler: alias, breakpoint, and ${...} variable/animation/
// theme substitution, each resolved against an ordered inheritance
// chain of context names.
package resolve

import (
	"strings"

	"github.com/patrickgunnar/galadrielcss/internal/identicon"
	"github.com/patrickgunnar/galadrielcss/internal/store"
)

const nicknamePrefix = "nickname;"

// Alias resolves key against chain. Keys not using the "nickname;"
// prefix pass through unchanged. A nickname key resolves against the
// first context in chain that declares it; ok is false if none do.
func Alias(s *store.Store, key string, chain []string) (resolved string, ok bool) {
	if !strings.HasPrefix(key, nicknamePrefix) {
		return key, true
	}

	suffix := strings.TrimPrefix(key, nicknamePrefix)
	for _, ctx := range chain {
		if property, found := s.LookupAlias(ctx, suffix); found {
			return property, true
		}
	}
	return "", false
}

// Breakpoint resolves key against the store's breakpoint schemas,
// trying mobile-first before desktop-first.
func Breakpoint(s *store.Store, key string) (schema, value string, ok bool) {
	return s.LookupBreakpoint(key)
}

// refToken finds the next "${name}" occurrence in text starting at
// offset, returning the match bounds and the captured name. ok is false
// when no well-formed reference remains.
func refToken(text string, offset int) (start, end int, name string, ok bool) {
	idx := strings.Index(text[offset:], "${")
	if idx == -1 {
		return 0, 0, "", false
	}
	start = offset + idx
	closeIdx := strings.IndexByte(text[start+2:], '}')
	if closeIdx == -1 {
		return 0, 0, "", false
	}
	end = start + 2 + closeIdx + 1
	name = text[start+2 : start+2+closeIdx]
	return start, end, name, true
}

// VariableInStr scans text for "${name}" references and substitutes
// each with var(--g...) for a resolved variable/theme, or the
// animation's unique keyframes name when allowAnimation is true and the
// reference resolves to an animation. Resolution order per reference:
// variables across chain, then (if allowed) animations across chain,
// then theme variables across chain. ok is false if any reference in
// text fails to resolve against anything.
func VariableInStr(s *store.Store, text string, allowAnimation bool, chain []string) (resolved string, ok bool) {
	var b strings.Builder
	offset := 0

	for {
		start, end, name, found := refToken(text, offset)
		if !found {
			b.WriteString(text[offset:])
			break
		}

		b.WriteString(text[offset:start])

		replacement, hit := resolveOneReference(s, name, allowAnimation, chain)
		if !hit {
			return "", false
		}
		b.WriteString(replacement)

		offset = end
	}

	return b.String(), true
}

func resolveOneReference(s *store.Store, name string, allowAnimation bool, chain []string) (string, bool) {
	for _, ctx := range chain {
		if v, found := s.LookupVariable(ctx, name); found {
			return "var(" + v.UniqueName + ")", true
		}
	}

	if allowAnimation {
		for _, ctx := range chain {
			if a, found := s.LookupAnimation(ctx, name); found {
				return a.UniqueName, true
			}
		}
	}

	for _, ctx := range chain {
		if v, found := s.LookupThemeVariable(ctx, name); found {
			return "var(" + v.UniqueName + ")", true
		}
	}

	return "", false
}

// UniqueVariableName is a thin re-export so callers that need to
// compose a variable's unique name without a full store round-trip (for
// example, while first writing it) can share the identicon formula.
func UniqueVariableName(context, identifier string) string {
	return identicon.VariableName(context, identifier)
}
