// Package emit implements the CSS emitter (E1): it walks the semantic
// store's sections and renders the final stylesheet text, running the
// independent sections concurrently and concatenating them in a fixed
// order afterward.
package emit

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/patrickgunnar/galadrielcss/internal/store"
)

// FormatStyle controls whitespace and the optional reset prelude. Under
// minification every separator collapses to the empty string; the
// three fields are derived from one boolean rather than carried
// independently, so callers never construct an inconsistent style.
type FormatStyle struct {
	Newline string
	Space   string
	Tab     string

	SetReset bool
	Minified bool
}

// NewFormatStyle derives a FormatStyle from the two booleans the config
// file exposes.
func NewFormatStyle(minified, setReset bool) FormatStyle {
	if minified {
		return FormatStyle{SetReset: setReset, Minified: true}
	}
	return FormatStyle{Newline: "\n", Space: " ", Tab: "\t", SetReset: setReset, Minified: false}
}

// resetTemplate is the fixed universal-selector reset prelude, emitted
// verbatim (modulo whitespace collapsing) when SetReset is true.
const resetTemplate = "*, *::before, *::after {" +
	"margin: 0;" +
	"padding: 0;" +
	"box-sizing: border-box;" +
	"border: 0;" +
	"font-size: 100%;" +
	"font: inherit;" +
	"vertical-align: baseline;" +
	"}"

// Emit renders s's sections for the contexts in contextOrder (first-bind
// order, from the registry) into the final stylesheet text. Sections are
// rendered concurrently and joined in fixed order: reset, imports,
// typefaces, variables, themes, animations, styles, responsive-styles.
func Emit(ctx context.Context, s *store.Store, contextOrder []string, fs FormatStyle) (string, error) {
	sections := make([]string, 8)

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		if fs.SetReset {
			sections[0] = renderReset(fs)
		}
		return nil
	})
	g.Go(func() error {
		sections[1] = renderImports(s, contextOrder, fs)
		return nil
	})
	g.Go(func() error {
		sections[2] = renderTypefaces(s, contextOrder, fs)
		return nil
	})
	g.Go(func() error {
		sections[3] = renderVariables(s, contextOrder, fs)
		return nil
	})
	g.Go(func() error {
		sections[4] = renderThemes(s, contextOrder, fs)
		return nil
	})
	g.Go(func() error {
		sections[5] = renderAnimations(s, contextOrder, fs)
		return nil
	})
	g.Go(func() error {
		sections[6] = renderStyles(s, fs)
		return nil
	})
	g.Go(func() error {
		sections[7] = renderResponsiveStyles(s, fs)
		return nil
	})

	if err := g.Wait(); err != nil {
		return "", err
	}

	var nonEmpty []string
	for _, sec := range sections {
		if sec != "" {
			nonEmpty = append(nonEmpty, sec)
		}
	}

	out := strings.Join(nonEmpty, fs.Newline)
	if fs.Minified {
		out = minifyCSS(out)
	}
	return out, nil
}

func renderReset(FormatStyle) string {
	return resetTemplate
}

func renderImports(s *store.Store, contextOrder []string, fs FormatStyle) string {
	urls := s.AllImports(contextOrder)
	if len(urls) == 0 {
		return ""
	}
	lines := make([]string, len(urls))
	for i, url := range urls {
		lines[i] = fmt.Sprintf(`@import url("%s");`, url)
	}
	return strings.Join(lines, fs.Newline)
}

var typefaceFormats = map[string]string{
	"woff":  "woff",
	"woff2": "woff2",
	"ttf":   "truetype",
	"otf":   "opentype",
	"eot":   "embedded-opentype",
	"svg":   "svg",
}

func renderTypefaces(s *store.Store, contextOrder []string, fs FormatStyle) string {
	entries := s.AllTypefaces(contextOrder)
	var lines []string
	for _, e := range entries {
		ext := strings.TrimPrefix(strings.ToLower(extOf(e.Path)), ".")
		format, ok := typefaceFormats[ext]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf(
			`@font-face {%s%sfont-family: %s;%s%ssrc: url("%s") format("%s");%s}`,
			fs.Newline, fs.Tab, e.ID, fs.Newline, fs.Tab, e.Path, format, fs.Newline))
	}
	return strings.Join(lines, fs.Newline)
}

func extOf(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx == -1 {
		return ""
	}
	return path[idx+1:]
}

func renderVariables(s *store.Store, contextOrder []string, fs FormatStyle) string {
	entries := s.AllVariables(contextOrder)
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(":root {")
	b.WriteString(fs.Newline)

	lastContext := ""
	for _, e := range entries {
		if !fs.Minified && e.Context != lastContext {
			label := e.Context
			if label == "" {
				label = "Central"
			}
			b.WriteString(fs.Tab)
			b.WriteString(fmt.Sprintf("/* Variable(s) sourced from the '%s' context */", label))
			b.WriteString(fs.Newline)
			lastContext = e.Context
		}
		b.WriteString(fs.Tab)
		b.WriteString(fmt.Sprintf("%s:%s%s;", e.Variable.UniqueName, fs.Space, e.Variable.Value))
		b.WriteString(fs.Newline)
	}
	b.WriteString("}")
	return b.String()
}

func renderThemes(s *store.Store, contextOrder []string, fs FormatStyle) string {
	entries := s.AllThemes(contextOrder)

	light := renderThemeSchema(entries, fs, true)
	dark := renderThemeSchema(entries, fs, false)

	var sections []string
	if light != "" {
		sections = append(sections, fmt.Sprintf("@media (prefers-color-scheme: light) {%s:root {%s%s%s}%s}",
			fs.Newline, fs.Newline, light, fs.Newline, fs.Newline))
	}
	if dark != "" {
		sections = append(sections, fmt.Sprintf("@media (prefers-color-scheme: dark) {%s:root {%s%s%s}%s}",
			fs.Newline, fs.Newline, dark, fs.Newline, fs.Newline))
	}
	return strings.Join(sections, fs.Newline)
}

func renderThemeSchema(entries []store.ThemeEntry, fs FormatStyle, light bool) string {
	var lines []string
	for _, e := range entries {
		schema := e.Schemas.Light
		if !light {
			schema = e.Schemas.Dark
		}
		for _, id := range sortedVarIDs(schema) {
			v := schema[id]
			lines = append(lines, fmt.Sprintf("%s%s:%s%s;", fs.Tab, v.UniqueName, fs.Space, v.Value))
		}
	}
	return strings.Join(lines, fs.Newline)
}

func renderAnimations(s *store.Store, contextOrder []string, fs FormatStyle) string {
	entries := s.AllAnimations(contextOrder)
	var blocks []string
	for _, e := range entries {
		if len(e.Animation.Keyframes) == 0 {
			continue
		}
		var stops []string
		for _, stopKey := range e.Animation.StopOrder {
			props := e.Animation.Keyframes[stopKey]
			var decls []string
			for _, prop := range sortedStrKeys(props) {
				decls = append(decls, fmt.Sprintf("%s:%s%s;", prop, fs.Space, props[prop]))
			}
			stops = append(stops, fmt.Sprintf("%s%s%s {%s%s%s%s}", fs.Tab, stopKey, fs.Space,
				fs.Newline, strings.Join(decls, fs.Newline), fs.Newline, fs.Tab))
		}
		blocks = append(blocks, fmt.Sprintf("@keyframes %s {%s%s%s}", e.Animation.UniqueName,
			fs.Newline, strings.Join(stops, fs.Newline), fs.Newline))
	}
	return strings.Join(blocks, fs.Newline)
}

func renderStyles(s *store.Store, fs FormatStyle) string {
	entries := s.StylesSnapshot()
	var lines []string
	for _, e := range entries {
		lines = append(lines, renderLeaf(e.Pattern, e.Property, e.UtilityName, e.Value, e.Importance, fs))
	}
	return strings.Join(lines, fs.Newline)
}

func renderResponsiveStyles(s *store.Store, fs FormatStyle) string {
	entries := s.ResponsiveStylesSnapshot()

	var blocks []string
	i := 0
	for i < len(entries) {
		bp := entries[i].BreakpointValue
		var lines []string
		for i < len(entries) && entries[i].BreakpointValue == bp {
			e := entries[i]
			lines = append(lines, fs.Tab+renderLeaf(e.Pattern, e.Property, e.UtilityName, e.Value, e.Importance, fs))
			i++
		}
		blocks = append(blocks, fmt.Sprintf("@media screen and (%s) {%s%s%s}", bp,
			fs.Newline, strings.Join(lines, fs.Newline), fs.Newline))
	}
	return strings.Join(blocks, fs.Newline)
}

func renderLeaf(pattern, property, utilityName, value, importance string, fs FormatStyle) string {
	suffix := ""
	if importance == "!important" {
		suffix = " !important"
	}
	selectorPattern := pattern
	if selectorPattern == "_" {
		selectorPattern = ""
	}
	return fmt.Sprintf(".%s%s {%s%s:%s%s%s;%s}",
		utilityName, selectorPattern, fs.Newline, property, fs.Space, value, suffix, fs.Newline)
}

func sortedVarIDs(m map[string]store.Variable) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedStrKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
