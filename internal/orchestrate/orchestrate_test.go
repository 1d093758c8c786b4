package orchestrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickgunnar/galadrielcss/internal/alerts"
	"github.com/patrickgunnar/galadrielcss/internal/ast"
	"github.com/patrickgunnar/galadrielcss/internal/compile"
	"github.com/patrickgunnar/galadrielcss/internal/config"
	"github.com/patrickgunnar/galadrielcss/internal/query"
	"github.com/patrickgunnar/galadrielcss/internal/registry"
	"github.com/patrickgunnar/galadrielcss/internal/store"
	"github.com/patrickgunnar/galadrielcss/internal/track"
)

// fixedParser returns a fixed ast.ParsedContext for each registered
// path, ignoring file content entirely.
type fixedParser struct {
	byPath map[string]ast.ParsedContext
}

func (p *fixedParser) Parse(path, _ string) (ast.ParsedContext, error) {
	parsed, ok := p.byPath[path]
	if !ok {
		return ast.ParsedContext{}, assert.AnError
	}
	return parsed, nil
}

func strPtr(s string) *string { return &s }

func newTestEngine() *compile.Engine {
	return &compile.Engine{
		Store:       store.New(),
		Registry:    registry.New(),
		Classinator: track.NewClassinator(),
		Bus:         alerts.NewBus(),
	}
}

func TestExcludeMatcherGlobAndGitignore(t *testing.T) {
	m := NewExcludeMatcher([]string{"dist/**"})
	assert.True(t, m.Match("dist/bundle.css"))
	assert.True(t, m.Match(".git/HEAD"))
	assert.False(t, m.Match("src/central.nyr"))

	m.Replace([]string{"generated/**"})
	assert.False(t, m.Match("dist/bundle.css"))
	assert.True(t, m.Match("generated/out.css"))
}

func TestReadFileResilientImmediate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "central.nyr")
	require.NoError(t, os.WriteFile(path, []byte("Central { }"), 0o644))

	content, err := readFileResilient(path)
	require.NoError(t, err)
	assert.Equal(t, "Central { }", content)
}

func TestReadFileResilientEmptyExhaustsRetries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "module.nyr")
	require.NoError(t, os.WriteFile(path, []byte{}, 0o644))

	_, err := readFileResilient(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FileReadMaxRetriesExceeded")
}

func TestPortFileLifecycle(t *testing.T) {
	dir := t.TempDir()
	engine := newTestEngine()
	orch := New(dir, engine, track.NewClastrack(), query.NewCache(), &fixedParser{}, passthroughInjectorStub{}, config.Default())

	orch.portFilePath = filepath.Join(dir, "port.txt")
	require.NoError(t, orch.WritePortFile("4500"))
	data, err := os.ReadFile(orch.portFilePath)
	require.NoError(t, err)
	assert.Equal(t, "4500", string(data))

	require.NoError(t, orch.RemovePortFile())
	_, err = os.Stat(orch.portFilePath)
	assert.True(t, os.IsNotExist(err))

	// Removing twice is not an error.
	require.NoError(t, orch.RemovePortFile())
}

type passthroughInjectorStub struct{}

func (passthroughInjectorStub) Inject(_, content string) (string, error) { return content, nil }

func TestBuildOnceCompilesCentralLayoutModule(t *testing.T) {
	dir := t.TempDir()
	centralPath := filepath.Join(dir, "app.central.nyr")
	layoutPath := filepath.Join(dir, "page.layout.nyr")
	modulePath := filepath.Join(dir, "widget.nyr")

	for _, p := range []string{centralPath, layoutPath, modulePath} {
		require.NoError(t, os.WriteFile(p, []byte("placeholder"), 0o644))
	}

	parser := &fixedParser{byPath: map[string]ast.ParsedContext{
		centralPath: {
			Kind: ast.KindCentral,
			Classes: map[string]ast.Class{
				"baseClass": {
					StylePatterns: ast.StylePattern{"_stylesheet": {"color": "red"}},
				},
			},
		},
		layoutPath: {
			Kind: ast.KindLayout,
			Name: "myLayout",
			Classes: map[string]ast.Class{
				"layoutClass": {
					DerivedFrom:   strPtr("baseClass"),
					StylePatterns: ast.StylePattern{"_stylesheet": {"background": "blue"}},
				},
			},
		},
		modulePath: {
			Kind:         ast.KindModule,
			Name:         "myModule",
			ParentLayout: "myLayout",
			Classes: map[string]ast.Class{
				"moduleClass": {
					StylePatterns: ast.StylePattern{"_stylesheet": {"display": "flex"}},
				},
			},
		},
	}}

	engine := newTestEngine()
	clastrack := track.NewClastrack()
	cache := query.NewCache()

	orch := New(dir, engine, clastrack, cache, parser, passthroughInjectorStub{}, config.Default())

	require.NoError(t, orch.BuildOnce(context.Background()))

	css := cache.Get()
	assert.Contains(t, css, "color:red")
	assert.Contains(t, css, "background:blue")
	assert.Contains(t, css, "display:flex")

	moduleTokens, ok := clastrack.Resolve("Module", "myModule", "moduleClass")
	require.True(t, ok)
	assert.NotEmpty(t, moduleTokens)

	layoutTokens, ok := clastrack.Resolve("Layout", "myLayout", "layoutClass")
	require.True(t, ok)
	assert.True(t, strings.Contains(layoutTokens, " "), "layout class should inherit central's utility plus its own")
}

func TestHandleRemovedClearsTrackingAndRecompiles(t *testing.T) {
	dir := t.TempDir()
	centralPath := filepath.Join(dir, "app.central.nyr")
	require.NoError(t, os.WriteFile(centralPath, []byte("placeholder"), 0o644))

	parser := &fixedParser{byPath: map[string]ast.ParsedContext{
		centralPath: {
			Kind: ast.KindCentral,
			Classes: map[string]ast.Class{
				"baseClass": {StylePatterns: ast.StylePattern{"_stylesheet": {"color": "red"}}},
			},
		},
	}}

	engine := newTestEngine()
	clastrack := track.NewClastrack()
	cache := query.NewCache()
	orch := New(dir, engine, clastrack, cache, parser, passthroughInjectorStub{}, config.Default())

	require.NoError(t, orch.BuildOnce(context.Background()))
	require.Contains(t, cache.Get(), "color:red")

	require.NoError(t, os.Remove(centralPath))
	orch.handleRemoved(context.Background(), centralPath)

	_, ok := clastrack.Resolve("Central", "", "baseClass")
	assert.False(t, ok)
	assert.NotContains(t, cache.Get(), "color:red")
}

func TestReloadConfigAppliesExcludeAndDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "galadriel.config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"exclude": ["vendor/**"], "minifiedStyles": false}`), 0o644))

	engine := newTestEngine()
	orch := New(dir, engine, track.NewClastrack(), query.NewCache(), &fixedParser{}, passthroughInjectorStub{}, config.Default())

	orch.reloadConfig(cfgPath)

	got := orch.config()
	assert.False(t, got.MinifiedStyles)
	assert.True(t, got.AutoNaming)
	assert.True(t, orch.matcher.Match("vendor/pkg/file.nyr"))
}

func TestRelevantEventFiltersNonMatchingPaths(t *testing.T) {
	engine := newTestEngine()
	orch := New(t.TempDir(), engine, track.NewClastrack(), query.NewCache(), &fixedParser{}, passthroughInjectorStub{}, config.Default())

	assert.True(t, orch.relevantEvent(fsnotify.Event{Name: "foo/central.nyr", Op: fsnotify.Write}))
	assert.True(t, orch.relevantEvent(fsnotify.Event{Name: "galadriel.config.json", Op: fsnotify.Write}))
	assert.False(t, orch.relevantEvent(fsnotify.Event{Name: "README.md", Op: fsnotify.Write}))
}
