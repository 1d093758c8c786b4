// Package orchestrate implements the orchestrator (O1): a single
// event-loop goroutine driven by a debounced filesystem watcher, plus
// the ambient lifecycle (port-file registration, resilient file reads)
// the embedding CLI needs around it.
package orchestrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/patrickgunnar/galadrielcss/internal/ast"
	"github.com/patrickgunnar/galadrielcss/internal/compile"
	"github.com/patrickgunnar/galadrielcss/internal/config"
	"github.com/patrickgunnar/galadrielcss/internal/emit"
	"github.com/patrickgunnar/galadrielcss/internal/flatten"
	"github.com/patrickgunnar/galadrielcss/internal/galaerr"
	"github.com/patrickgunnar/galadrielcss/internal/query"
	"github.com/patrickgunnar/galadrielcss/internal/registry"
	"github.com/patrickgunnar/galadrielcss/internal/track"
)

// portFileName is the well-known temp-file the external query server
// reads to discover which port this process bound to.
const portFileName = "galadrielcss_lothlorien_pipeline_port.txt"

// Parser is the external Nenyr parser collaborator. It is out of scope
// for this core; the orchestrator only depends on its shape.
type Parser interface {
	Parse(path, content string) (ast.ParsedContext, error)
}

// NameInjector auto-assigns a construct name to a Nenyr file's contents
// when none is declared. It is expected to be idempotent: re-running it
// on already-named content is a no-op. The injector is an external
// collaborator, out of scope for this core; this interface is its
// contract.
type NameInjector interface {
	Inject(path, content string) (string, error)
}

// TouchDependents is the embedder callback invoked once per user
// template file the orchestrator just touched, so the embedder can
// invalidate any downstream build cache keyed on that file's mtime.
type TouchDependents interface {
	Touch(path string)
}

// markupRegex recognises a template file as referencing a Nenyr class,
// layout, or module.
var markupRegex = regexp.MustCompile(`@(class|layout|module):[A-Za-z0-9_]+(::[A-Za-z0-9_]+)?`)

// resetStylesMarker is the literal marker a plain .css file carries to
// opt into being touched alongside resetStyles processing.
const resetStylesMarker = "@galadrielcss styles;"

// ExcludeMatcher combines glob excludes (doublestar) with gitignore-style
// rules, replaceable atomically on config reload.
type ExcludeMatcher struct {
	mu      sync.RWMutex
	globs   []string
	ignorer *ignore.GitIgnore
}

// NewExcludeMatcher compiles globs into a fresh matcher.
func NewExcludeMatcher(globs []string) *ExcludeMatcher {
	m := &ExcludeMatcher{}
	m.Replace(globs)
	return m
}

// Replace atomically swaps the matcher's glob set.
func (m *ExcludeMatcher) Replace(globs []string) {
	cp := make([]string, len(globs))
	copy(cp, globs)

	ignorer := ignore.CompileIgnoreLines(".git/", "node_modules/", "vendor/")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.globs = cp
	m.ignorer = ignorer
}

// Match reports whether relPath should be excluded from watching and
// compilation.
func (m *ExcludeMatcher) Match(relPath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ignorer != nil && m.ignorer.MatchesPath(relPath) {
		return true
	}
	for _, g := range m.globs {
		if ok, _ := doublestar.Match(g, relPath); ok {
			return true
		}
	}
	return false
}

// readFileResilient reads path up to 20 times with a 5ms backoff,
// tolerating the empty reads that can occur when a read races an
// editor's save flush. It gives up with FileReadMaxRetries when every
// attempt read an empty file, or with FileReadFailed carrying the last
// read error when any attempt could not read the file.
func readFileResilient(path string) (string, error) {
	const retries = 20
	const backoff = 5 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		data, err := os.ReadFile(path)
		if err != nil {
			lastErr = err
			time.Sleep(backoff)
			continue
		}
		if len(data) > 0 {
			return string(data), nil
		}
		time.Sleep(backoff)
	}

	if lastErr != nil {
		return "", galaerr.Newf(galaerr.KindFileReadFailed, galaerr.ActionNotify,
			"reading %q: %v", path, lastErr)
	}
	return "", galaerr.Newf(galaerr.KindFileReadMaxRetries, galaerr.ActionNotify,
		"exceeded maximum attempts to read %q", path)
}

// Orchestrator owns the watcher loop, the shared compilation engine, and
// the dev-query cache it keeps up to date after every cycle.
type Orchestrator struct {
	RootDir    string
	Engine     *compile.Engine
	Clastrack  *track.Clastrack
	Cache      *query.Cache
	Parser     Parser
	Injector   NameInjector
	Dependents TouchDependents

	cfgMu   sync.RWMutex
	cfg     config.Config
	matcher *ExcludeMatcher

	debounce time.Duration

	portFilePath string
}

// New creates an Orchestrator rooted at rootDir, with cfg as its initial
// configuration.
func New(rootDir string, engine *compile.Engine, clastrack *track.Clastrack, cache *query.Cache, parser Parser, injector NameInjector, cfg config.Config) *Orchestrator {
	return &Orchestrator{
		RootDir:      rootDir,
		Engine:       engine,
		Clastrack:    clastrack,
		Cache:        cache,
		Parser:       parser,
		Injector:     injector,
		cfg:          cfg,
		matcher:      NewExcludeMatcher(cfg.Exclude),
		debounce:     250 * time.Millisecond,
		portFilePath: filepath.Join(os.TempDir(), portFileName),
	}
}

func (o *Orchestrator) config() config.Config {
	o.cfgMu.RLock()
	defer o.cfgMu.RUnlock()
	return o.cfg
}

// WritePortFile registers port in the well-known temp file so the
// external query server can discover it.
func (o *Orchestrator) WritePortFile(port string) error {
	if err := os.WriteFile(o.portFilePath, []byte(port), 0o644); err != nil {
		return galaerr.Newf(galaerr.KindServerPortWriteError, galaerr.ActionNotify,
			"writing port file %q: %v", o.portFilePath, err)
	}
	return nil
}

// RemovePortFile removes the port registration file, ignoring a missing
// file (already-clean shutdown).
func (o *Orchestrator) RemovePortFile() error {
	if err := os.Remove(o.portFilePath); err != nil && !os.IsNotExist(err) {
		return galaerr.Newf(galaerr.KindServerPortRemovalFailed, galaerr.ActionNotify,
			"removing port file %q: %v", o.portFilePath, err)
	}
	return nil
}

// Run starts the watcher and processes events until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return galaerr.Criticalf(galaerr.KindWatcherInitFailed, galaerr.ActionRestart,
			"initializing filesystem watcher: %v", err)
	}
	defer watcher.Close()

	if err := o.watchTree(watcher); err != nil {
		return err
	}

	pending := make(map[string]*time.Timer)
	var pendingMu sync.Mutex
	ready := make(chan string, 64)

	debounceEvent := func(path string) {
		pendingMu.Lock()
		defer pendingMu.Unlock()
		if t, ok := pending[path]; ok {
			t.Stop()
		}
		pending[path] = time.AfterFunc(o.debounce, func() {
			ready <- path
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if o.relevantEvent(ev) {
				debounceEvent(ev.Name)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.Engine.Bus.Warning(time.Now(), fmt.Sprintf("watcher error: %v", werr))
		case path := <-ready:
			o.processPath(ctx, path)
		}
	}
}

// BuildOnce walks rootDir for every .nyr source, compiles the central
// context first, then every layout, then every remaining module, and
// finally runs I1/E1 once more. Used by the one-shot "build" CLI
// command; the continuous "start" command uses Run instead.
func (o *Orchestrator) BuildOnce(ctx context.Context) error {
	var central, layouts, modules []string

	walkErr := filepath.WalkDir(o.RootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			rel, _ := filepath.Rel(o.RootDir, path)
			if rel != "." && o.matcher.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".nyr") {
			return nil
		}
		switch {
		case strings.HasSuffix(path, "central.nyr"):
			central = append(central, path)
		case strings.HasSuffix(path, "layout.nyr"):
			layouts = append(layouts, path)
		default:
			modules = append(modules, path)
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}

	for _, path := range central {
		o.handleModified(ctx, path)
	}
	for _, path := range layouts {
		o.handleModified(ctx, path)
	}
	for _, path := range modules {
		o.handleModified(ctx, path)
	}

	o.recompileDownstream(ctx)
	return nil
}

func (o *Orchestrator) relevantEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	return base == "galadriel.config.json" || strings.HasSuffix(ev.Name, ".nyr")
}

func (o *Orchestrator) watchTree(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(o.RootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(o.RootDir, path)
		if rel != "." && o.matcher.Match(rel) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func (o *Orchestrator) processPath(ctx context.Context, path string) {
	if filepath.Base(path) == "galadriel.config.json" {
		o.reloadConfig(path)
		return
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		o.handleRemoved(ctx, path)
		return
	}

	o.handleModified(ctx, path)
}

func (o *Orchestrator) reloadConfig(path string) {
	start := time.Now()
	cfg, err := config.LoadFile(path)
	if err != nil {
		o.Engine.Bus.GaladrielError(start, galaerr.Newf(
			galaerr.KindConfigFileParsingError, galaerr.ActionNotify, "reloading config: %v", err))
		return
	}

	o.cfgMu.Lock()
	o.cfg = cfg
	o.matcher.Replace(cfg.Exclude)
	o.cfgMu.Unlock()

	o.Engine.Bus.Success(start, time.Now(), "configuration reloaded")
}

// handleRemoved unbinds path's context, drops its tracking rows, and
// re-runs I1/E1 so the stylesheet no longer carries its utilities.
func (o *Orchestrator) handleRemoved(ctx context.Context, path string) {
	name, ok := o.Engine.Registry.NameForPath(path)
	if !ok {
		return
	}

	o.Engine.Registry.Unbind(path)
	o.Engine.Store.RemoveImports(name)
	o.Engine.Store.RemoveTypefaces(name)
	o.Engine.Store.RemoveAliases(name)
	o.Engine.Store.RemoveVariables(name)
	o.Engine.Store.RemoveThemes(name)
	o.Engine.Store.RemoveAnimations(name)
	o.Engine.Classinator.RemoveLayout(name)
	o.Engine.Classinator.RemoveModule(name)
	if name == registry.CentralContextName {
		o.Engine.Classinator.SetCentral(track.NewClassMap())
	}

	o.recompileDownstream(ctx)
}

// handleModified re-reads, (optionally) injects a name into, parses, and
// compiles path, then cascades the recompilation to every dependent
// context.
func (o *Orchestrator) handleModified(ctx context.Context, path string) {
	start := time.Now()
	rel, _ := filepath.Rel(o.RootDir, path)
	if o.matcher.Match(rel) {
		return
	}

	content, err := readFileResilient(path)
	if err != nil {
		o.Engine.Bus.GaladrielError(start, err.(*galaerr.Error))
		return
	}

	if o.config().AutoNaming && o.Injector != nil {
		injected, injErr := o.Injector.Inject(path, content)
		if injErr != nil {
			o.Engine.Bus.Warning(start, fmt.Sprintf("name injection failed for %q: %v", path, injErr))
		} else {
			content = injected
		}
	}

	parsed, parseErr := o.Parser.Parse(path, content)
	if parseErr != nil {
		o.Engine.Bus.NenyrError(start, parseErr.Error())
		return
	}

	result, compileErr := compile.Compile(o.Engine, path, parsed)
	if compileErr != nil {
		o.Engine.Bus.GaladrielError(start, compileErr.(*galaerr.Error))
		return
	}

	switch parsed.Kind {
	case ast.KindModule:
		if parsed.ParentLayout != "" {
			o.Engine.Registry.LinkModuleToLayout(parsed.ParentLayout, path)
		}
	case ast.KindLayout:
		for _, modulePath := range o.Engine.Registry.LookupModules(result.ContextName) {
			o.handleModified(ctx, modulePath)
		}
	case ast.KindCentral:
		for _, name := range o.Engine.Registry.ContextOrder() {
			if name == result.ContextName {
				continue
			}
			if dependentPath, ok := o.Engine.Registry.PathForName(name); ok {
				o.handleModified(ctx, dependentPath)
			}
		}
	}

	o.recompileDownstream(ctx)
	o.Engine.Bus.Success(start, time.Now(), fmt.Sprintf("compiled %q", result.ContextName))
}

// recompileDownstream runs I1 then E1 over the store's current state and
// refreshes the dev-query cache with the freshly emitted stylesheet.
func (o *Orchestrator) recompileDownstream(ctx context.Context) {
	flatten.Flatten(o.Engine.Classinator, o.Clastrack)

	cfg := o.config()
	fs := emit.NewFormatStyle(cfg.MinifiedStyles, cfg.ResetStyles)

	css, err := emit.Emit(ctx, o.Engine.Store, o.Engine.Registry.ContextOrder(), fs)
	if err != nil {
		o.Engine.Bus.Warning(time.Now(), fmt.Sprintf("emit failed: %v", err))
		return
	}
	o.Cache.Set(css)

	o.touchDependents(cfg)
}

// touchDependents walks the project tree for template files referencing
// Nenyr classes (or, under resetStyles, plain .css files carrying the
// reset marker) and bumps their mtime so downstream build tools notice
// the stylesheet changed underneath them.
func (o *Orchestrator) touchDependents(cfg config.Config) {
	now := time.Now()

	_ = filepath.WalkDir(o.RootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(o.RootDir, path)
		if o.matcher.Match(rel) || strings.HasSuffix(path, ".nyr") {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		content := string(data)

		isTemplate := markupRegex.MatchString(content)
		isResetCSS := cfg.ResetStyles && strings.HasSuffix(path, ".css") && strings.Contains(content, resetStylesMarker)
		if !isTemplate && !isResetCSS {
			return nil
		}

		if chErr := os.Chtimes(path, now, now); chErr == nil && o.Dependents != nil {
			o.Dependents.Touch(path)
		}
		return nil
	})
}
