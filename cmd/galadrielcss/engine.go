package main

import (
	"github.com/patrickgunnar/galadrielcss/internal/alerts"
	"github.com/patrickgunnar/galadrielcss/internal/compile"
	"github.com/patrickgunnar/galadrielcss/internal/query"
	"github.com/patrickgunnar/galadrielcss/internal/registry"
	"github.com/patrickgunnar/galadrielcss/internal/store"
	"github.com/patrickgunnar/galadrielcss/internal/track"
)

// buildEngine wires one compile.Engine plus the Clastrack and
// dev-query cache that sit alongside it, the shared state both the
// start and build commands construct their orchestrator around.
func buildEngine() (*compile.Engine, *track.Clastrack, *query.Cache) {
	engine := &compile.Engine{
		Store:       store.New(),
		Registry:    registry.New(),
		Classinator: track.NewClassinator(),
		Bus:         alerts.NewBus(),
	}
	return engine, track.NewClastrack(), query.NewCache()
}
