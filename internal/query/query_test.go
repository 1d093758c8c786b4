package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patrickgunnar/galadrielcss/internal/track"
)

func TestGetUpdatedCSS(t *testing.T) {
	cache := NewCache()
	api := New(cache, track.NewClastrack())

	assert.Equal(t, "", api.GetUpdatedCSS())
	cache.Set(".gFoo { color: red; }")
	assert.Equal(t, ".gFoo { color: red; }", api.GetUpdatedCSS())
}

func TestResolveClassTokensStripsEscapes(t *testing.T) {
	clastrack := track.NewClastrack()
	clastrack.Central.Set("myClass", `gUtil1\ gUtil2\`)

	api := New(NewCache(), clastrack)

	got := api.ResolveClassTokens("Central", "", "myClass")
	assert.Equal(t, "gUtil1 gUtil2", got)
}

func TestResolveClassTokensUnknown(t *testing.T) {
	api := New(NewCache(), track.NewClastrack())
	assert.Equal(t, "", api.ResolveClassTokens("Central", "", "missing"))
	assert.Equal(t, "", api.ResolveClassTokens("Layout", "unknownLayout", "missing"))
	assert.Equal(t, "", api.ResolveClassTokens("NotAScope", "", "missing"))
}
