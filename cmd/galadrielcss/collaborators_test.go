package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassthroughInjectorReturnsContentUnchanged(t *testing.T) {
	out, err := passthroughInjector{}.Inject("widget.nyr", "Module(Widget) { }")
	require.NoError(t, err)
	assert.Equal(t, "Module(Widget) { }", out)
}

func TestUnwiredParserErrorsWithPath(t *testing.T) {
	_, err := unwiredParser{}.Parse("widget.nyr", "Module(Widget) { }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widget.nyr")
}
