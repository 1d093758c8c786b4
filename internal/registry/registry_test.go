package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindAndLookup(t *testing.T) {
	r := New()
	require.NoError(t, r.Bind("app.central.nyr", CentralContextName))

	name, ok := r.NameForPath("app.central.nyr")
	require.True(t, ok)
	assert.Equal(t, CentralContextName, name)

	path, ok := r.PathForName(CentralContextName)
	require.True(t, ok)
	assert.Equal(t, "app.central.nyr", path)
}

func TestBindConflictingNameFromDifferentPathFails(t *testing.T) {
	r := New()
	require.NoError(t, r.Bind("a.layout.nyr", "myLayout"))

	err := r.Bind("b.layout.nyr", "myLayout")
	require.Error(t, err)
}

func TestBindSamePathRenamingReleasesOldName(t *testing.T) {
	r := New()
	require.NoError(t, r.Bind("widget.nyr", "oldName"))
	require.NoError(t, r.Bind("widget.nyr", "newName"))

	_, ok := r.PathForName("oldName")
	assert.False(t, ok)

	name, ok := r.NameForPath("widget.nyr")
	require.True(t, ok)
	assert.Equal(t, "newName", name)
}

func TestUnbindRemovesRowAndGatekeeperMembership(t *testing.T) {
	r := New()
	require.NoError(t, r.Bind("widget.nyr", "myModule"))
	r.LinkModuleToLayout("myLayout", "widget.nyr")

	r.Unbind("widget.nyr")

	_, ok := r.NameForPath("widget.nyr")
	assert.False(t, ok)
	assert.Empty(t, r.LookupModules("myLayout"))
}

func TestLinkModuleToLayoutMovesModuleBetweenLayouts(t *testing.T) {
	r := New()
	r.LinkModuleToLayout("layoutA", "widget.nyr")
	r.LinkModuleToLayout("layoutB", "widget.nyr")

	assert.Empty(t, r.LookupModules("layoutA"))
	assert.Equal(t, []string{"widget.nyr"}, r.LookupModules("layoutB"))
}

func TestContextOrderReflectsFirstBindOrder(t *testing.T) {
	r := New()
	require.NoError(t, r.Bind("c.nyr", CentralContextName))
	require.NoError(t, r.Bind("l.nyr", "myLayout"))
	require.NoError(t, r.Bind("m.nyr", "myModule"))

	assert.Equal(t, []string{CentralContextName, "myLayout", "myModule"}, r.ContextOrder())
}

func TestContextOrderExcludesUnboundContexts(t *testing.T) {
	r := New()
	require.NoError(t, r.Bind("c.nyr", CentralContextName))
	require.NoError(t, r.Bind("l.nyr", "myLayout"))
	r.Unbind("l.nyr")

	assert.Equal(t, []string{CentralContextName}, r.ContextOrder())
}

func TestAllContextNamesIncludesEveryBoundName(t *testing.T) {
	r := New()
	require.NoError(t, r.Bind("c.nyr", CentralContextName))
	require.NoError(t, r.Bind("l.nyr", "myLayout"))

	assert.ElementsMatch(t, []string{CentralContextName, "myLayout"}, r.AllContextNames())
}

func TestAllLayoutNamesReflectsGatekeeperKeys(t *testing.T) {
	r := New()
	r.LinkModuleToLayout("myLayout", "widget.nyr")

	assert.Equal(t, []string{"myLayout"}, r.AllLayoutNames())
}
