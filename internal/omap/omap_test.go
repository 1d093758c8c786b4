package omap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	m := New[string]()
	m.Set("b", "2")
	m.Set("a", "1")

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestKeysPreservesInsertionOrder(t *testing.T) {
	m := New[int]()
	m.Set("z", 1)
	m.Set("a", 2)
	m.Set("m", 3)

	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())
}

func TestSetOverwritingKeyDoesNotDuplicateOrder(t *testing.T) {
	m := New[int]()
	m.Set("x", 1)
	m.Set("x", 2)

	assert.Equal(t, []string{"x"}, m.Keys())
	v, _ := m.Get("x")
	assert.Equal(t, 2, v)
}

func TestLenTracksEntryCount(t *testing.T) {
	m := New[int]()
	assert.Equal(t, 0, m.Len())
	m.Set("a", 1)
	m.Set("b", 2)
	assert.Equal(t, 2, m.Len())
}

func TestEachVisitsInInsertionOrder(t *testing.T) {
	m := New[int]()
	m.Set("second", 2)
	m.Set("first", 1)

	var visited []string
	m.Each(func(key string, value int) {
		visited = append(visited, key)
	})
	assert.Equal(t, []string{"second", "first"}, visited)
}
