package bindgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("api")
	assert.Len(t, g.nodes, 1)

	g.AddNode("api") // idempotent
	assert.Len(t, g.nodes, 1)

	g.AddNode("db")
	assert.Len(t, g.nodes, 2)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("db")
		g.AddNode("api")

		require.NoError(t, g.AddEdge("db", "api")) // api binds to db

		assert.Equal(t, []string{"db"}, sortedKeys(g.nodes["api"].deps))
		assert.Equal(t, []string{"api"}, sortedKeys(g.nodes["db"].dependents))
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("api")

		assert.ErrorContains(t, g.AddEdge("dne", "api"), "source node not found")
		assert.ErrorContains(t, g.AddEdge("api", "dne"), "destination node not found")
		assert.ErrorContains(t, g.AddEdge("api", "api"), "self-referential edge")
	})
}

func TestAddEdgeFanIn(t *testing.T) {
	g := New()
	for _, id := range []string{"api", "cache", "db"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("db", "api"))
	require.NoError(t, g.AddEdge("cache", "api"))

	assert.Equal(t, []string{"cache", "db"}, sortedKeys(g.nodes["api"].deps))
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		assert.NoError(t, New().DetectCycles())
	})

	t.Run("chain has no cycles", func(t *testing.T) {
		g := New()
		for _, id := range []string{"vpc", "db", "api"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("vpc", "db"))
		require.NoError(t, g.AddEdge("db", "api"))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("two node cycle is detected", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))
		assert.ErrorContains(t, g.DetectCycles(), "cycle detected")
	})

	t.Run("longer cycle is detected", func(t *testing.T) {
		g := New()
		for _, id := range []string{"a", "b", "c", "d"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("c", "a"))
		require.NoError(t, g.AddEdge("a", "d"))
		assert.ErrorContains(t, g.DetectCycles(), "cycle detected")
	})
}
