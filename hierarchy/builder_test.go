package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitiveBroaderOrder(t *testing.T) {
	b := NewBuilder(nil)
	b.AddEdge("B", "A")
	b.AddEdge("C", "B")

	assert.Equal(t, []string{"B", "A"}, b.TransitiveBroader("C"),
		"ancestors ordered nearest to farthest, excluding the start")
	assert.Equal(t, []string{"A"}, b.TransitiveBroader("B"))
	assert.Empty(t, b.TransitiveBroader("A"))
}

func TestTopLevelConcepts(t *testing.T) {
	b := NewBuilder(nil)
	b.AddEdge("B", "A")
	b.AddEdge("C", "B")
	b.AddEdge("E", "D")

	assert.Equal(t, []string{"A", "D"}, b.TopLevelConcepts(),
		"top-level iff no recorded broader link, even with children")
}

func TestNarrowerIsInverseOfBroader(t *testing.T) {
	b := NewBuilder(nil)
	b.AddEdge("C", "A")
	b.AddEdge("B", "A")

	assert.Equal(t, []string{"B", "C"}, b.Narrower("A"), "sorted ascending")

	parent, ok := b.Broader("B")
	assert.True(t, ok)
	assert.Equal(t, "A", parent)

	_, ok = b.Broader("A")
	assert.False(t, ok)
}

func TestDuplicateParentFirstWins(t *testing.T) {
	b := NewBuilder(nil)
	b.AddEdge("C", "A")
	b.AddEdge("C", "B")

	parent, _ := b.Broader("C")
	assert.Equal(t, "A", parent)
	assert.Empty(t, b.Narrower("B"), "ignored parent gains no narrower entry")
	assert.Equal(t, 1, b.DuplicateParents())
	assert.Equal(t, 1, b.EdgeCount())
}

func TestRepeatedIdenticalEdgeIsNoop(t *testing.T) {
	b := NewBuilder(nil)
	b.AddEdge("B", "A")
	b.AddEdge("B", "A")

	assert.Equal(t, 1, b.EdgeCount())
	assert.Equal(t, 0, b.DuplicateParents())
}

func TestCycleSafety(t *testing.T) {
	b := NewBuilder(nil)
	// A <- B <- C <- A: a full cycle.
	b.AddEdge("B", "A")
	b.AddEdge("C", "B")
	b.AddEdge("A", "C")

	chain := b.TransitiveBroader("A")
	assert.Equal(t, []string{"C", "B"}, chain, "truncated at the first repeat")

	seen := make(map[string]int)
	for _, id := range chain {
		seen[id]++
		assert.LessOrEqual(t, seen[id], 1, "each node appears at most once")
	}
	assert.Equal(t, 1, b.CycleWarnings())

	assert.Empty(t, b.TopLevelConcepts(), "a full cycle has no top-level concept")
}

func TestPlaceholderNodes(t *testing.T) {
	b := NewBuilder(nil)
	// Neither id has been seen by the registry; the builder tolerates both.
	b.AddEdge("unknown-child", "unknown-parent")

	assert.Equal(t, []string{"unknown-parent"}, b.TopLevelConcepts())
	assert.Equal(t, []string{"unknown-parent"}, b.TransitiveBroader("unknown-child"))
	assert.Empty(t, b.TransitiveBroader("never-seen"))
}
