package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causalsim/causalsim/internal/model"
	"github.com/causalsim/causalsim/internal/testutil"
)

func TestDetectCycles_DAG(t *testing.T) {
	assert.Empty(t, DetectCycles(testutil.MockGraph()))
}

func TestDetectCycles_TwoNodeCycle(t *testing.T) {
	warnings := DetectCycles(testutil.Cycle(1, 1))

	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"a", "b", "a"}, warnings[0].Path)
	assert.Equal(t, "cycle detected: a -> b -> a", warnings[0].Message)
}

func TestDetectCycles_SelfLoop(t *testing.T) {
	g := testutil.Graph("g",
		[]model.Node{testutil.NumNode("a", 1)},
		[]model.Edge{testutil.E("a", "a", 1)},
	)

	warnings := DetectCycles(g)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"a", "a"}, warnings[0].Path)
}

func TestDetectCycles_LongerCycle(t *testing.T) {
	g := testutil.Graph("g",
		[]model.Node{
			testutil.NumNode("a", 0),
			testutil.NumNode("b", 0),
			testutil.NumNode("c", 0),
			testutil.NumNode("d", 0),
		},
		[]model.Edge{
			testutil.E("a", "b", 1),
			testutil.E("b", "c", 1),
			testutil.E("c", "d", 1),
			testutil.E("d", "b", 1), // cycle b→c→d→b, rooted below a
		},
	)

	warnings := DetectCycles(g)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"b", "c", "d", "b"}, warnings[0].Path)
}

func TestDetectCycles_FeederIntoCycle(t *testing.T) {
	// x feeds into the a↔b cycle but is ordered after it, so its traversal
	// starts fresh and runs into the gray residue the aborted first
	// traversal left behind. x is not on any cycle and must not be
	// reported as one.
	g := testutil.Graph("g",
		[]model.Node{
			testutil.NumNode("a", 0),
			testutil.NumNode("b", 0),
			testutil.NumNode("x", 0),
		},
		[]model.Edge{
			testutil.E("a", "b", 1),
			testutil.E("b", "a", 1),
			testutil.E("x", "a", 1),
		},
	)

	warnings := DetectCycles(g)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"a", "b", "a"}, warnings[0].Path)
	for _, w := range warnings {
		assert.NotContains(t, w.Path, "x")
	}
}

func TestDetectCycles_FeederChainIntoCycle(t *testing.T) {
	// Same shape with a two-node feeder chain: neither feeder may appear in
	// a reported path, however deep the chain.
	g := testutil.Graph("g",
		[]model.Node{
			testutil.NumNode("a", 0),
			testutil.NumNode("b", 0),
			testutil.NumNode("x", 0),
			testutil.NumNode("y", 0),
		},
		[]model.Edge{
			testutil.E("a", "b", 1),
			testutil.E("b", "a", 1),
			testutil.E("x", "y", 1),
			testutil.E("y", "a", 1),
		},
	)

	warnings := DetectCycles(g)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"a", "b", "a"}, warnings[0].Path)
}

func TestDetectCycles_SkipsDanglingEdges(t *testing.T) {
	g := testutil.Graph("g",
		[]model.Node{testutil.NumNode("a", 0)},
		[]model.Edge{testutil.E("a", "ghost", 1), testutil.E("ghost", "a", 1)},
	)

	// Dangling endpoints are someone else's error; the traversal must not
	// treat them as graph nodes or panic.
	assert.Empty(t, DetectCycles(g))
}

func TestDetectCycles_Deterministic(t *testing.T) {
	g := testutil.Cycle(1, 1)
	first := DetectCycles(g)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DetectCycles(g))
	}
}

func TestDetectCycles_TwoComponents(t *testing.T) {
	g := testutil.Graph("g",
		[]model.Node{
			testutil.NumNode("a", 0),
			testutil.NumNode("b", 0),
			testutil.NumNode("x", 0),
			testutil.NumNode("y", 0),
		},
		[]model.Edge{
			testutil.E("a", "b", 1),
			testutil.E("b", "a", 1),
			testutil.E("x", "y", 1),
			testutil.E("y", "x", 1),
		},
	)

	// One cycle per component: finding the first does not stop the scan of
	// other components.
	warnings := DetectCycles(g)
	assert.Len(t, warnings, 2)
}
