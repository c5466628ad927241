package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causalsim/causalsim/internal/model"
	"github.com/causalsim/causalsim/internal/store"
	"github.com/causalsim/causalsim/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "graphs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphs.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.CreateGraph(context.Background(), testutil.MockGraph()))
	require.NoError(t, s1.Close())

	// Reopening must keep the data and reapply schema without error.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	g, err := s2.GetGraph(context.Background(), "mock")
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 4)
}

func TestStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := testutil.Graph("trip",
		[]model.Node{
			testutil.NumNode("price", 99.5),
			testutil.CatNode("segment", "mainstream", "niche", "mainstream", "premium"),
		},
		[]model.Edge{testutil.E("price", "segment", -0.25)},
	)
	require.NoError(t, s.CreateGraph(ctx, in))

	out, err := s.GetGraph(ctx, "trip")
	require.NoError(t, err)

	assert.Equal(t, in.ID, out.ID)
	require.Len(t, out.Nodes, 2)
	assert.Equal(t, model.NewNumber(99.5), out.Nodes[0].BaseValue)
	assert.Equal(t, model.NewLabel("mainstream"), out.Nodes[1].BaseValue)
	assert.Equal(t, []string{"niche", "mainstream", "premium"}, out.Nodes[1].PossibleValues)
	assert.Nil(t, out.Nodes[0].PossibleValues)
	require.Len(t, out.Edges, 1)
	assert.Equal(t, -0.25, out.Edges[0].Weight)
}

func TestStore_GetGraphNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetGraph(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrGraphNotFound)
}

func TestStore_CreateReplacesExisting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateGraph(ctx, testutil.MockGraph()))

	smaller := testutil.Graph("mock", []model.Node{testutil.NumNode("solo", 1)}, nil)
	require.NoError(t, s.CreateGraph(ctx, smaller))

	g, err := s.GetGraph(ctx, "mock")
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Edges)
}

func TestStore_DeleteGraphCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateGraph(ctx, testutil.MockGraph()))
	require.NoError(t, s.DeleteGraph(ctx, "mock"))

	_, err := s.GetGraph(ctx, "mock")
	assert.ErrorIs(t, err, store.ErrGraphNotFound)

	assert.ErrorIs(t, s.DeleteGraph(ctx, "mock"), store.ErrGraphNotFound)
}

func TestStore_ListGraphsOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateGraph(ctx, testutil.MockGraph()))
	require.NoError(t, s.CreateGraph(ctx, testutil.Chain(0.5)))

	graphs, err := s.ListGraphs(ctx)
	require.NoError(t, err)
	require.Len(t, graphs, 2)
	assert.Equal(t, "chain", graphs[0].ID)
	assert.Equal(t, "mock", graphs[1].ID)
}

func TestStore_NodeMutations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateGraph(ctx, testutil.MockGraph()))

	g, err := s.AddNode(ctx, "mock", testutil.NumNode("5", 50))
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 5)

	_, err = s.AddNode(ctx, "mock", testutil.NumNode("5", 0))
	assert.ErrorIs(t, err, store.ErrDuplicateNode)

	name := "renamed"
	g, err = s.UpdateNode(ctx, "mock", "5", store.NodeUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", g.NodeByID("5").Name)

	g, err = s.DeleteNode(ctx, "mock", "1")
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 4)
	// The two edges sourced at "1" go with it.
	assert.Len(t, g.Edges, 1)

	// Mutations are durable, not just reflected in the returned snapshot.
	reloaded, err := s.GetGraph(ctx, "mock")
	require.NoError(t, err)
	assert.Nil(t, reloaded.NodeByID("1"))
	assert.Len(t, reloaded.Edges, 1)
}

func TestStore_EdgeMutations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateGraph(ctx, testutil.MockGraph()))

	g, err := s.AddEdge(ctx, "mock", testutil.E("3", "4", 1.5))
	require.NoError(t, err)
	require.Len(t, g.Edges, 4)

	w := 2.5
	g, err = s.UpdateEdge(ctx, "mock", 3, store.EdgeUpdate{Weight: &w})
	require.NoError(t, err)
	assert.Equal(t, 2.5, g.Edges[3].Weight)

	g, err = s.DeleteEdge(ctx, "mock", 0)
	require.NoError(t, err)
	require.Len(t, g.Edges, 3)

	// Positions renumber on write; index addressing stays stable.
	reloaded, err := s.GetGraph(ctx, "mock")
	require.NoError(t, err)
	require.Len(t, reloaded.Edges, 3)
	assert.Equal(t, g.Edges, reloaded.Edges)
}

func TestStore_ResetSemantics(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateGraph(ctx, testutil.MockGraph()))

	_, err := s.ResetGraph(ctx, "mock")
	assert.ErrorIs(t, err, store.ErrNotResettable)

	graphs, err := s.ResetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, graphs, 1)
}
