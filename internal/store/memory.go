package store

import (
	"context"
	"sort"
	"sync"

	"github.com/causalsim/causalsim/internal/model"
)

// Memory is an in-memory Store seeded with sample graphs.
//
// A single RWMutex guards the map; every read path clones before releasing
// the lock, so returned graphs are stable snapshots. Reset restores seeded
// graphs to their original definitions.
type Memory struct {
	mu     sync.RWMutex
	graphs map[string]*model.CausalGraph
	seeds  map[string]*model.CausalGraph
}

var _ Store = (*Memory)(nil)

// NewMemory creates an in-memory store preloaded with the given seed
// graphs. Seeds remain resettable; graphs created later do not.
func NewMemory(seeds ...model.CausalGraph) *Memory {
	m := &Memory{
		graphs: make(map[string]*model.CausalGraph, len(seeds)),
		seeds:  make(map[string]*model.CausalGraph, len(seeds)),
	}
	for i := range seeds {
		g := &seeds[i]
		m.graphs[g.ID] = g.Clone()
		m.seeds[g.ID] = g.Clone()
	}
	return m
}

// ListGraphs returns snapshots of every graph, smallest node count first.
func (m *Memory) ListGraphs(ctx context.Context) ([]model.CausalGraph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.CausalGraph, 0, len(m.graphs))
	for _, g := range m.graphs {
		out = append(out, *g.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Nodes) != len(out[j].Nodes) {
			return len(out[i].Nodes) < len(out[j].Nodes)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetGraph returns a snapshot of one graph.
func (m *Memory) GetGraph(ctx context.Context, graphID string) (*model.CausalGraph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.graphs[graphID]
	if !ok {
		return nil, ErrGraphNotFound
	}
	return g.Clone(), nil
}

// CreateGraph stores a new graph (or replaces one with the same id).
func (m *Memory) CreateGraph(ctx context.Context, g *model.CausalGraph) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.graphs[g.ID] = g.Clone()
	return nil
}

// DeleteGraph removes a graph.
func (m *Memory) DeleteGraph(ctx context.Context, graphID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.graphs[graphID]; !ok {
		return ErrGraphNotFound
	}
	delete(m.graphs, graphID)
	return nil
}

// ResetGraph restores one seeded graph to its original definition.
func (m *Memory) ResetGraph(ctx context.Context, graphID string) (*model.CausalGraph, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seed, ok := m.seeds[graphID]
	if !ok {
		return nil, ErrNotResettable
	}
	m.graphs[graphID] = seed.Clone()
	return seed.Clone(), nil
}

// ResetAll drops everything and restores the seeded graphs.
func (m *Memory) ResetAll(ctx context.Context) ([]model.CausalGraph, error) {
	m.mu.Lock()
	m.graphs = make(map[string]*model.CausalGraph, len(m.seeds))
	for id, seed := range m.seeds {
		m.graphs[id] = seed.Clone()
	}
	m.mu.Unlock()

	return m.ListGraphs(ctx)
}

// AddNode appends a node to a graph.
func (m *Memory) AddNode(ctx context.Context, graphID string, n model.Node) (*model.CausalGraph, error) {
	return m.mutate(graphID, func(g *model.CausalGraph) error {
		return AddNodeTo(g, n)
	})
}

// UpdateNode applies a partial node update.
func (m *Memory) UpdateNode(ctx context.Context, graphID, nodeID string, upd NodeUpdate) (*model.CausalGraph, error) {
	return m.mutate(graphID, func(g *model.CausalGraph) error {
		return UpdateNodeIn(g, nodeID, upd)
	})
}

// DeleteNode removes a node and its edges.
func (m *Memory) DeleteNode(ctx context.Context, graphID, nodeID string) (*model.CausalGraph, error) {
	return m.mutate(graphID, func(g *model.CausalGraph) error {
		return DeleteNodeFrom(g, nodeID)
	})
}

// AddEdge appends an edge.
func (m *Memory) AddEdge(ctx context.Context, graphID string, e model.Edge) (*model.CausalGraph, error) {
	return m.mutate(graphID, func(g *model.CausalGraph) error {
		return AddEdgeTo(g, e)
	})
}

// UpdateEdge applies a partial edge update by position.
func (m *Memory) UpdateEdge(ctx context.Context, graphID string, index int, upd EdgeUpdate) (*model.CausalGraph, error) {
	return m.mutate(graphID, func(g *model.CausalGraph) error {
		return UpdateEdgeIn(g, index, upd)
	})
}

// DeleteEdge removes an edge by position.
func (m *Memory) DeleteEdge(ctx context.Context, graphID string, index int) (*model.CausalGraph, error) {
	return m.mutate(graphID, func(g *model.CausalGraph) error {
		return DeleteEdgeFrom(g, index)
	})
}

// mutate clones the stored graph, applies fn, and swaps the clone in only
// on success. Earlier snapshots are never touched.
func (m *Memory) mutate(graphID string, fn func(*model.CausalGraph) error) (*model.CausalGraph, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.graphs[graphID]
	if !ok {
		return nil, ErrGraphNotFound
	}
	next := g.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	m.graphs[graphID] = next
	return next.Clone(), nil
}
