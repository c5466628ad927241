package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/causalsim/causalsim/internal/model"
	"github.com/causalsim/causalsim/internal/store"
)

var _ store.Store = (*Store)(nil)

// ListGraphs returns every stored graph, smallest node count first.
func (s *Store) ListGraphs(ctx context.Context) ([]model.CausalGraph, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id FROM graphs g
		LEFT JOIN nodes n ON n.graph_id = g.id
		GROUP BY g.id
		ORDER BY COUNT(n.id), g.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan graph id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}

	graphs := make([]model.CausalGraph, 0, len(ids))
	for _, id := range ids {
		g, err := s.GetGraph(ctx, id)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, *g)
	}
	return graphs, nil
}

// GetGraph loads a full graph (nodes + edges) by id.
func (s *Store) GetGraph(ctx context.Context, graphID string) (*model.CausalGraph, error) {
	g := &model.CausalGraph{ID: graphID}

	err := s.db.QueryRowContext(ctx, `SELECT name FROM graphs WHERE id = ?`, graphID).Scan(&g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrGraphNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get graph: %w", err)
	}

	nodes, err := s.loadNodes(ctx, graphID)
	if err != nil {
		return nil, err
	}
	g.Nodes = nodes

	edges, err := s.loadEdges(ctx, graphID)
	if err != nil {
		return nil, err
	}
	g.Edges = edges

	return g, nil
}

// CreateGraph saves a full graph in one transaction with replace semantics:
// an existing graph with the same id is overwritten.
func (s *Store) CreateGraph(ctx context.Context, g *model.CausalGraph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create graph: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := replaceGraph(ctx, tx, g); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create graph: commit: %w", err)
	}
	return nil
}

// DeleteGraph removes a graph; nodes and edges cascade.
func (s *Store) DeleteGraph(ctx context.Context, graphID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM graphs WHERE id = ?`, graphID)
	if err != nil {
		return fmt.Errorf("delete graph: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete graph: %w", err)
	}
	if affected == 0 {
		return store.ErrGraphNotFound
	}
	return nil
}

// ResetGraph is unsupported: the SQLite store holds no seed definitions.
func (s *Store) ResetGraph(ctx context.Context, graphID string) (*model.CausalGraph, error) {
	return nil, store.ErrNotResettable
}

// ResetAll is a no-op for the SQLite store; it returns the current graphs.
func (s *Store) ResetAll(ctx context.Context) ([]model.CausalGraph, error) {
	return s.ListGraphs(ctx)
}

// AddNode appends a node to a graph.
func (s *Store) AddNode(ctx context.Context, graphID string, n model.Node) (*model.CausalGraph, error) {
	return s.mutate(ctx, graphID, func(g *model.CausalGraph) error {
		return store.AddNodeTo(g, n)
	})
}

// UpdateNode applies a partial node update.
func (s *Store) UpdateNode(ctx context.Context, graphID, nodeID string, upd store.NodeUpdate) (*model.CausalGraph, error) {
	return s.mutate(ctx, graphID, func(g *model.CausalGraph) error {
		return store.UpdateNodeIn(g, nodeID, upd)
	})
}

// DeleteNode removes a node and its edges.
func (s *Store) DeleteNode(ctx context.Context, graphID, nodeID string) (*model.CausalGraph, error) {
	return s.mutate(ctx, graphID, func(g *model.CausalGraph) error {
		return store.DeleteNodeFrom(g, nodeID)
	})
}

// AddEdge appends an edge.
func (s *Store) AddEdge(ctx context.Context, graphID string, e model.Edge) (*model.CausalGraph, error) {
	return s.mutate(ctx, graphID, func(g *model.CausalGraph) error {
		return store.AddEdgeTo(g, e)
	})
}

// UpdateEdge applies a partial edge update by position.
func (s *Store) UpdateEdge(ctx context.Context, graphID string, index int, upd store.EdgeUpdate) (*model.CausalGraph, error) {
	return s.mutate(ctx, graphID, func(g *model.CausalGraph) error {
		return store.UpdateEdgeIn(g, index, upd)
	})
}

// DeleteEdge removes an edge by position.
func (s *Store) DeleteEdge(ctx context.Context, graphID string, index int) (*model.CausalGraph, error) {
	return s.mutate(ctx, graphID, func(g *model.CausalGraph) error {
		return store.DeleteEdgeFrom(g, index)
	})
}

// mutate loads the graph, applies fn, and writes the whole graph back in a
// single transaction. Positions are renumbered on every write, which keeps
// index-addressed edges consistent.
func (s *Store) mutate(ctx context.Context, graphID string, fn func(*model.CausalGraph) error) (*model.CausalGraph, error) {
	g, err := s.GetGraph(ctx, graphID)
	if err != nil {
		return nil, err
	}
	if err := fn(g); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mutate graph: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := replaceGraph(ctx, tx, g); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("mutate graph: commit: %w", err)
	}
	return g, nil
}

// replaceGraph writes a full graph inside an open transaction, deleting any
// prior rows for the same id first.
func replaceGraph(ctx context.Context, tx *sql.Tx, g *model.CausalGraph) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM edges WHERE graph_id = ?`, g.ID); err != nil {
		return fmt.Errorf("delete edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE graph_id = ?`, g.ID); err != nil {
		return fmt.Errorf("delete nodes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO graphs (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, g.ID, g.Name); err != nil {
		return fmt.Errorf("upsert graph: %w", err)
	}

	for i, n := range g.Nodes {
		baseJSON, err := model.MarshalValue(n.BaseValue)
		if err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
		var possible any
		if n.PossibleValues != nil {
			pj, err := json.Marshal(n.PossibleValues)
			if err != nil {
				return fmt.Errorf("node %s: %w", n.ID, err)
			}
			possible = string(pj)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO nodes (graph_id, id, name, node_type, base_value, possible_values, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, g.ID, n.ID, n.Name, string(n.Type), string(baseJSON), possible, i); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}

	for i, e := range g.Edges {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO edges (graph_id, source_id, target_id, weight, position)
			VALUES (?, ?, ?, ?, ?)
		`, g.ID, e.SourceID, e.TargetID, e.Weight, i); err != nil {
			return fmt.Errorf("insert edge %d: %w", i, err)
		}
	}

	return nil
}

func (s *Store) loadNodes(ctx context.Context, graphID string) ([]model.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, node_type, base_value, possible_values
		FROM nodes WHERE graph_id = ? ORDER BY position
	`, graphID)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	defer rows.Close()

	nodes := []model.Node{}
	for rows.Next() {
		var (
			n        model.Node
			nodeType string
			baseJSON string
			possible sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.Name, &nodeType, &baseJSON, &possible); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		n.Type = model.NodeType(nodeType)
		n.BaseValue, err = model.UnmarshalValue([]byte(baseJSON))
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		if possible.Valid {
			if err := json.Unmarshal([]byte(possible.String), &n.PossibleValues); err != nil {
				return nil, fmt.Errorf("node %s: possible_values: %w", n.ID, err)
			}
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	return nodes, nil
}

func (s *Store) loadEdges(ctx context.Context, graphID string) ([]model.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_id, target_id, weight
		FROM edges WHERE graph_id = ? ORDER BY position
	`, graphID)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	defer rows.Close()

	edges := []model.Edge{}
	for rows.Next() {
		var e model.Edge
		if err := rows.Scan(&e.SourceID, &e.TargetID, &e.Weight); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	return edges, nil
}
