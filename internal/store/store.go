package store

import (
	"context"
	"errors"

	"github.com/causalsim/causalsim/internal/model"
)

var (
	ErrGraphNotFound   = errors.New("store: graph not found")
	ErrNodeNotFound    = errors.New("store: node not found")
	ErrEdgeNotFound    = errors.New("store: edge not found")
	ErrDuplicateNode   = errors.New("store: node id already exists")
	ErrDuplicateEdge   = errors.New("store: edge already exists")
	ErrUnknownEndpoint = errors.New("store: edge endpoint references an unknown node")
	ErrNotResettable   = errors.New("store: graph has no seed definition to reset to")
)

// NodeUpdate carries the fields of a node to change. Nil fields are left
// untouched.
type NodeUpdate struct {
	Name           *string         `json:"name,omitempty"`
	Type           *model.NodeType `json:"node_type,omitempty"`
	BaseValue      model.Value     `json:"base_value,omitempty"`
	PossibleValues []string        `json:"possible_values,omitempty"`
}

// EdgeUpdate carries the fields of an edge to change. Nil fields are left
// untouched.
type EdgeUpdate struct {
	SourceID *string  `json:"source_id,omitempty"`
	TargetID *string  `json:"target_id,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`
}

// Store defines the contract for persisting and retrieving causal graphs.
//
// Snapshot discipline: every read returns a deep copy of the stored graph,
// so a simulation running against a snapshot can never observe concurrent
// CRUD. Edges are addressed by their position in the graph's edge list.
type Store interface {
	// Graphs
	ListGraphs(ctx context.Context) ([]model.CausalGraph, error)
	GetGraph(ctx context.Context, graphID string) (*model.CausalGraph, error)
	CreateGraph(ctx context.Context, g *model.CausalGraph) error
	DeleteGraph(ctx context.Context, graphID string) error

	// Reset restores graphs to their seed definitions, where seeds exist.
	ResetGraph(ctx context.Context, graphID string) (*model.CausalGraph, error)
	ResetAll(ctx context.Context) ([]model.CausalGraph, error)

	// Nodes. Mutations return the updated graph snapshot.
	AddNode(ctx context.Context, graphID string, n model.Node) (*model.CausalGraph, error)
	UpdateNode(ctx context.Context, graphID, nodeID string, upd NodeUpdate) (*model.CausalGraph, error)
	// DeleteNode also drops every edge touching the node.
	DeleteNode(ctx context.Context, graphID, nodeID string) (*model.CausalGraph, error)

	// Edges, addressed by position.
	AddEdge(ctx context.Context, graphID string, e model.Edge) (*model.CausalGraph, error)
	UpdateEdge(ctx context.Context, graphID string, index int, upd EdgeUpdate) (*model.CausalGraph, error)
	DeleteEdge(ctx context.Context, graphID string, index int) (*model.CausalGraph, error)
}
