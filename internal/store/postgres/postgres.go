// Package postgres provides a PostgreSQL-backed graph store using pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements store.Store using PostgreSQL via pgx.
type Store struct {
	db *pgxpool.Pool
}

// New creates a Store backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS graphs (
    id   TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS nodes (
    graph_id        TEXT NOT NULL REFERENCES graphs(id) ON DELETE CASCADE,
    id              TEXT NOT NULL,
    name            TEXT NOT NULL,
    node_type       TEXT NOT NULL,
    base_value      TEXT NOT NULL,
    possible_values TEXT,
    position        INTEGER NOT NULL,
    PRIMARY KEY (graph_id, id)
);

CREATE TABLE IF NOT EXISTS edges (
    graph_id  TEXT NOT NULL REFERENCES graphs(id) ON DELETE CASCADE,
    source_id TEXT NOT NULL,
    target_id TEXT NOT NULL,
    weight    DOUBLE PRECISION NOT NULL,
    position  INTEGER NOT NULL,
    PRIMARY KEY (graph_id, position)
);

CREATE INDEX IF NOT EXISTS idx_nodes_graph_position ON nodes(graph_id, position);
`

// CreateSchema creates the graph tables if they do not exist. Idempotent.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// DropSchema removes the graph tables.
func (s *Store) DropSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS edges, nodes, graphs`); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}
