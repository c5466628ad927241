// Package store persists causal graphs and serves immutable snapshots of
// them to the engine and the HTTP layer.
//
// Three backends implement the Store interface: the in-memory store in this
// package (seeded with sample graphs, resettable), the SQLite store in
// store/sqlite, and the PostgreSQL store in store/postgres. Backends map
// their native not-found/conflict conditions onto the sentinel errors
// declared here so callers never match on backend-specific error text.
package store
