// Package store provides the persistent key-value medium for starweeb state.
//
// Every collection lives under one fixed key as a serialized JSON array. The
// store itself is deliberately dumb: it maps string keys to raw string values
// and knows nothing about the records inside them.
//
// # Backends
//
//   - Memory: process-local map, used by tests and the scenario harness
//   - SQLite: default durable backend (single kv table, WAL mode)
//   - badgerstore: embedded LSM store, persistent or in-memory
//   - redisstore: networked backend for sharing one dataset between hosts
//
// # Atomic batches
//
// Backends that can write several keys in one transaction implement Batcher.
// Snapshot import uses it so a restore lands all-or-nothing.
//
// # Key set
//
// The key set is fixed. Callers never invent keys at runtime; see SnapshotKeys.
package store
