// Package kv provides the local key/value backing for the catalog store.
//
// # Overview
//
// The catalog persists four independent JSON documents (profiles, profile,
// products, theme). Repository is the minimal contract the store needs:
// point reads and writes of raw values plus an atomic multi-key write used
// after an import.
//
// Implementations
//
//   - SQLiteRepository: a kv table in a local sqlite database (see OpenSQLite)
//   - FileRepository: a single JSON file holding every key
//   - MemoryRepository: process memory, for tests and throwaway sessions
//
// All implementations return (nil, nil) from Get when the key is absent and
// are safe for concurrent use.
package kv
