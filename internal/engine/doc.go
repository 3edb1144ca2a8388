// Package engine implements the starweeb domain operations.
//
// The engine is the only writer of domain state. Every operation re-reads
// the collections it needs, computes the next collection values and writes
// them back through the repositories. Nothing is cached between calls.
//
// ARCHITECTURE:
//
// Single-Writer Mutations:
// Mutating operations hold the engine mutex for their whole
// read-modify-write cycle. Within one process this serializes
// every mutation, so two crush sends for the same pair can never both
// observe "no match yet". Across processes sharing one store the last
// write wins.
//
// Explicit Session:
// Operations that act on behalf of a user take a Session value. The engine
// never reads the stored "current user" implicitly; the CLI resolves it
// once and passes it in.
//
// Time and Identity:
// Timestamps come from the injected Clock (Unix milliseconds) and record ids
// from the injected IDGenerator, so tests and scenarios are deterministic.
//
// Errors:
// Rule violations return *Error with a stable Code. Absence of an optional
// record is a normal (zero, false) result, not an error.
package engine
