// Package contentgraph provides a reusable library for typed in-memory
// content nodes and GraphQL schema composition.
//
// It exposes per-content-type Stores that hold Node records with lifecycle
// observers and a pluggable hook chain, and (under the graphschema
// subpackage) a type registry that composes declarative type descriptors,
// raw SDL fragments, and externally pre-built schemas into one immutable
// queryable schema. Implementations of the node collection (memory) and the
// input normalizer are provided under subpackages.
//
// Field Strategy
//
// First-class fields represent authoritative attributes on Node (ID, RowRef,
// TypeName). Document content lives in the Fields map; the normalizer is the
// single place where raw caller input is shaped into that map, and the store
// trusts its output.
package contentgraph
