// Package schema contains the data model shared between the mapping engine,
// presentation collaborators and document generators: dotted-segment Paths,
// tagged answer Values, the flat Path->Value answer Store, and the Question
// tree produced by derivation.
//
// The package is intentionally free of reflection and presentation logic.
// Collectors and renderers consume these types; the root wizard package
// produces and interprets them.
//
// # Paths
//
// A Path is an immutable, ordered list of segment names. Child paths are
// built by appending a segment, never by mutating a parent. Two paths are
// equal iff their segment sequences are equal. The dotted string form is the
// canonical key used by the Store, which is what keeps prefix filtering and
// serialization simple: nesting lives in the key, not in nested containers.
//
// # Values
//
// Value is a closed tagged union over the answer shapes a question can
// collect. The tag must match the question kind bound to the same path; the
// engine reports a mismatch as a typed error rather than coercing.
//
// # Store
//
// Store maps paths to values. The engine only ever reads from a Store or
// derives prefix-filtered sub-stores; mutation belongs to whoever drives
// collection.
package schema
