// Package graphcheck compares value graphs by structure and topology.
//
// Fingerprint hashes a canonical walk in which every reference (container
// or opaque handle) is numbered on first visit and later visits emit only
// that number. Two graphs therefore share a fingerprint iff they have the
// same shape, the same atomic contents, and the same aliasing and cycles.
// It is the check behind "the clone is structurally equal to its source".
//
// SharedContainers and Resolve support the complementary checks: which
// references two graphs have in common, and what sits at a given path.
package graphcheck
