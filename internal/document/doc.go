// Package document models the script document: context slots, custom
// variables, the node registry with its per-shot version ledgers, and the
// shot navigation registry.
//
// The document serializes to JSON only at Load/Save boundaries; between
// them every operation is plain in-memory state. Saving takes an exclusive
// file lock because the document has exactly one mutator at a time.
package document
