// Package card owns the record model carried on a proximity token.
//
// Ownership boundary:
// - entity value types and their presence invariants
// - the closed Entity variant used by the record classifier
// - field validators shown to the operator before a write
// - canonical forms: the trimmed, line-folded values a token reads back
//
// Entities are values. Nothing in this package mutates a Contents in place;
// merges and edits return new values.
package card
