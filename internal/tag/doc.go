// Package tag owns the boundary to a physical or emulated NDEF token.
//
// Ownership boundary:
// - the Transport contract and its sentinel errors
// - file-backed and in-memory token drivers
// - Write: the guarded write path (writability, capacity, format fallback)
package tag
