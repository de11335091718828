// Package ndef owns the NDEF record wire format written to proximity tokens.
//
// Ownership boundary:
// - record header flags and length encoding
// - message framing (MB/ME) encode and decode
// - well-known Text and URI payload helpers, MIME records
//
// The record type here is the transport boundary type: the codec above it
// never sees raw bytes.
package ndef
