// Package codec translates between the card record model and NDEF records.
//
// Ownership boundary:
// - encoding entities into an ordered, capacity-bounded record sequence
// - classifying and parsing arbitrary record sequences back into entities
//
// Encode fails only with ErrEmpty or a *CapacityError. Decode never fails:
// anything it cannot place is kept as card.Unclassified.
package codec
