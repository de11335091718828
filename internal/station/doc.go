// Package station owns the read, compare, sync and write cycle for one card
// reader.
//
// Ownership boundary:
// - the latest card view and its read sequence
// - the freshness rule: a merge is computed only against a view read after
//   the last write, so a successful write clears the view
// - read logging and metrics for every card operation
package station
