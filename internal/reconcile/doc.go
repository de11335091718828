// Package reconcile diffs the policies held on a card against the backend
// and plans the writes that bring either side up to date.
//
// Ownership boundary:
// - Compare: keyed diff on policy number
// - BuildMergePlan: the card contents after a backend-to-card sync
// - BuildUploads: the create requests for a card-to-backend sync
//
// Everything here is pure. Callers own freshness of the inputs.
package reconcile
