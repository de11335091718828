// Package backend owns the REST boundary to the policy service.
//
// Ownership boundary:
// - typed request/response shapes for the insurance and user endpoints
// - the resty client and its retry/timeout policy
// - the redis-backed policy cache and an in-memory service for tests
package backend
