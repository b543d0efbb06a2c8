// Package apitest provides an in-memory fake of the moneygrowth backend for
// tests.
//
// Server implements the whole HTTP surface under /api with the backend's
// observable behaviour: HS256 bearer tokens, 400 on a duplicate email, 401
// on bad credentials or a missing token, 404 for empty "latest" reads,
// per-lesson points, and the dashboard arithmetic. AI content is canned.
// Every request is recorded so tests can assert on headers and bodies.
package apitest
