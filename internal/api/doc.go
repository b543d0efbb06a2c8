// Package api is the gateway client for the moneygrowth backend.
//
// Every backend operation has one method on Client and one entry in
// Catalogue. All paths resolve under <origin>/api. Protected operations copy
// the session's Authorization header at request-build time; public ones
// never attach it. The client reads the session but never changes it:
// storing a token after Login or clearing it after a 401 is the caller's
// decision.
//
// Failures are returned exactly once as *Error, decoded at this boundary.
// Callers classify them with IsNotFound, IsUnauthorized and IsTransport, and
// pick user-facing text with Message. There are no automatic retries.
//
// Calls are synchronous. Go wraps any call in a Pending result when the
// caller wants several in flight at once.
package api
