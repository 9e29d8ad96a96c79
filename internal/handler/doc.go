// Package handler provides HTTP request handlers for the Guildhall API.
//
// Each handler struct wraps the narrow slice of a service it needs, declared
// as an interface next to the handler, so tests can substitute hand-written
// mocks.
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: single resource as {"data": ...}
//   - WriteCollection: one page as {"data": [...], "pagination": {total, skip, limit}}
//   - WriteError: RFC 9457 Problem Details error response
//   - WriteNoContent: 204 for deletes and unfollows
//
// Service errors are translated in one place, MapServiceError.
//
// # Authentication
//
// NewRouter wraps protected routes with the auth middleware, which puts the
// resolved user in the request context. Handlers read it with
// middleware.GetUser and never re-derive it.
package handler
