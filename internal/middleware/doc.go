// Package middleware provides HTTP middleware for the Guildhall API.
//
// # Available Middleware
//
//   - RequestID, Logger, Recovery, CORS, Compress: applied to every request
//   - RateLimit: token bucket per user or client IP
//   - Auth: bearer token validation, applied per route
//   - Idempotency: replays POST/PUT/PATCH responses for a repeated
//     Idempotency-Key, applied after Auth so keys are scoped per user
//
// # Composition
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	)
//
// # Context Values
//
//   - GetUser(ctx): the authenticated *model.User
//   - GetUserID(ctx): its id, or 0
//   - GetRequestID(ctx): the request identifier
package middleware
