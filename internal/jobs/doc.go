// Package jobs runs background work that is not tied to a request.
//
// Jobs follow one shape: a constructor taking an interval, Start and Stop
// for the lifetime of the server, and RunOnce for tests and manual runs.
// A failing pass is logged and retried on the next tick; it never stops the
// server.
package jobs
