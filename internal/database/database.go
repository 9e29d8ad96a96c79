// Package database provides the storage abstraction for Guildhall.
//
// The Database interface hides the SurrealDB client behind three query
// methods:
//   - Query: all statement results, each wrapped as {status, result}
//   - QueryOne: the first record of the first statement, or ErrNotFound
//   - Execute: mutations whose results are not needed
//
// Multi-statement atomic work is composed with Tx (see transaction.go) and
// sent as one BEGIN/COMMIT block.
//
// Use errors.Is() to check error kinds:
//
//	if errors.Is(err, database.ErrDuplicate) {
//	    // unique index violated
//	}
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique index violation (e.g., duplicate email).
	ErrDuplicate = errors.New("duplicate record")

	// ErrConflict indicates a transaction was aborted by a concurrent write
	// and may be retried.
	ErrConflict = errors.New("transaction conflict")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")
)

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns one wrapped result per statement
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database connection settings
type Config struct {
	Scheme    string
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}

// Endpoint returns the websocket RPC endpoint for the configured server.
func (c Config) Endpoint() string {
	scheme := c.Scheme
	if scheme == "" {
		scheme = "ws"
	}
	return scheme + "://" + c.Host + ":" + c.Port
}
