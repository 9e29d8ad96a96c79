// Package testdb provides test database utilities for the Guildhall API.
//
// The testdb package manages test database connections with automatic
// setup, migration, and cleanup.
//
// # Test Database Setup
//
// Create a test database for each test:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    defer tdb.Close()
//
//	    // Use tdb.DB for database operations
//	}
//
// # Migrations
//
// The embedded schema files are applied on setup, in the same order the
// guildctl migrate command uses.
//
// # Isolation
//
// Each test gets its own namespace, removed again by Close.
//
// # Availability
//
// Tests are skipped, not failed, when no SurrealDB instance answers at
// TEST_DB_HOST:TEST_DB_PORT.
package testdb
