// Package fixtures provides test data factories for the Guildhall API.
//
// The fixtures package contains factory functions for creating test data
// with sensible defaults and optional customization.
//
// # Factory Pattern
//
// Create a factory with a database connection:
//
//	f := fixtures.New(tdb.DB)
//
// # Creating Test Data
//
// Factory methods go through the repositories, so records carry the same
// integer keys and links the API produces:
//
//	user := f.CreateUser(t)
//	loc := f.CreateLocation(t)
//	quest := f.CreateQuest(t, user)
//	campaign := f.CreateCampaign(t, user)
//
// # Customization
//
// Use option functions for customization:
//
//	user := f.CreateUser(t, func(o *fixtures.UserOpts) { o.Email = "a@x.com" })
//
// # Cleanup
//
// Test data is cleaned up when the test database is closed.
package fixtures
