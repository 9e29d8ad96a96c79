// Package seed holds the sample data set loaded by the operator CLI.
//
// Entries reference each other by natural key (user email, location name,
// campaign title, reference name) so the file stays readable; the seeder
// resolves those keys to record ids.
package seed
