// Package testdb provides test database utilities for the job site API.
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
//	}
//
// # Migrations
//
// The embedded migrations are applied on setup through database.Migrate.
//
// # Isolation
//
// Each test gets its own namespace, removed again by Close.
//
// # Environment
//
// TEST_DB_HOST, TEST_DB_PORT, TEST_DB_USER and TEST_DB_PASSWORD locate the
// instance. Tests skip when it is unreachable unless TEST_DB_REQUIRED is set.
package testdb
