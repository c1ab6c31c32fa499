//go:build integration

// Package testdb provides utilities for tests that need a real PostgreSQL
// database.
//
// Tests run inside a transaction that is rolled back when they finish, so
// they can run in parallel against one schema without cleanup:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := postgres.NewPostgresArtifactStore(tx, nil)
//	        ...
//	    })
//	}
//
// The connection string is read from CAREERFORGE_TEST_DB_URL, then
// DATABASE_URL. Tests are skipped when neither is set, and fail in CI.
package testdb
