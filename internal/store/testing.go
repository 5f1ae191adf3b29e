package store

import "testing"

// NewTestDB opens a migrated in-memory database for tests
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenPath(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}
