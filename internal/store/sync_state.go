package store

import (
	"database/sql"
	"errors"
	"time"
)

// Keys used in the sync_state table
const (
	SyncKeyLastActivitySync = "last_activity_sync"
	SyncKeyLastWellnessSync = "last_wellness_sync"
	SyncKeyOldestSyncedDay  = "oldest_synced_day"
)

// GetSyncState retrieves a sync state value by key
// Returns empty string if key doesn't exist
func (db *DB) GetSyncState(key string) (string, error) {
	var value string
	err := db.QueryRow(`
		SELECT value FROM sync_state WHERE key = ?
	`, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSyncState sets a sync state value
func (db *DB) SetSyncState(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO sync_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// GetSyncTime reads a sync state key as an RFC3339 timestamp.
// A missing key yields the zero time.
func (db *DB) GetSyncTime(key string) (time.Time, error) {
	raw, err := db.GetSyncState(key)
	if err != nil || raw == "" {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, raw)
}

// SetSyncTime stores a timestamp under a sync state key
func (db *DB) SetSyncTime(key string, t time.Time) error {
	return db.SetSyncState(key, t.Format(time.RFC3339))
}
