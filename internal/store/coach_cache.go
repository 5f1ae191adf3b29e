package store

import (
	"database/sql"
	"errors"
	"time"
)

// GetCoachCache returns the stored coach response, or nil if none
// has been cached yet.
func (db *DB) GetCoachCache() (*CoachCache, error) {
	row := db.QueryRow(`
		SELECT prompt_hash, response, created_at
		FROM coach_cache
		WHERE id = 1
	`)

	var c CoachCache
	var createdAt int64
	err := row.Scan(&c.PromptHash, &c.Response, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.CreatedAt = time.Unix(createdAt, 0)
	return &c, nil
}

// SaveCoachCache replaces the stored coach response
func (db *DB) SaveCoachCache(c *CoachCache) error {
	_, err := db.Exec(`
		INSERT INTO coach_cache (id, prompt_hash, response, created_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			prompt_hash = excluded.prompt_hash,
			response = excluded.response,
			created_at = excluded.created_at
	`, c.PromptHash, c.Response, c.CreatedAt.Unix())
	return err
}
