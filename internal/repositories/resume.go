package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ResumeRepository persists the player's per-track resume positions between sessions.
type ResumeRepository struct {
	db *sql.DB
}

// NewResumeRepository creates a new ResumeRepository with the given database connection
func NewResumeRepository(db *sql.DB) *ResumeRepository {
	return &ResumeRepository{db: db}
}

// Load returns every stored position keyed by track ID.
func (r *ResumeRepository) Load() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT track_id, position FROM track_progress`)
	if err != nil {
		return nil, fmt.Errorf("failed to query track progress: %w", err)
	}
	defer rows.Close()

	positions := make(map[string]int)
	for rows.Next() {
		var (
			id  string
			pos int
		)
		if err := rows.Scan(&id, &pos); err != nil {
			return nil, fmt.Errorf("failed to scan track progress: %w", err)
		}
		positions[id] = pos
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return positions, nil
}

// Position returns the stored position for trackID, or 0 when none is stored.
func (r *ResumeRepository) Position(trackID string) (int, error) {
	var pos int
	err := r.db.QueryRow(`SELECT position FROM track_progress WHERE track_id = ?`, trackID).Scan(&pos)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get track progress: %w", err)
	}
	return pos, nil
}

// Save upserts every position in one transaction. Entries are never removed.
func (r *ResumeRepository) Save(positions map[string]int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO track_progress (track_id, position, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET position = excluded.position, updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for id, pos := range positions {
		if _, err := stmt.Exec(id, max(pos, 0), now); err != nil {
			return fmt.Errorf("failed to save position for %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit track progress: %w", err)
	}
	return nil
}
