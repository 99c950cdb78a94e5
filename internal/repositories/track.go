package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
)

const trackColumns = `id, kind, title, artist, category, duration, audio_location`

// TrackRepository implements models.Repository[models.Track] for the local audio catalog.
//
// Track IDs come from the catalog feed and are used as primary keys.
// Deleted tracks are kept with a deleted_at timestamp and revived by [TrackRepository.Upsert].
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.Track] with the next sequence number
func (r *TrackRepository) Create(track models.Track) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO tracks (id, sequence, kind, title, artist, category, duration, audio_location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		track.ID,
		sequence,
		string(track.Kind),
		track.Title,
		track.Artist,
		track.Category,
		track.Duration,
		track.AudioLocation,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Upsert inserts track or overwrites the stored copy, clearing any soft delete.
//
// Reports whether a new row was created.
func (r *TrackRepository) Upsert(track models.Track) (bool, error) {
	if err := track.Validate(); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	var exists int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM tracks WHERE id = ?`, track.ID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up track: %w", err)
	}

	if exists == 0 {
		return true, r.Create(track)
	}

	query := `
		UPDATE tracks
		SET kind = ?, title = ?, artist = ?, category = ?, duration = ?, audio_location = ?, updated_at = ?, deleted_at = NULL
		WHERE id = ?
	`
	_, err = r.db.Exec(query,
		string(track.Kind), track.Title, track.Artist, track.Category, track.Duration, track.AudioLocation, time.Now(), track.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update track: %w", err)
	}
	return false, nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(id string) (models.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = ? AND deleted_at IS NULL`

	track, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Track{}, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}
	return track, err
}

// Update modifies an existing track in the database
func (r *TrackRepository) Update(track models.Track) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE tracks
		SET kind = ?, title = ?, artist = ?, category = ?, duration = ?, audio_location = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(track.Kind),
		track.Title,
		track.Artist,
		track.Category,
		track.Duration,
		track.AudioLocation,
		time.Now(),
		track.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, track.ID))
}

// Delete soft-deletes a track by ID
func (r *TrackRepository) Delete(id string) error {
	query := `
		UPDATE tracks
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id))
}

// List retrieves tracks in catalog order, excluding soft-deleted tracks.
//
// Supported criteria: "kind" and "category".
func (r *TrackRepository) List(criteria map[string]any) ([]models.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE deleted_at IS NULL`
	args := []any{}

	switch kind := criteria["kind"].(type) {
	case models.TrackKind:
		query += " AND kind = ?"
		args = append(args, string(kind))
	case string:
		if kind != "" {
			query += " AND kind = ?"
			args = append(args, kind)
		}
	}

	if category, ok := criteria["category"].(string); ok && category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		track, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

func (r *TrackRepository) scan(s scanner) (models.Track, error) {
	var (
		track models.Track
		kind  string
	)

	err := s.Scan(&track.ID, &kind, &track.Title, &track.Artist, &track.Category, &track.Duration, &track.AudioLocation)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Track{}, err
	}
	if err != nil {
		return models.Track{}, fmt.Errorf("failed to scan track: %w", err)
	}

	track.Kind = models.TrackKind(kind)
	return track, nil
}

var _ models.Repository[models.Track] = (*TrackRepository)(nil)
