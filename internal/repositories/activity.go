package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
)

// ActivityRepository stores one [models.ActivityRecord] per calendar day.
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new ActivityRepository with the given database connection
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Upsert writes record, replacing any existing row for the same day.
func (r *ActivityRepository) Upsert(record models.ActivityRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO learning_activity (id, activity_date, minutes_learned, courses_completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(activity_date) DO UPDATE SET
			minutes_learned = excluded.minutes_learned,
			courses_completed = excluded.courses_completed,
			updated_at = excluded.updated_at
	`
	now := time.Now()
	_, err := r.db.Exec(query, shared.GenerateID(), shared.FormatDay(record.Date), record.MinutesLearned, record.CoursesCompleted, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert activity: %w", err)
	}
	return nil
}

// Add increments the counters for day and returns the resulting record.
func (r *ActivityRepository) Add(day time.Time, minutes, courses int) (models.ActivityRecord, error) {
	if minutes < 0 || courses < 0 {
		return models.ActivityRecord{}, fmt.Errorf("%w: activity counters must not be negative", shared.ErrInvalidArgument)
	}

	query := `
		INSERT INTO learning_activity (id, activity_date, minutes_learned, courses_completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(activity_date) DO UPDATE SET
			minutes_learned = minutes_learned + excluded.minutes_learned,
			courses_completed = courses_completed + excluded.courses_completed,
			updated_at = excluded.updated_at
	`
	now := time.Now()
	if _, err := r.db.Exec(query, shared.GenerateID(), shared.FormatDay(day), minutes, courses, now, now); err != nil {
		return models.ActivityRecord{}, fmt.Errorf("failed to add activity: %w", err)
	}
	return r.Get(day)
}

// Get returns the record for day. A day without a row yields a zero record for that day.
func (r *ActivityRepository) Get(day time.Time) (models.ActivityRecord, error) {
	query := `SELECT activity_date, minutes_learned, courses_completed FROM learning_activity WHERE activity_date = ?`

	record, err := scanActivity(r.db.QueryRow(query, shared.FormatDay(day)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ActivityRecord{Date: shared.Day(day)}, nil
	}
	return record, err
}

// Range returns records with from <= date <= to, oldest first.
func (r *ActivityRepository) Range(from, to time.Time) ([]models.ActivityRecord, error) {
	query := `
		SELECT activity_date, minutes_learned, courses_completed
		FROM learning_activity
		WHERE activity_date BETWEEN ? AND ?
		ORDER BY activity_date ASC
	`
	return r.query(query, shared.FormatDay(from), shared.FormatDay(to))
}

// All returns every record, oldest first.
func (r *ActivityRepository) All() ([]models.ActivityRecord, error) {
	return r.query(`SELECT activity_date, minutes_learned, courses_completed FROM learning_activity ORDER BY activity_date ASC`)
}

// Delete removes the record for day.
func (r *ActivityRepository) Delete(day time.Time) error {
	result, err := r.db.Exec(`DELETE FROM learning_activity WHERE activity_date = ?`, shared.FormatDay(day))
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return checkAffected(result, fmt.Errorf("no activity on %s", shared.FormatDay(day)))
}

func (r *ActivityRepository) query(query string, args ...any) ([]models.ActivityRecord, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	var records []models.ActivityRecord
	for rows.Next() {
		record, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

func scanActivity(s scanner) (models.ActivityRecord, error) {
	var (
		record models.ActivityRecord
		date   string
	)
	err := s.Scan(&date, &record.MinutesLearned, &record.CoursesCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return record, err
	}
	if err != nil {
		return record, fmt.Errorf("failed to scan activity: %w", err)
	}
	record.Date, err = parseStoredDay(date)
	return record, err
}
