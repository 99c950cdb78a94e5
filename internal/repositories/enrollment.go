package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
)

const enrollmentColumns = `id, goal_id, current_day, status, started_on, completed_on`

// EnrollmentRepository implements models.Repository[*models.Enrollment].
//
// At most one enrollment is active at a time; [EnrollmentRepository.Create] refuses a second.
type EnrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new EnrollmentRepository with the given database connection
func NewEnrollmentRepository(db *sql.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts e with a generated ID.
func (r *EnrollmentRepository) Create(e *models.Enrollment) error {
	if e.GoalID == "" {
		return fmt.Errorf("%w: enrollment needs a goal", models.ErrInvalidModel)
	}
	if e.CurrentDay < 1 {
		e.CurrentDay = 1
	}
	if e.Status == "" {
		e.Status = models.StatusActive
	}

	if e.Status == models.StatusActive {
		if active, err := r.Active(); err == nil {
			return fmt.Errorf("%w: %s", shared.ErrActiveGoalExists, active.GoalID)
		} else if !errors.Is(err, shared.ErrNoActiveGoal) {
			return err
		}
	}

	e.ID = shared.GenerateID()
	query := `
		INSERT INTO enrollments (id, goal_id, current_day, status, started_on, completed_on, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err := r.db.Exec(query, e.ID, e.GoalID, e.CurrentDay, string(e.Status), shared.FormatDay(e.StartedOn), completedOn(e), now, now)
	if err != nil {
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return nil
}

// Get retrieves an enrollment by ID
func (r *EnrollmentRepository) Get(id string) (*models.Enrollment, error) {
	e, err := r.scan(r.db.QueryRow(`SELECT `+enrollmentColumns+` FROM enrollments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("enrollment not found: %s", id)
	}
	return e, err
}

// Active returns the active enrollment, or [shared.ErrNoActiveGoal].
func (r *EnrollmentRepository) Active() (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE status = ? ORDER BY created_at DESC LIMIT 1`

	e, err := r.scan(r.db.QueryRow(query, string(models.StatusActive)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNoActiveGoal
	}
	return e, err
}

// Update writes day, status, and completion date.
func (r *EnrollmentRepository) Update(e *models.Enrollment) error {
	query := `
		UPDATE enrollments
		SET current_day = ?, status = ?, completed_on = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query, e.CurrentDay, string(e.Status), completedOn(e), time.Now(), e.ID)
	if err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	return checkAffected(result, fmt.Errorf("enrollment not found: %s", e.ID))
}

// Delete removes an enrollment
func (r *EnrollmentRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM enrollments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return checkAffected(result, fmt.Errorf("enrollment not found: %s", id))
}

// List retrieves enrollments oldest first. Supported criteria: "status" and "goal_id".
func (r *EnrollmentRepository) List(criteria map[string]any) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE 1 = 1`
	args := []any{}

	switch status := criteria["status"].(type) {
	case models.EnrollmentStatus:
		query += " AND status = ?"
		args = append(args, string(status))
	case string:
		if status != "" {
			query += " AND status = ?"
			args = append(args, status)
		}
	}
	if goalID, ok := criteria["goal_id"].(string); ok && goalID != "" {
		query += " AND goal_id = ?"
		args = append(args, goalID)
	}
	query += " ORDER BY started_on ASC, created_at ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var out []*models.Enrollment
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

// CountCompleted returns the number of completed enrollments.
func (r *EnrollmentRepository) CountCompleted() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM enrollments WHERE status = ?`, string(models.StatusCompleted)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed enrollments: %w", err)
	}
	return n, nil
}

func (r *EnrollmentRepository) scan(s scanner) (*models.Enrollment, error) {
	var (
		e         models.Enrollment
		status    string
		started   string
		completed sql.NullString
	)

	err := s.Scan(&e.ID, &e.GoalID, &e.CurrentDay, &status, &started, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan enrollment: %w", err)
	}

	e.Status = models.EnrollmentStatus(status)
	if e.StartedOn, err = parseStoredDay(started); err != nil {
		return nil, err
	}
	if completed.Valid && completed.String != "" {
		day, err := parseStoredDay(completed.String)
		if err != nil {
			return nil, err
		}
		e.CompletedOn = &day
	}
	return &e, nil
}

func completedOn(e *models.Enrollment) any {
	if e.CompletedOn == nil {
		return nil
	}
	return shared.FormatDay(*e.CompletedOn)
}

var _ models.Repository[*models.Enrollment] = (*EnrollmentRepository)(nil)
