package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
)

const goalColumns = `id, title, category, estimated_days, difficulty, tags`

// GoalRepository implements models.Repository[models.Goal].
type GoalRepository struct {
	db *sql.DB
}

// NewGoalRepository creates a new GoalRepository with the given database connection
func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create inserts a new goal definition
func (r *GoalRepository) Create(goal models.Goal) error {
	if err := goal.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "goals")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO goals (id, sequence, title, category, estimated_days, difficulty, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err = r.db.Exec(query, goal.ID, sequence, goal.Title, goal.Category, goal.EstimatedDays, goal.Difficulty, joinTags(goal.Tags), now, now)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

// Get retrieves a goal by ID
func (r *GoalRepository) Get(id string) (models.Goal, error) {
	row := r.db.QueryRow(`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)

	goal, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Goal{}, fmt.Errorf("%w: %s", shared.ErrGoalNotFound, id)
	}
	return goal, err
}

// Update modifies an existing goal
func (r *GoalRepository) Update(goal models.Goal) error {
	if err := goal.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE goals
		SET title = ?, category = ?, estimated_days = ?, difficulty = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query, goal.Title, goal.Category, goal.EstimatedDays, goal.Difficulty, joinTags(goal.Tags), time.Now(), goal.ID)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrGoalNotFound, goal.ID))
}

// Delete removes a goal. Goals with enrollments cannot be deleted.
func (r *GoalRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrGoalNotFound, id))
}

// List retrieves goals in catalog order.
//
// Supported criteria: "category" and "difficulty".
func (r *GoalRepository) List(criteria map[string]any) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE 1 = 1`
	args := []any{}

	if category, ok := criteria["category"].(string); ok && category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	if difficulty, ok := criteria["difficulty"].(string); ok && difficulty != "" {
		query += " AND difficulty = ?"
		args = append(args, difficulty)
	}
	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		goal, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return goals, nil
}

func (r *GoalRepository) scan(s scanner) (models.Goal, error) {
	var (
		goal models.Goal
		tags string
	)
	err := s.Scan(&goal.ID, &goal.Title, &goal.Category, &goal.EstimatedDays, &goal.Difficulty, &tags)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Goal{}, err
	}
	if err != nil {
		return models.Goal{}, fmt.Errorf("failed to scan goal: %w", err)
	}
	goal.Tags = splitTags(tags)
	return goal, nil
}

var _ models.Repository[models.Goal] = (*GoalRepository)(nil)
