package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/cadence/internal/shared"
)

// BadgeRepository records which badges have been earned and when.
type BadgeRepository struct {
	db *sql.DB
}

// NewBadgeRepository creates a new BadgeRepository with the given database connection
func NewBadgeRepository(db *sql.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// Award records badgeID as earned on day. Reports false when it was already earned.
func (r *BadgeRepository) Award(badgeID string, day time.Time) (bool, error) {
	result, err := r.db.Exec(
		`INSERT OR IGNORE INTO user_badges (badge_id, earned_date) VALUES (?, ?)`,
		badgeID, shared.FormatDay(day),
	)
	if err != nil {
		return false, fmt.Errorf("failed to award badge: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

// Earned returns earned dates keyed by badge ID.
func (r *BadgeRepository) Earned() (map[string]time.Time, error) {
	rows, err := r.db.Query(`SELECT badge_id, earned_date FROM user_badges`)
	if err != nil {
		return nil, fmt.Errorf("failed to query badges: %w", err)
	}
	defer rows.Close()

	earned := make(map[string]time.Time)
	for rows.Next() {
		var id, date string
		if err := rows.Scan(&id, &date); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		day, err := parseStoredDay(date)
		if err != nil {
			return nil, err
		}
		earned[id] = day
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return earned, nil
}

// Revoke removes an earned badge.
func (r *BadgeRepository) Revoke(badgeID string) error {
	result, err := r.db.Exec(`DELETE FROM user_badges WHERE badge_id = ?`, badgeID)
	if err != nil {
		return fmt.Errorf("failed to revoke badge: %w", err)
	}
	return checkAffected(result, fmt.Errorf("badge not earned: %s", badgeID))
}
