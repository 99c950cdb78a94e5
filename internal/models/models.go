package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T any] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

var ErrInvalidModel = errors.New("invalid model")

// TrackKind distinguishes songs from podcast clips.
type TrackKind string

const (
	KindSong    TrackKind = "song"
	KindPodcast TrackKind = "podcast"
)

// ParseTrackKind normalizes s into a [TrackKind]. "music" and "lesson" from older feeds map to song and podcast.
func ParseTrackKind(s string) (TrackKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "song", "music":
		return KindSong, nil
	case "podcast", "lesson":
		return KindPodcast, nil
	default:
		return "", fmt.Errorf("%w: unknown track kind %q", ErrInvalidModel, s)
	}
}

// Track is a playable audio item: a song from the daily playlist or a podcast clip.
//
// A Track is immutable once handed to the player.
type Track struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	Artist        string    `json:"artist" yaml:"artist"`
	Kind          TrackKind `json:"type" yaml:"type"`
	Category      string    `json:"category,omitempty" yaml:"category,omitempty"`
	Duration      int       `json:"duration" yaml:"duration"` // seconds
	AudioLocation string    `json:"audio_location,omitempty" yaml:"audio_location,omitempty"`
}

// Validate checks required fields.
func (t Track) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: track id is required", ErrInvalidModel)
	}
	if t.Title == "" {
		return fmt.Errorf("%w: track %s has no title", ErrInvalidModel, t.ID)
	}
	if t.Kind != KindSong && t.Kind != KindPodcast {
		return fmt.Errorf("%w: track %s has kind %q", ErrInvalidModel, t.ID, t.Kind)
	}
	if t.Duration < 0 {
		return fmt.Errorf("%w: track %s has negative duration", ErrInvalidModel, t.ID)
	}
	return nil
}

// ActivityRecord is one calendar day of learning activity.
type ActivityRecord struct {
	Date             time.Time `json:"date"`
	MinutesLearned   int       `json:"minutes_learned"`
	CoursesCompleted int       `json:"courses_completed"`
}

// Validate checks that counters are non-negative and a date is set.
func (a ActivityRecord) Validate() error {
	if a.Date.IsZero() {
		return fmt.Errorf("%w: activity date is required", ErrInvalidModel)
	}
	if a.MinutesLearned < 0 || a.CoursesCompleted < 0 {
		return fmt.Errorf("%w: activity counters must not be negative", ErrInvalidModel)
	}
	return nil
}

// Goal is a learning goal definition from the catalog.
type Goal struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Category      string   `json:"category" yaml:"category"`
	EstimatedDays int      `json:"estimated_days" yaml:"estimated_days"`
	Difficulty    string   `json:"difficulty" yaml:"difficulty"`
	Tags          []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Validate checks required fields.
func (g Goal) Validate() error {
	if g.ID == "" || g.Title == "" {
		return fmt.Errorf("%w: goal id and title are required", ErrInvalidModel)
	}
	if g.EstimatedDays <= 0 {
		return fmt.Errorf("%w: goal %s must have positive estimated days", ErrInvalidModel, g.ID)
	}
	return nil
}

// EnrollmentStatus is the lifecycle state of an enrollment.
type EnrollmentStatus string

const (
	StatusActive    EnrollmentStatus = "active"
	StatusPaused    EnrollmentStatus = "paused"
	StatusCompleted EnrollmentStatus = "completed"
)

// Enrollment tracks progress through one goal.
type Enrollment struct {
	ID          string           `json:"id"`
	GoalID      string           `json:"goal_id"`
	CurrentDay  int              `json:"current_day"`
	Status      EnrollmentStatus `json:"status"`
	StartedOn   time.Time        `json:"started_on"`
	CompletedOn *time.Time       `json:"completed_on,omitempty"`
}

// BadgeTier ranks badges.
type BadgeTier string

const (
	TierBronze   BadgeTier = "bronze"
	TierSilver   BadgeTier = "silver"
	TierGold     BadgeTier = "gold"
	TierPlatinum BadgeTier = "platinum"
)

// Badge is a catalog badge joined with its earned status.
type Badge struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Tier       BadgeTier  `json:"tier"`
	Criteria   string     `json:"criteria"`
	Earned     bool       `json:"earned"`
	EarnedDate *time.Time `json:"earned_date,omitempty"`
}

// DayMinutes is one bar of the weekly chart.
type DayMinutes struct {
	Weekday string    `json:"day"`
	Date    time.Time `json:"date"`
	Minutes int       `json:"minutes"`
}

// DerivedProgressView is the display-ready summary recomputed on every aggregation.
type DerivedProgressView struct {
	TodayMinutes            int          `json:"today_minutes"`
	CurrentStreak           int          `json:"current_streak"`
	WeeklyMinutes           []DayMinutes `json:"weekly_minutes"`
	MonthlyCoursesCompleted int          `json:"monthly_courses_completed"`
	CompletionPercentage    int          `json:"completion_percentage"`
	TotalPoints             int          `json:"total_points"`
}
