package tasks

import (
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/progress"
	"github.com/desertthunder/cadence/internal/shared"
)

// ActivityStore persists daily activity.
type ActivityStore interface {
	All() ([]models.ActivityRecord, error)
	Add(day time.Time, minutes, courses int) (models.ActivityRecord, error)
	Upsert(record models.ActivityRecord) error
}

// EnrollmentStore persists goal enrollments.
type EnrollmentStore interface {
	Create(e *models.Enrollment) error
	Active() (*models.Enrollment, error)
	Update(e *models.Enrollment) error
	List(criteria map[string]any) ([]*models.Enrollment, error)
}

// BadgeStore persists earned badges.
type BadgeStore interface {
	Award(badgeID string, day time.Time) (bool, error)
	Earned() (map[string]time.Time, error)
}

// GoalReader looks up goal definitions.
type GoalReader interface {
	Get(id string) (models.Goal, error)
}

// Targets are the daily and monthly goals shown next to today's progress.
type Targets struct {
	DailyMinutes   int
	MonthlyCourses int
}

// Snapshot is everything the dashboard, API, and reports render for one day.
type Snapshot struct {
	Today          time.Time                  `json:"today"`
	View           models.DerivedProgressView `json:"progress"`
	Goal           *models.Goal               `json:"goal"`
	Enrollment     *models.Enrollment         `json:"enrollment"`
	GoalsCompleted int                        `json:"goals_completed"`
	Badges         []models.Badge             `json:"badges"`
	BadgesEarned   int                        `json:"badges_earned"`
	Targets        progress.GoalProgress      `json:"targets"`
	Timeline       []progress.TimelineDay     `json:"timeline,omitempty"`
}

// Tracker records learning activity and goal progress, and derives progress views from storage.
type Tracker struct {
	activity    ActivityStore
	enrollments EnrollmentStore
	goals       GoalReader
	badges      BadgeStore
	clock       shared.Clock
	targets     Targets
}

// TrackerOpts holds the stores and settings for a [Tracker].
type TrackerOpts struct {
	Activity    ActivityStore
	Enrollments EnrollmentStore
	Goals       GoalReader
	Badges      BadgeStore
	Clock       shared.Clock // defaults to [shared.SystemClock]
	Targets     Targets
}

// NewTracker creates a new Tracker.
func NewTracker(opts TrackerOpts) *Tracker {
	if opts.Clock == nil {
		opts.Clock = shared.SystemClock{}
	}
	return &Tracker{
		activity:    opts.Activity,
		enrollments: opts.Enrollments,
		goals:       opts.Goals,
		badges:      opts.Badges,
		clock:       opts.Clock,
		targets:     opts.Targets,
	}
}

// Today returns the tracker's current calendar day.
func (t *Tracker) Today() time.Time {
	return shared.Today(t.clock)
}

// activeGoal returns the active enrollment and its goal, or nils when none is active.
func (t *Tracker) activeGoal() (*models.Enrollment, *models.Goal, error) {
	e, err := t.enrollments.Active()
	if errors.Is(err, shared.ErrNoActiveGoal) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	g, err := t.goals.Get(e.GoalID)
	if err != nil {
		return nil, nil, err
	}
	return e, &g, nil
}

// Snapshot derives the full progress view for today.
func (t *Tracker) Snapshot() (*Snapshot, error) {
	today := t.Today()

	records, err := t.activity.All()
	if err != nil {
		return nil, err
	}
	enrollment, goal, err := t.activeGoal()
	if err != nil {
		return nil, err
	}
	completed, err := t.enrollments.List(map[string]any{"status": models.StatusCompleted})
	if err != nil {
		return nil, err
	}
	earned, err := t.badges.Earned()
	if err != nil {
		return nil, err
	}

	in := progress.Input{
		Records:        records,
		Today:          today,
		GoalsCompleted: len(completed),
		BadgesEarned:   len(earned),
	}
	if enrollment != nil {
		in.CurrentDay = enrollment.CurrentDay
		in.EstimatedDays = goal.EstimatedDays
	}
	view := progress.Derive(in)

	snap := &Snapshot{
		Today:          today,
		View:           view,
		Goal:           goal,
		Enrollment:     enrollment,
		GoalsCompleted: len(completed),
		Badges:         progress.JoinBadges(earned),
		BadgesEarned:   len(earned),
		Targets:        progress.NewGoalProgress(view, t.targets.DailyMinutes, t.targets.MonthlyCourses),
	}
	if enrollment != nil {
		snap.Timeline = progress.Timeline(enrollment.CurrentDay, goal.EstimatedDays)
	}
	return snap, nil
}

// Weekly returns the Monday-anchored week containing day.
func (t *Tracker) Weekly(day time.Time) ([]models.DayMinutes, error) {
	records, err := t.activity.All()
	if err != nil {
		return nil, err
	}
	return progress.WeeklyMinutes(records, day), nil
}

// LogActivity adds minutes and courses to day, then awards any badges now earned.
func (t *Tracker) LogActivity(day time.Time, minutes, courses int) (models.ActivityRecord, []models.Badge, error) {
	record, err := t.activity.Add(day, minutes, courses)
	if err != nil {
		return record, nil, err
	}
	awarded, err := t.AwardBadges(nil)
	return record, awarded, err
}

// SetActivity replaces the record for record.Date.
func (t *Tracker) SetActivity(record models.ActivityRecord) ([]models.Badge, error) {
	record.Date = shared.Day(record.Date)
	if err := t.activity.Upsert(record); err != nil {
		return nil, err
	}
	return t.AwardBadges(nil)
}

// Enroll starts goalID today at day 1.
func (t *Tracker) Enroll(goalID string) (*models.Enrollment, error) {
	if _, err := t.goals.Get(goalID); err != nil {
		return nil, err
	}
	e := &models.Enrollment{GoalID: goalID, CurrentDay: 1, Status: models.StatusActive, StartedOn: t.Today()}
	if err := t.enrollments.Create(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Advance moves the active goal forward by days, stopping at its last day.
func (t *Tracker) Advance(days int) (*models.Enrollment, []models.Badge, error) {
	if days <= 0 {
		return nil, nil, fmt.Errorf("%w: days must be positive", shared.ErrInvalidArgument)
	}

	e, goal, err := t.activeGoal()
	if err != nil {
		return nil, nil, err
	}
	if e == nil {
		return nil, nil, shared.ErrNoActiveGoal
	}

	e.CurrentDay = min(e.CurrentDay+days, goal.EstimatedDays)
	if err := t.enrollments.Update(e); err != nil {
		return nil, nil, err
	}
	awarded, err := t.AwardBadges(nil)
	return e, awarded, err
}

// Complete marks the active goal completed today.
func (t *Tracker) Complete() (*models.Enrollment, []models.Badge, error) {
	e, goal, err := t.activeGoal()
	if err != nil {
		return nil, nil, err
	}
	if e == nil {
		return nil, nil, shared.ErrNoActiveGoal
	}

	today := t.Today()
	e.Status = models.StatusCompleted
	e.CurrentDay = max(e.CurrentDay, min(progress.DaysBetween(e.StartedOn, today)+1, goal.EstimatedDays))
	e.CompletedOn = &today
	if err := t.enrollments.Update(e); err != nil {
		return nil, nil, err
	}
	awarded, err := t.AwardBadges(nil)
	return e, awarded, err
}

// BadgeStats collects the inputs badge rules are evaluated against.
func (t *Tracker) BadgeStats() (progress.BadgeStats, error) {
	records, err := t.activity.All()
	if err != nil {
		return progress.BadgeStats{}, err
	}

	stats := progress.BadgeStats{Streak: progress.CurrentStreak(records, t.Today())}

	if e, _, err := t.activeGoal(); err != nil {
		return stats, err
	} else if e != nil {
		stats.CurrentDay = e.CurrentDay
	}

	completed, err := t.enrollments.List(map[string]any{"status": models.StatusCompleted})
	if err != nil {
		return stats, err
	}
	for _, e := range completed {
		if e.CompletedOn == nil {
			continue
		}
		g, err := t.goals.Get(e.GoalID)
		if err != nil {
			return stats, err
		}
		stats.CompletedGoals = append(stats.CompletedGoals, progress.CompletedGoal{
			GoalID:        e.GoalID,
			EstimatedDays: g.EstimatedDays,
			DaysTaken:     progress.DaysBetween(e.StartedOn, *e.CompletedOn) + 1,
			Engagement:    progress.Engagement(records, e.StartedOn, *e.CompletedOn),
		})
	}
	return stats, nil
}

// AwardBadges stores every newly earned badge with today's date and returns them.
func (t *Tracker) AwardBadges(updates chan<- ProgressUpdate) ([]models.Badge, error) {
	stats, err := t.BadgeStats()
	if err != nil {
		return nil, err
	}

	ids := progress.EvaluateBadges(stats)
	today := t.Today()

	var awarded []models.Badge
	for _, id := range ids {
		isNew, err := t.badges.Award(id, today)
		if err != nil {
			return awarded, err
		}
		if !isNew {
			continue
		}
		for _, b := range progress.JoinBadges(map[string]time.Time{id: today}) {
			if b.ID == id {
				awarded = append(awarded, b)
			}
		}
	}

	for i, b := range awarded {
		sendProgress(updates, badgeAwardedUpdate(i+1, len(awarded), b))
	}
	return awarded, nil
}
