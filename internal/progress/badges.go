package progress

import (
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
)

// BadgeDefinition is a catalog badge and the rule that awards it.
type BadgeDefinition struct {
	ID       string
	Name     string
	Tier     models.BadgeTier
	Criteria string
	earned   func(BadgeStats) bool
}

// CompletedGoal summarizes one finished enrollment for badge rules.
type CompletedGoal struct {
	GoalID        string
	EstimatedDays int
	DaysTaken     int
	Engagement    float64 // active days / days taken, 0..1
}

// BadgeStats is the progress snapshot badge rules are evaluated against.
type BadgeStats struct {
	CurrentDay     int
	Streak         int
	CompletedGoals []CompletedGoal
}

// Badges is the built-in badge catalog, in display order.
var Badges = []BadgeDefinition{
	{
		ID: "B-001", Name: "First Step", Tier: models.TierBronze, Criteria: "Complete Day 1",
		earned: func(s BadgeStats) bool { return s.CurrentDay > 1 || len(s.CompletedGoals) > 0 },
	},
	{
		ID: "B-002", Name: "Week Warrior", Tier: models.TierSilver, Criteria: "7-day streak",
		earned: func(s BadgeStats) bool { return s.Streak >= 7 },
	},
	{
		ID: "B-003", Name: "Consistency King", Tier: models.TierGold, Criteria: "21-day streak",
		earned: func(s BadgeStats) bool { return s.Streak >= 21 },
	},
	{
		ID: "B-004", Name: "Platinum Achiever", Tier: models.TierPlatinum, Criteria: "Complete goal with 95%+ engagement",
		earned: func(s BadgeStats) bool {
			for _, g := range s.CompletedGoals {
				if g.Engagement >= 0.95 {
					return true
				}
			}
			return false
		},
	},
	{
		ID: "B-005", Name: "Speed Learner", Tier: models.TierGold, Criteria: "Complete 30-day goal in 25 days",
		earned: func(s BadgeStats) bool {
			for _, g := range s.CompletedGoals {
				if g.EstimatedDays >= 30 && g.DaysTaken > 0 && g.DaysTaken <= 25 {
					return true
				}
			}
			return false
		},
	},
	{
		ID: "B-006", Name: "Multi-Goal Master", Tier: models.TierPlatinum, Criteria: "Complete 3 goals",
		earned: func(s BadgeStats) bool { return len(s.CompletedGoals) >= 3 },
	},
}

// EvaluateBadges returns the IDs of every catalog badge whose rule holds for stats.
func EvaluateBadges(stats BadgeStats) []string {
	var ids []string
	for _, b := range Badges {
		if b.earned(stats) {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// JoinBadges merges the catalog with earned dates keyed by badge ID.
func JoinBadges(earned map[string]time.Time) []models.Badge {
	badges := make([]models.Badge, 0, len(Badges))
	for _, def := range Badges {
		b := models.Badge{ID: def.ID, Name: def.Name, Tier: def.Tier, Criteria: def.Criteria}
		if date, ok := earned[def.ID]; ok {
			b.Earned = true
			b.EarnedDate = &date
		}
		badges = append(badges, b)
	}
	return badges
}

// Engagement returns the share of days in [from, to] with any minutes learned.
func Engagement(records []models.ActivityRecord, from, to time.Time) float64 {
	start, end := shared.Day(from), shared.Day(to)
	if end.Before(start) {
		return 0
	}

	days := DaysBetween(start, end) + 1
	active := 0
	for day, r := range byDay(records) {
		if r.MinutesLearned > 0 && !day.Before(start) && !day.After(end) {
			active++
		}
	}
	return float64(active) / float64(days)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(shared.Day(b).Sub(shared.Day(a)).Hours() / 24)
}
