// Package progress derives streaks, weekly charts, completion, and points from raw activity records.
//
// Every function is pure: inputs are never mutated and nothing is cached.
// Records are expected to hold at most one entry per calendar day; when a day repeats, the record that appears last in the slice wins.
package progress

import (
	"math"
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
)

// Point weights for [TotalPoints].
const (
	PointsPerDay        = 100
	PointsPerStreakWeek = 500
	PointsPerGoal       = 5000
	PointsPerBadge      = 250
)

// byDay indexes records by calendar day.
func byDay(records []models.ActivityRecord) map[time.Time]models.ActivityRecord {
	index := make(map[time.Time]models.ActivityRecord, len(records))
	for _, r := range records {
		index[shared.Day(r.Date)] = r
	}
	return index
}

// TodayMinutes returns the minutes learned on today, or 0 without a record.
func TodayMinutes(records []models.ActivityRecord, today time.Time) int {
	return byDay(records)[shared.Day(today)].MinutesLearned
}

// StartOfWeek returns the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	day := shared.Day(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeeklyMinutes returns minutes for the seven days Monday through Sunday of the week containing weekStart.
func WeeklyMinutes(records []models.ActivityRecord, weekStart time.Time) []models.DayMinutes {
	index := byDay(records)
	monday := StartOfWeek(weekStart)

	week := make([]models.DayMinutes, 7)
	for i := range week {
		day := monday.AddDate(0, 0, i)
		week[i] = models.DayMinutes{
			Weekday: day.Weekday().String()[:3],
			Date:    day,
			Minutes: index[day].MinutesLearned,
		}
	}
	return week
}

// MonthlyCoursesCompleted sums courses completed on days in the calendar month of month.
func MonthlyCoursesCompleted(records []models.ActivityRecord, month time.Time) int {
	year, mon, _ := month.Date()

	total := 0
	for day, r := range byDay(records) {
		if y, m, _ := day.Date(); y == year && m == mon {
			total += r.CoursesCompleted
		}
	}
	return total
}

// CurrentStreak counts consecutive active days ending at today, or at yesterday when today has no activity yet.
//
// A day is active when it has more than zero minutes learned.
func CurrentStreak(records []models.ActivityRecord, today time.Time) int {
	active := make(map[time.Time]bool, len(records))
	for day, r := range byDay(records) {
		if r.MinutesLearned > 0 {
			active[day] = true
		}
	}

	cursor := shared.Day(today)
	if !active[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for active[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// CompletionPercentage returns round(100 * currentDay / estimatedDays), capped at 100.
//
// A goal without a positive length reports 0.
func CompletionPercentage(currentDay, estimatedDays int) int {
	if estimatedDays <= 0 || currentDay <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(currentDay) / float64(estimatedDays)))
	return min(100, pct)
}

// TotalPoints scores progress: 100 per day, 500 per full streak week, 5000 per completed goal, and 250 per badge.
func TotalPoints(currentDay, streakCount, goalsCompleted, badgesEarned int) int {
	return currentDay*PointsPerDay +
		(streakCount/7)*PointsPerStreakWeek +
		goalsCompleted*PointsPerGoal +
		badgesEarned*PointsPerBadge
}

// Input collects everything [Derive] folds into a [models.DerivedProgressView].
type Input struct {
	Records        []models.ActivityRecord
	Today          time.Time
	CurrentDay     int
	EstimatedDays  int
	GoalsCompleted int
	BadgesEarned   int
}

// Derive computes the full progress view for today.
func Derive(in Input) models.DerivedProgressView {
	streak := CurrentStreak(in.Records, in.Today)

	return models.DerivedProgressView{
		TodayMinutes:            TodayMinutes(in.Records, in.Today),
		CurrentStreak:           streak,
		WeeklyMinutes:           WeeklyMinutes(in.Records, in.Today),
		MonthlyCoursesCompleted: MonthlyCoursesCompleted(in.Records, in.Today),
		CompletionPercentage:    CompletionPercentage(in.CurrentDay, in.EstimatedDays),
		TotalPoints:             TotalPoints(in.CurrentDay, streak, in.GoalsCompleted, in.BadgesEarned),
	}
}
