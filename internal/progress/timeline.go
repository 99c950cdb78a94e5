package progress

import "github.com/desertthunder/cadence/internal/models"

// DayStatus is the state of one day on a goal timeline.
type DayStatus int

const (
	DayLocked DayStatus = iota
	DayCurrent
	DayCompleted
)

func (s DayStatus) String() string {
	switch s {
	case DayCompleted:
		return "completed"
	case DayCurrent:
		return "current"
	default:
		return "locked"
	}
}

var milestoneDays = []int{7, 14, 21, 30}

// TimelineDay is one cell of the goal timeline.
type TimelineDay struct {
	Day       int
	Status    DayStatus
	Milestone bool
}

// Milestones returns the milestone days that fall within a goal of estimatedDays.
func Milestones(estimatedDays int) []int {
	var days []int
	for _, d := range milestoneDays {
		if d <= estimatedDays {
			days = append(days, d)
		}
	}
	return days
}

// Timeline lays out every day of the goal relative to currentDay.
func Timeline(currentDay, estimatedDays int) []TimelineDay {
	if estimatedDays <= 0 {
		return nil
	}

	marks := make(map[int]bool)
	for _, d := range Milestones(estimatedDays) {
		marks[d] = true
	}

	days := make([]TimelineDay, estimatedDays)
	for i := range days {
		day := i + 1
		status := DayLocked
		switch {
		case day < currentDay:
			status = DayCompleted
		case day == currentDay:
			status = DayCurrent
		}
		days[i] = TimelineDay{Day: day, Status: status, Milestone: marks[day]}
	}
	return days
}

// GoalProgress compares today's minutes and this month's courses with the configured targets.
type GoalProgress struct {
	TodayMinutes   int
	DailyTarget    int
	MonthlyCourses int
	MonthlyTarget  int
}

// NewGoalProgress builds a [GoalProgress] from a derived view.
func NewGoalProgress(view models.DerivedProgressView, dailyTarget, monthlyTarget int) GoalProgress {
	return GoalProgress{
		TodayMinutes:   view.TodayMinutes,
		DailyTarget:    dailyTarget,
		MonthlyCourses: view.MonthlyCoursesCompleted,
		MonthlyTarget:  monthlyTarget,
	}
}

// DailyPercent is today's minutes as a share of the daily target, capped at 100.
func (g GoalProgress) DailyPercent() int {
	return CompletionPercentage(g.TodayMinutes, g.DailyTarget)
}

// MonthlyPercent is this month's courses as a share of the monthly target, capped at 100.
func (g GoalProgress) MonthlyPercent() int {
	return CompletionPercentage(g.MonthlyCourses, g.MonthlyTarget)
}

// DailyMet reports whether today's target has been reached.
func (g GoalProgress) DailyMet() bool {
	return g.DailyTarget > 0 && g.TodayMinutes >= g.DailyTarget
}
