package progress

import (
	"testing"
	"time"

	"github.com/desertthunder/cadence/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func record(date string, minutes, courses int) models.ActivityRecord {
	return models.ActivityRecord{Date: day(date), MinutesLearned: minutes, CoursesCompleted: courses}
}

func TestTodayMinutes(t *testing.T) {
	records := []models.ActivityRecord{record("2025-11-01", 20, 0), record("2025-11-02", 15, 1)}

	if got := TodayMinutes(records, day("2025-11-02")); got != 15 {
		t.Errorf("TodayMinutes() = %d, want 15", got)
	}
	if got := TodayMinutes(records, day("2025-11-03")); got != 0 {
		t.Errorf("TodayMinutes() without record = %d, want 0", got)
	}

	evening := time.Date(2025, 11, 2, 21, 45, 0, 0, time.UTC)
	if got := TodayMinutes(records, evening); got != 15 {
		t.Errorf("TodayMinutes() should ignore time of day, got %d", got)
	}
}

func TestCurrentStreak(t *testing.T) {
	records := []models.ActivityRecord{record("2025-11-01", 20, 0), record("2025-11-02", 15, 0)}

	tc := []struct {
		name    string
		records []models.ActivityRecord
		today   string
		want    int
	}{
		{name: "active today", records: records, today: "2025-11-02", want: 2},
		{name: "missed today still counts yesterday", records: records, today: "2025-11-03", want: 2},
		{name: "two day gap breaks streak", records: records, today: "2025-11-04", want: 0},
		{name: "empty records", records: nil, today: "2025-11-02", want: 0},
		{
			name: "zero minute day is not active",
			records: []models.ActivityRecord{
				record("2025-10-30", 10, 0), record("2025-10-31", 0, 1), record("2025-11-01", 10, 0),
			},
			today: "2025-11-01",
			want:  1,
		},
		{
			name: "walk stops at first gap",
			records: []models.ActivityRecord{
				record("2025-10-25", 30, 0), record("2025-10-26", 30, 0),
				record("2025-10-28", 30, 0), record("2025-10-29", 30, 0), record("2025-10-30", 30, 0),
			},
			today: "2025-10-30",
			want:  3,
		},
		{
			name:    "unordered input",
			records: []models.ActivityRecord{record("2025-11-02", 5, 0), record("2025-10-31", 5, 0), record("2025-11-01", 5, 0)},
			today:   "2025-11-02",
			want:    3,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.records, day(tt.today)); got != tt.want {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeeklyMinutes(t *testing.T) {
	records := []models.ActivityRecord{
		record("2025-11-05", 30, 0),
		record("2025-11-07", 45, 0),
		record("2025-11-10", 99, 0),
	}

	want := []struct {
		day     string
		minutes int
	}{
		{"Mon", 0}, {"Tue", 0}, {"Wed", 30}, {"Thu", 0}, {"Fri", 45}, {"Sat", 0}, {"Sun", 0},
	}

	t.Run("Monday anchored", func(t *testing.T) {
		got := WeeklyMinutes(records, day("2025-11-03"))
		if len(got) != 7 {
			t.Fatalf("expected 7 days, got %d", len(got))
		}
		for i, w := range want {
			if got[i].Weekday != w.day || got[i].Minutes != w.minutes {
				t.Errorf("day %d = %s:%d, want %s:%d", i, got[i].Weekday, got[i].Minutes, w.day, w.minutes)
			}
		}
		if !got[6].Date.Equal(day("2025-11-09")) {
			t.Errorf("expected week to end on Sunday 2025-11-09, got %v", got[6].Date)
		}
	})

	t.Run("mid-week start snaps to Monday", func(t *testing.T) {
		got := WeeklyMinutes(records, day("2025-11-06"))
		if !got[0].Date.Equal(day("2025-11-03")) {
			t.Errorf("expected Monday 2025-11-03, got %v", got[0].Date)
		}
		if got[2].Minutes != 30 {
			t.Errorf("expected Wednesday 30, got %d", got[2].Minutes)
		}
	})

	t.Run("empty week", func(t *testing.T) {
		for _, d := range WeeklyMinutes(nil, day("2025-11-03")) {
			if d.Minutes != 0 {
				t.Errorf("expected zero minutes, got %d on %s", d.Minutes, d.Weekday)
			}
		}
	})
}

func TestStartOfWeek(t *testing.T) {
	tc := map[string]string{
		"2025-11-03": "2025-11-03",
		"2025-11-05": "2025-11-03",
		"2025-11-09": "2025-11-03",
		"2025-11-10": "2025-11-10",
	}
	for in, want := range tc {
		if got := StartOfWeek(day(in)); !got.Equal(day(want)) {
			t.Errorf("StartOfWeek(%s) = %s, want %s", in, got.Format("2006-01-02"), want)
		}
	}
}

func TestMonthlyCoursesCompleted(t *testing.T) {
	records := []models.ActivityRecord{
		record("2025-10-31", 10, 4),
		record("2025-11-01", 10, 1),
		record("2025-11-15", 10, 2),
		record("2025-11-30", 0, 1),
		record("2025-12-01", 10, 7),
	}

	if got := MonthlyCoursesCompleted(records, day("2025-11-18")); got != 4 {
		t.Errorf("MonthlyCoursesCompleted() = %d, want 4", got)
	}
	if got := MonthlyCoursesCompleted(records, day("2024-11-18")); got != 0 {
		t.Errorf("other year should not count, got %d", got)
	}
	if got := MonthlyCoursesCompleted(nil, day("2025-11-18")); got != 0 {
		t.Errorf("empty records = %d, want 0", got)
	}
}

func TestCompletionPercentage(t *testing.T) {
	tc := []struct {
		current, estimated, want int
	}{
		{18, 30, 60},
		{35, 30, 100},
		{30, 30, 100},
		{1, 45, 2},
		{1, 3, 33},
		{2, 3, 67},
		{0, 30, 0},
		{5, 0, 0},
		{5, -1, 0},
	}

	for _, tt := range tc {
		if got := CompletionPercentage(tt.current, tt.estimated); got != tt.want {
			t.Errorf("CompletionPercentage(%d, %d) = %d, want %d", tt.current, tt.estimated, got, tt.want)
		}
	}
}

func TestTotalPoints(t *testing.T) {
	tc := []struct {
		name                               string
		day, streak, goals, badges, points int
	}{
		{name: "dashboard example", day: 18, streak: 18, goals: 0, badges: 2, points: 3300},
		{name: "nothing yet", points: 0},
		{name: "partial week earns nothing", day: 1, streak: 6, points: 100},
		{name: "completed goals", day: 3, streak: 14, goals: 2, badges: 3, points: 300 + 1000 + 10000 + 750},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalPoints(tt.day, tt.streak, tt.goals, tt.badges); got != tt.points {
				t.Errorf("TotalPoints() = %d, want %d", got, tt.points)
			}
		})
	}
}

func TestDerive(t *testing.T) {
	t.Run("full view", func(t *testing.T) {
		records := []models.ActivityRecord{
			record("2025-11-01", 20, 0),
			record("2025-11-02", 15, 1),
		}

		view := Derive(Input{
			Records:       records,
			Today:         day("2025-11-02"),
			CurrentDay:    18,
			EstimatedDays: 30,
			BadgesEarned:  2,
		})

		if view.TodayMinutes != 15 {
			t.Errorf("TodayMinutes = %d, want 15", view.TodayMinutes)
		}
		if view.CurrentStreak != 2 {
			t.Errorf("CurrentStreak = %d, want 2", view.CurrentStreak)
		}
		if view.MonthlyCoursesCompleted != 1 {
			t.Errorf("MonthlyCoursesCompleted = %d, want 1", view.MonthlyCoursesCompleted)
		}
		if view.CompletionPercentage != 60 {
			t.Errorf("CompletionPercentage = %d, want 60", view.CompletionPercentage)
		}
		if view.TotalPoints != 1800+500 {
			t.Errorf("TotalPoints = %d, want 2300", view.TotalPoints)
		}
		if view.WeeklyMinutes[5].Minutes != 20 || view.WeeklyMinutes[6].Minutes != 15 {
			t.Errorf("unexpected weekly chart: %+v", view.WeeklyMinutes)
		}
	})

	t.Run("empty records", func(t *testing.T) {
		view := Derive(Input{Today: day("2025-11-02"), CurrentDay: 18, EstimatedDays: 30})

		if view.TodayMinutes != 0 || view.CurrentStreak != 0 || view.MonthlyCoursesCompleted != 0 {
			t.Errorf("expected zero metrics, got %+v", view)
		}
		if view.CompletionPercentage != 60 {
			t.Errorf("completion should depend only on days, got %d", view.CompletionPercentage)
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		records := []models.ActivityRecord{record("2025-11-02", 15, 1), record("2025-11-01", 20, 0)}
		Derive(Input{Records: records, Today: day("2025-11-02")})
		if records[0].MinutesLearned != 15 || !records[1].Date.Equal(day("2025-11-01")) {
			t.Errorf("input was modified: %+v", records)
		}
	})

	t.Run("duplicate dates keep the last record", func(t *testing.T) {
		records := []models.ActivityRecord{record("2025-11-02", 15, 3), record("2025-11-02", 40, 1)}
		view := Derive(Input{Records: records, Today: day("2025-11-02")})
		if view.TodayMinutes != 40 || view.MonthlyCoursesCompleted != 1 {
			t.Errorf("expected last record to win, got %+v", view)
		}
	})
}
