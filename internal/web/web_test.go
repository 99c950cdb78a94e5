package web

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/progress"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/tasks"
	tu "github.com/desertthunder/cadence/internal/testing"
)

type snapshotFunc func() (*tasks.Snapshot, error)

func (f snapshotFunc) Snapshot() (*tasks.Snapshot, error) { return f() }

func TestDashboard(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("renders snapshot", func(t *testing.T) {
		today := tu.Day("2024-03-20")
		records := []models.ActivityRecord{{Date: today, MinutesLearned: 90}}
		view := progress.Derive(progress.Input{Records: records, Today: today, CurrentDay: 3, EstimatedDays: 14, BadgesEarned: 4})
		snap := &tasks.Snapshot{
			Today:      today,
			View:       view,
			Goal:       &models.Goal{ID: "LG-008", Title: "Sleep <Better> Tonight", EstimatedDays: 14},
			Enrollment: &models.Enrollment{CurrentDay: 3},
			Badges:     progress.JoinBadges(map[string]time.Time{"B-001": today}),
			Targets:    progress.NewGoalProgress(view, 15, 1),
		}

		d := NewDashboard(snapshotFunc(func() (*tasks.Snapshot, error) { return snap, nil }), logger)
		rec := httptest.NewRecorder()
		d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{
			"Progress for 2024-03-20",
			"Sleep &lt;Better&gt; Tonight</strong>: day 3 of 14 (21%)",
			"<b>1,300</b>points",
			`style="width:100%"`,
			"Badges (1/6)",
			"earned 2024-03-20",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("page missing %q", want)
			}
		}
	})

	t.Run("no active goal", func(t *testing.T) {
		snap := &tasks.Snapshot{Today: tu.Day("2024-03-20"), Badges: progress.JoinBadges(nil)}
		d := NewDashboard(snapshotFunc(func() (*tasks.Snapshot, error) { return snap, nil }), logger)

		rec := httptest.NewRecorder()
		d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if !strings.Contains(rec.Body.String(), "No active goal.") {
			t.Errorf("expected no-goal message")
		}
	})

	t.Run("snapshot error", func(t *testing.T) {
		d := NewDashboard(snapshotFunc(func() (*tasks.Snapshot, error) { return nil, errors.New("db closed") }), logger)

		rec := httptest.NewRecorder()
		d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("Routes", func(t *testing.T) {
		if routes := NewDashboard(nil, logger).Routes(); len(routes) != 1 || routes[0] != "GET /{$}" {
			t.Errorf("unexpected routes %v", routes)
		}
	})
}
