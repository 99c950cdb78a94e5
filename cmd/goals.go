package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/progress"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli/v3"
)

// GoalsList prints the goal catalog, marking the active goal.
func (r *Runner) GoalsList(ctx context.Context, cmd *cli.Command) error {
	st, err := r.repos()
	if err != nil {
		return err
	}

	goals, err := st.goals.List(map[string]any{
		"category":   cmd.String("category"),
		"difficulty": cmd.String("difficulty"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if goals == nil {
			goals = []models.Goal{}
		}
		return r.writeJSON(goals, cmd.Bool("pretty"))
	}

	active, err := st.enrollments.Active()
	if err != nil && !errors.Is(err, shared.ErrNoActiveGoal) {
		return err
	}

	rows := make([][]string, len(goals))
	for i, g := range goals {
		status := ""
		if active != nil && active.GoalID == g.ID {
			status = fmt.Sprintf("active (day %d)", active.CurrentDay)
		}
		rows[i] = []string{g.ID, g.Title, g.Category, strconv.Itoa(g.EstimatedDays), g.Difficulty, strings.Join(g.Tags, ", "), status}
	}
	r.writePlain("%s\n", renderTable(
		[]string{"ID", "Title", "Category", "Days", "Difficulty", "Tags", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}

// GoalsEnroll starts the goal with the given ID.
func (r *Runner) GoalsEnroll(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: goal ID is required", shared.ErrMissingArgument)
	}

	st, err := r.repos()
	if err != nil {
		return err
	}

	e, err := st.tracker.Enroll(id)
	if err != nil {
		return err
	}
	goal, err := st.goals.Get(e.GoalID)
	if err != nil {
		return err
	}

	r.logger.Info("enrolled", "goal", e.GoalID, "enrollment", e.ID)
	r.writePlain("✓ Enrolled in %s: %s\n", goal.ID, goal.Title)
	r.writePlain("  Day %d of %d, started %s\n", e.CurrentDay, goal.EstimatedDays, shared.FormatDay(e.StartedOn))
	return nil
}

// GoalsAdvance moves the active goal forward and reports any badges it earned.
func (r *Runner) GoalsAdvance(ctx context.Context, cmd *cli.Command) error {
	st, err := r.repos()
	if err != nil {
		return err
	}

	e, awarded, err := st.tracker.Advance(cmd.Int("days"))
	if err != nil {
		return err
	}
	goal, err := st.goals.Get(e.GoalID)
	if err != nil {
		return err
	}

	r.writePlain("✓ %s: day %d of %d\n", goal.Title, e.CurrentDay, goal.EstimatedDays)
	r.writeAwarded(awarded)
	return nil
}

// GoalsComplete completes the active goal.
func (r *Runner) GoalsComplete(ctx context.Context, cmd *cli.Command) error {
	st, err := r.repos()
	if err != nil {
		return err
	}

	e, awarded, err := st.tracker.Complete()
	if err != nil {
		return err
	}
	goal, err := st.goals.Get(e.GoalID)
	if err != nil {
		return err
	}

	taken := progress.DaysBetween(e.StartedOn, *e.CompletedOn) + 1
	r.writePlain("🎉 Completed %s in %s (estimated %d)\n", goal.Title, english.Plural(taken, "day", ""), goal.EstimatedDays)
	r.writeAwarded(awarded)
	return nil
}

func (r *Runner) writeAwarded(awarded []models.Badge) {
	for _, b := range awarded {
		r.writePlain("🏅 Badge earned: %s (%s) - %s\n", b.Name, b.Tier, b.Criteria)
	}
}
