package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/cadence/internal/formatter"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// ProgressShow prints the derived progress view for today.
func (r *Runner) ProgressShow(ctx context.Context, cmd *cli.Command) error {
	st, err := r.repos()
	if err != nil {
		return err
	}

	snap, err := st.tracker.Snapshot()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snap, cmd.Bool("pretty"))
	}

	v := snap.View
	r.writePlainHeader(fmt.Sprintf("Progress for %s", shared.FormatDay(snap.Today)))
	if snap.Goal != nil && snap.Enrollment != nil {
		r.writePlain("Goal:      %s (day %d of %d, %d%%)\n",
			snap.Goal.Title, snap.Enrollment.CurrentDay, snap.Goal.EstimatedDays, v.CompletionPercentage)
	} else {
		r.writePlain("Goal:      none (enroll with `cadence goals enroll <id>`)\n")
	}

	daily := ""
	if snap.Targets.DailyMet() {
		daily = " ✓"
	}
	r.writePlain("Today:     %d / %d minutes%s\n", v.TodayMinutes, snap.Targets.DailyTarget, daily)
	r.writePlain("Streak:    %d days\n", v.CurrentStreak)
	r.writePlain("Courses:   %d / %d this month\n", v.MonthlyCoursesCompleted, snap.Targets.MonthlyTarget)
	r.writePlain("Completed: %d goals\n", snap.GoalsCompleted)
	r.writePlain("Points:    %s\n\n", humanize.Comma(int64(v.TotalPoints)))

	rows := make([][]string, len(v.WeeklyMinutes))
	for i, d := range v.WeeklyMinutes {
		n := min(d.Minutes, 60) / 3
		rows[i] = []string{d.Weekday, shared.FormatDay(d.Date), strconv.Itoa(d.Minutes), strings.Repeat("█", n)}
	}
	r.writePlain("%s\n", renderTable(
		[]string{"Day", "Date", "Minutes", ""},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	))

	r.writePlain("Badges: %d of %d earned\n", snap.BadgesEarned, len(snap.Badges))
	return nil
}

// ProgressExport writes a progress report in the requested format.
func (r *Runner) ProgressExport(ctx context.Context, cmd *cli.Command) error {
	st, err := r.repos()
	if err != nil {
		return err
	}

	snap, err := st.tracker.Snapshot()
	if err != nil {
		return err
	}
	records, err := st.activity.All()
	if err != nil {
		return err
	}

	report := formatter.Report{Snapshot: snap, Activity: records}
	output := cmd.String("output")

	switch format := strings.ToLower(cmd.String("format")); format {
	case "csv":
		result, err := formatter.WriteCSVExport(report, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported activity to %s\n", result.ActivityFile)
		r.writePlain("✓ Exported summary to %s\n", result.SummaryFile)
	case "markdown", "md":
		path, err := formatter.WriteMarkdownExport(report, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported report to %s\n", path)
	case "text", "txt":
		path, err := formatter.WriteTextExport(report, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported report to %s\n", path)
	case "json":
		data, err := formatter.ExportToJSON(report)
		if err != nil {
			return err
		}
		if output == "" {
			_, err = r.output.Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write JSON file: %w", err)
		}
		r.writePlain("✓ Exported summary to %s\n", output)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
	return nil
}

// BadgesList prints the badge catalog with earned status.
func (r *Runner) BadgesList(ctx context.Context, cmd *cli.Command) error {
	st, err := r.repos()
	if err != nil {
		return err
	}

	snap, err := st.tracker.Snapshot()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snap.Badges, cmd.Bool("pretty"))
	}

	rows := make([][]string, len(snap.Badges))
	for i, b := range snap.Badges {
		earned := ""
		if b.Earned && b.EarnedDate != nil {
			earned = fmt.Sprintf("%s (%s)", shared.FormatDay(*b.EarnedDate), humanize.Time(*b.EarnedDate))
		}
		rows[i] = []string{b.ID, b.Name, string(b.Tier), b.Criteria, earned}
	}
	r.writePlain("%s\n", renderTable([]string{"ID", "Badge", "Tier", "Criteria", "Earned"}, rows, nil))
	r.writePlain("%d of %d earned\n", snap.BadgesEarned, len(snap.Badges))
	return nil
}
