package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// dayFlag parses the named YYYY-MM-DD flag, returning fallback when it is unset.
func dayFlag(cmd *cli.Command, name string, fallback time.Time) (time.Time, error) {
	s := cmd.String(name)
	if s == "" {
		return fallback, nil
	}
	day, err := shared.ParseDay(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --%s: %v", shared.ErrInvalidFlag, name, err)
	}
	return day, nil
}

// ActivityLog records minutes and courses for a day.
func (r *Runner) ActivityLog(ctx context.Context, cmd *cli.Command) error {
	minutes, courses := cmd.Int("minutes"), cmd.Int("courses")
	if minutes == 0 && courses == 0 && !cmd.Bool("replace") {
		return fmt.Errorf("%w: --minutes or --courses is required", shared.ErrMissingArgument)
	}

	st, err := r.repos()
	if err != nil {
		return err
	}

	day, err := dayFlag(cmd, "date", st.tracker.Today())
	if err != nil {
		return err
	}

	var (
		record  models.ActivityRecord
		awarded []models.Badge
	)
	if cmd.Bool("replace") {
		record = models.ActivityRecord{Date: day, MinutesLearned: minutes, CoursesCompleted: courses}
		awarded, err = st.tracker.SetActivity(record)
	} else {
		record, awarded, err = st.tracker.LogActivity(day, minutes, courses)
	}
	if err != nil {
		return err
	}

	r.logger.Debug("activity recorded", "date", shared.FormatDay(record.Date), "minutes", record.MinutesLearned)
	r.writePlain("✓ %s: %d minutes, %d courses\n", shared.FormatDay(record.Date), record.MinutesLearned, record.CoursesCompleted)
	r.writeAwarded(awarded)
	return nil
}

// ActivityList prints recorded days, oldest first.
func (r *Runner) ActivityList(ctx context.Context, cmd *cli.Command) error {
	st, err := r.repos()
	if err != nil {
		return err
	}

	var records []models.ActivityRecord
	if cmd.String("from") == "" && cmd.String("to") == "" {
		records, err = st.activity.All()
	} else {
		today := st.tracker.Today()
		from, ferr := dayFlag(cmd, "from", time.Time{})
		if ferr != nil {
			return ferr
		}
		to, terr := dayFlag(cmd, "to", today)
		if terr != nil {
			return terr
		}
		records, err = st.activity.Range(from, to)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if records == nil {
			records = []models.ActivityRecord{}
		}
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		r.writePlain("No activity recorded.\n")
		return nil
	}

	rows := make([][]string, len(records))
	total := 0
	for i, rec := range records {
		total += rec.MinutesLearned
		rows[i] = []string{
			shared.FormatDay(rec.Date), rec.Date.Format("Mon"),
			strconv.Itoa(rec.MinutesLearned), strconv.Itoa(rec.CoursesCompleted),
		}
	}
	r.writePlain("%s\n", renderTable(
		[]string{"Date", "Day", "Minutes", "Courses"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
	))
	r.writePlain("%s minutes across %s days\n", humanize.Comma(int64(total)), humanize.Comma(int64(len(records))))
	return nil
}
