// package formatter exports learning progress to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/tasks"
	"github.com/dustin/go-humanize"
)

// Report is a progress snapshot together with the activity it was derived from.
type Report struct {
	Snapshot *tasks.Snapshot
	Activity []models.ActivityRecord
}

// basename is the default file stem for exports of r.
func (r Report) basename() string {
	return "progress_" + shared.FormatDay(r.Snapshot.Today)
}

func (r Report) goalLine() string {
	s := r.Snapshot
	if s.Goal == nil || s.Enrollment == nil {
		return "No active goal"
	}
	return fmt.Sprintf("%s, day %d of %d (%d%%)", s.Goal.Title, s.Enrollment.CurrentDay, s.Goal.EstimatedDays, s.View.CompletionPercentage)
}

func earned(badges []models.Badge) []models.Badge {
	var out []models.Badge
	for _, b := range badges {
		if b.Earned {
			out = append(out, b)
		}
	}
	return out
}

// ExportToCSV converts activity records to CSV format with columns: Date, Minutes, Courses
func ExportToCSV(records []models.ActivityRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Date", "Minutes", "Courses"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		record := []string{
			shared.FormatDay(r.Date),
			strconv.Itoa(r.MinutesLearned),
			strconv.Itoa(r.CoursesCompleted),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders the report as a Markdown document.
func ExportToMarkdown(r Report) ([]byte, error) {
	if r.Snapshot == nil {
		return nil, fmt.Errorf("%w: report has no snapshot", shared.ErrInvalidArgument)
	}
	s := r.Snapshot
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Progress Report (%s)\n\n", shared.FormatDay(s.Today)))

	buf.WriteString(fmt.Sprintf("**Goal**: %s\n", r.goalLine()))
	buf.WriteString(fmt.Sprintf("**Today**: %d / %d minutes\n", s.View.TodayMinutes, s.Targets.DailyTarget))
	buf.WriteString(fmt.Sprintf("**Streak**: %d days\n", s.View.CurrentStreak))
	buf.WriteString(fmt.Sprintf("**Courses this month**: %d / %d\n", s.View.MonthlyCoursesCompleted, s.Targets.MonthlyTarget))
	buf.WriteString(fmt.Sprintf("**Goals completed**: %d\n", s.GoalsCompleted))
	buf.WriteString(fmt.Sprintf("**Points**: %s\n\n", humanize.Comma(int64(s.View.TotalPoints))))

	buf.WriteString("## This Week\n\n")
	buf.WriteString("| Day | Date | Minutes |\n|---|---|---|\n")
	for _, d := range s.View.WeeklyMinutes {
		buf.WriteString(fmt.Sprintf("| %s | %s | %d |\n", d.Weekday, shared.FormatDay(d.Date), d.Minutes))
	}
	buf.WriteString("\n")

	buf.WriteString("## Badges\n\n")
	if got := earned(s.Badges); len(got) == 0 {
		buf.WriteString("No badges earned yet.\n")
	} else {
		for _, b := range got {
			buf.WriteString(fmt.Sprintf("- **%s** (%s): %s, earned %s\n", b.Name, b.Tier, b.Criteria, shared.FormatDay(*b.EarnedDate)))
		}
	}

	if len(r.Activity) > 0 {
		buf.WriteString("\n## Activity\n\n")
		buf.WriteString("| Date | Minutes | Courses |\n|---|---|---|\n")
		for _, a := range r.Activity {
			buf.WriteString(fmt.Sprintf("| %s | %d | %d |\n", shared.FormatDay(a.Date), a.MinutesLearned, a.CoursesCompleted))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders the report as plain text
func ExportToText(r Report) ([]byte, error) {
	if r.Snapshot == nil {
		return nil, fmt.Errorf("%w: report has no snapshot", shared.ErrInvalidArgument)
	}
	s := r.Snapshot
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Progress for %s\n", shared.FormatDay(s.Today)))
	buf.WriteString(fmt.Sprintf("Goal: %s\n", r.goalLine()))
	buf.WriteString(fmt.Sprintf("Today: %d min\n", s.View.TodayMinutes))
	buf.WriteString(fmt.Sprintf("Streak: %d days\n", s.View.CurrentStreak))
	buf.WriteString(fmt.Sprintf("Points: %s\n\n", humanize.Comma(int64(s.View.TotalPoints))))

	week := make([]string, len(s.View.WeeklyMinutes))
	for i, d := range s.View.WeeklyMinutes {
		week[i] = fmt.Sprintf("%s %d", d.Weekday, d.Minutes)
	}
	buf.WriteString(fmt.Sprintf("Week: %s\n", strings.Join(week, ", ")))

	for i, b := range earned(s.Badges) {
		buf.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, b.Name, b.Tier))
	}

	return buf.Bytes(), nil
}

// summary is the JSON shape of a report.
type summary struct {
	Date           string                     `json:"date"`
	Progress       models.DerivedProgressView `json:"progress"`
	Goal           *models.Goal               `json:"goal,omitempty"`
	Enrollment     *models.Enrollment         `json:"enrollment,omitempty"`
	GoalsCompleted int                        `json:"goals_completed"`
	Badges         []models.Badge             `json:"badges"`
}

// ExportToJSON converts the report summary to indented JSON (without the activity rows)
func ExportToJSON(r Report) ([]byte, error) {
	if r.Snapshot == nil {
		return nil, fmt.Errorf("%w: report has no snapshot", shared.ErrInvalidArgument)
	}
	s := r.Snapshot
	return json.MarshalIndent(summary{
		Date:           shared.FormatDay(s.Today),
		Progress:       s.View,
		Goal:           s.Goal,
		Enrollment:     s.Enrollment,
		GoalsCompleted: s.GoalsCompleted,
		Badges:         earned(s.Badges),
	}, "", "  ")
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ActivityFile string
	SummaryFile  string
}

// WriteCSVExport writes the activity CSV with an accompanying summary JSON file.
//
// Defaults to progress_{date} as the base filename & creates {base}_activity.csv and {base}_summary.json
func WriteCSVExport(r Report, baseFilepath string) (*CSVExportResult, error) {
	if r.Snapshot == nil {
		return nil, fmt.Errorf("%w: report has no snapshot", shared.ErrInvalidArgument)
	}
	if baseFilepath == "" {
		baseFilepath = r.basename()
	}

	csvData, err := ExportToCSV(r.Activity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	activityFile := baseFilepath + "_activity.csv"
	if err := os.WriteFile(activityFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summaryJSON, err := ExportToJSON(r)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{ActivityFile: activityFile, SummaryFile: summaryFile}, nil
}

// WriteMarkdownExport writes the report to {dir}/README.md.
//
// Directory name defaults to progress_{date}.
func WriteMarkdownExport(r Report, outputDir string) (string, error) {
	if r.Snapshot == nil {
		return "", fmt.Errorf("%w: report has no snapshot", shared.ErrInvalidArgument)
	}
	if outputDir == "" {
		outputDir = r.basename()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(r)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport writes the report as plain text.
//
// Defaults to progress_{date}.txt as the filename.
func WriteTextExport(r Report, path string) (string, error) {
	if r.Snapshot == nil {
		return "", fmt.Errorf("%w: report has no snapshot", shared.ErrInvalidArgument)
	}
	if path == "" {
		path = r.basename() + ".txt"
	}

	textData, err := ExportToText(r)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}
