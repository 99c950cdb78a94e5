package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/cadence/internal/models"
	ptrack "github.com/desertthunder/cadence/internal/progress"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/tasks"
	"github.com/dustin/go-humanize"
)

const (
	refreshInterval = time.Minute
	chartWidth      = 30
	chartMaxMinutes = 60
)

// SnapshotSource supplies progress snapshots to the dashboard.
type SnapshotSource interface {
	Snapshot() (*tasks.Snapshot, error)
}

// DashboardModel shows today's progress, the week, the goal timeline, and badges.
type DashboardModel struct {
	source SnapshotSource
	snap   *tasks.Snapshot
	err    error
	bar    progress.Model
	help   help.Model
	keys   dashboardKeys
	width  int
}

// NewDashboardModel creates a new DashboardModel.
func NewDashboardModel(source SnapshotSource) *DashboardModel {
	return &DashboardModel{
		source: source,
		bar:    progress.New(progress.WithDefaultGradient()),
		help:   help.New(),
		keys:   newDashboardKeys(),
	}
}

// Init loads the first snapshot.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.tick())
}

func (m *DashboardModel) load() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.source.Snapshot()
		return snapshotLoadedMsg(snap, err)
	}
}

func (m *DashboardModel) tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg() })
}

// Update handles incoming messages and updates the model state.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-30, 10), 50)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.refresh):
			return m, m.load()
		}

	case Msg:
		switch msg.kind {
		case MsgSnapshotLoaded:
			data := msg.data.(struct {
				snap *tasks.Snapshot
				err  error
			})
			m.snap, m.err = data.snap, data.err
		case MsgRefresh:
			return m, tea.Batch(m.load(), m.tick())
		}
	}
	return m, nil
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}
	if m.snap == nil {
		return "Loading progress..."
	}

	s := m.snap
	sections := []string{
		styles.title.Render(fmt.Sprintf("Progress for %s", shared.FormatDay(s.Today))),
		m.renderGoal(),
		m.renderStats(),
		m.renderWeek(),
		m.renderBadges(),
		m.help.View(m.keys),
	}
	return strings.Join(sections, "\n\n")
}

func (m *DashboardModel) renderGoal() string {
	s := m.snap
	if s.Goal == nil || s.Enrollment == nil {
		return styles.help.Render("No active goal. Enroll with `cadence goals enroll <id>`.")
	}

	header := fmt.Sprintf("%s  day %d of %d", styles.ok.Render(s.Goal.Title), s.Enrollment.CurrentDay, s.Goal.EstimatedDays)
	bar := m.bar.ViewAs(float64(s.View.CompletionPercentage) / 100)
	return fmt.Sprintf("%s\n%s\n%s", header, bar, renderTimeline(s.Timeline))
}

// renderTimeline draws one cell per day: ● completed, ◉ current, ○ locked, ◆ milestone.
func renderTimeline(days []ptrack.TimelineDay) string {
	var b strings.Builder
	for _, d := range days {
		cell := "○"
		switch {
		case d.Status == ptrack.DayCompleted:
			cell = styles.ok.Render("●")
		case d.Status == ptrack.DayCurrent:
			cell = styles.warn.Render("◉")
		case d.Milestone:
			cell = styles.help.Render("◆")
		}
		b.WriteString(cell)
	}
	return b.String()
}

func (m *DashboardModel) renderStats() string {
	s := m.snap
	daily := fmt.Sprintf("%d/%d min", s.View.TodayMinutes, s.Targets.DailyTarget)
	if s.Targets.DailyMet() {
		daily = styles.ok.Render(daily + " ✓")
	}

	boxes := []string{
		styles.box.Render("Today\n" + daily),
		styles.box.Render(fmt.Sprintf("Streak\n%d days", s.View.CurrentStreak)),
		styles.box.Render(fmt.Sprintf("This month\n%d/%d courses", s.View.MonthlyCoursesCompleted, s.Targets.MonthlyTarget)),
		styles.box.Render("Points\n" + humanize.Comma(int64(s.View.TotalPoints))),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m *DashboardModel) renderWeek() string {
	return "This week\n" + renderChart(m.snap.View.WeeklyMinutes)
}

// renderChart draws a horizontal bar per day, saturating at an hour.
func renderChart(week []models.DayMinutes) string {
	lines := make([]string, len(week))
	for i, d := range week {
		n := min(d.Minutes, chartMaxMinutes) * chartWidth / chartMaxMinutes
		bar := styles.ok.Render(strings.Repeat("█", n)) + strings.Repeat("·", chartWidth-n)
		lines[i] = fmt.Sprintf("%s %s %d", d.Weekday, bar, d.Minutes)
	}
	return strings.Join(lines, "\n")
}

func (m *DashboardModel) renderBadges() string {
	lines := []string{fmt.Sprintf("Badges (%d/%d)", m.snap.BadgesEarned, len(m.snap.Badges))}
	for _, b := range m.snap.Badges {
		mark := "·"
		if b.Earned {
			mark = "★"
		}
		lines = append(lines, styles.tier(b).Render(fmt.Sprintf("%s %s (%s): %s", mark, b.Name, b.Tier, b.Criteria)))
	}
	return strings.Join(lines, "\n")
}
