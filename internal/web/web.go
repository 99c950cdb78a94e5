// Package web renders a read-only HTML dashboard mirroring the TUI dashboard.
//
// The page is server-rendered with html/template on every request and refreshes itself once a minute;
// there is no client-side state.
package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/tasks"
	"github.com/dustin/go-humanize"
)

// SnapshotSource supplies the progress snapshot the page renders.
type SnapshotSource interface {
	Snapshot() (*tasks.Snapshot, error)
}

const maxBarMinutes = 60

var funcs = template.FuncMap{
	"day":   shared.FormatDay,
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
	"bar": func(minutes int) int {
		return min(100, minutes*100/maxBarMinutes)
	},
	"earned": func(badges []models.Badge) int {
		n := 0
		for _, b := range badges {
			if b.Earned {
				n++
			}
		}
		return n
	},
}

var page = template.Must(template.New("dashboard").Funcs(funcs).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="60">
<title>cadence · {{day .Today}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 44rem; margin: 2rem auto; color: #222; }
.stats { display: grid; grid-template-columns: repeat(4, 1fr); gap: 1rem; }
.stat { border: 1px solid #ddd; border-radius: 6px; padding: .75rem; }
.stat b { display: block; font-size: 1.5rem; }
.bar { background: #7d56f4; height: .8rem; border-radius: 3px; }
.badge.locked { opacity: .4; }
td { padding: .2rem .6rem; }
</style>
</head>
<body>
<h1>Progress for {{day .Today}}</h1>
{{with .Goal}}<p><strong>{{.Title}}</strong>: day {{$.Enrollment.CurrentDay}} of {{.EstimatedDays}} ({{$.View.CompletionPercentage}}%)</p>
{{else}}<p>No active goal.</p>{{end}}
<div class="stats">
<div class="stat"><b>{{.View.TodayMinutes}}</b>min today / {{.Targets.DailyTarget}}</div>
<div class="stat"><b>{{.View.CurrentStreak}}</b>day streak</div>
<div class="stat"><b>{{.View.MonthlyCoursesCompleted}}</b>courses this month / {{.Targets.MonthlyTarget}}</div>
<div class="stat"><b>{{comma .View.TotalPoints}}</b>points</div>
</div>
<h2>This week</h2>
<table>
{{range .View.WeeklyMinutes}}<tr><td>{{.Weekday}}</td><td style="width:20rem"><div class="bar" style="width:{{bar .Minutes}}%"></div></td><td>{{.Minutes}} min</td></tr>
{{end}}</table>
<h2>Badges ({{earned .Badges}}/{{len .Badges}})</h2>
<ul>
{{range .Badges}}<li class="badge{{if not .Earned}} locked{{end}}"><strong>{{.Name}}</strong> ({{.Tier}}): {{.Criteria}}{{with .EarnedDate}}, earned {{day .}}{{end}}</li>
{{end}}</ul>
</body>
</html>
`))

// Dashboard serves the progress page at "/".
type Dashboard struct {
	source SnapshotSource
	logger *log.Logger
}

// NewDashboard creates a new Dashboard.
func NewDashboard(source SnapshotSource, logger *log.Logger) *Dashboard {
	return &Dashboard{source: source, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (d *Dashboard) Routes() []string {
	return []string{"GET /{$}"}
}

func (d *Dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snap, err := d.source.Snapshot()
	if err != nil {
		d.logger.Error("failed to load progress", "error", err)
		http.Error(w, "failed to load progress", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, snap); err != nil {
		d.logger.Error("failed to render dashboard", "error", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
