package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadence/internal/repositories"
	"github.com/desertthunder/cadence/internal/services"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	catalog    services.Catalog
	clock      shared.Clock
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	st         *stores
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB // opened from Config.Database on first use when nil
	Catalog    services.Catalog
	Clock      shared.Clock
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// stores bundles the repositories and the tracker built over one database.
type stores struct {
	tracks      *repositories.TrackRepository
	goals       *repositories.GoalRepository
	activity    *repositories.ActivityRepository
	enrollments *repositories.EnrollmentRepository
	badges      *repositories.BadgeRepository
	resume      *repositories.ResumeRepository
	tracker     *tasks.Tracker
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Clock == nil {
		opts.Clock = shared.SystemClock{}
	}
	if opts.Catalog == nil {
		opts.Catalog = services.NewCatalogService(context.Background(), opts.Config.Catalog, opts.HTTPClient)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		catalog:    opts.Catalog,
		clock:      opts.Clock,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, catalogCommand, goalsCommand, activityCommand, progressCommand, badgesCommand,
		playCommand, dashboardCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// database opens and migrates the configured database on first use.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	r.logger.Debug("opening database", "path", r.config.Database.Path)
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	return db, nil
}

// repos builds the repositories and tracker on first use.
func (r *Runner) repos() (*stores, error) {
	if r.st != nil {
		return r.st, nil
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}

	s := &stores{
		tracks:      repositories.NewTrackRepository(db),
		goals:       repositories.NewGoalRepository(db),
		activity:    repositories.NewActivityRepository(db),
		enrollments: repositories.NewEnrollmentRepository(db),
		badges:      repositories.NewBadgeRepository(db),
		resume:      repositories.NewResumeRepository(db),
	}
	s.tracker = tasks.NewTracker(tasks.TrackerOpts{
		Activity:    s.activity,
		Enrollments: s.enrollments,
		Goals:       s.goals,
		Badges:      s.badges,
		Clock:       r.clock,
		Targets: tasks.Targets{
			DailyMinutes:   r.config.Goals.DailyMinutes,
			MonthlyCourses: r.config.Goals.MonthlyCourses,
		},
	})
	r.st = s
	return s, nil
}

// Close releases the database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db, r.st = nil, nil
	return err
}

// reportProgress prints updates until the returned channel is closed; done closes after the last one is written.
func (r *Runner) reportProgress() (chan<- tasks.ProgressUpdate, <-chan struct{}) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchTracks, tasks.FetchGoals, tasks.ImportCatalog:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.AwardBadges:
				r.writePlain("🏅 %s\n", update.Message)
			default:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()
	return progressCh, done
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
