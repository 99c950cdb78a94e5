package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/player"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/ui"
	"github.com/gofrs/flock"
	"github.com/urfave/cli/v3"
)

// acquirePlayerLock takes the single-session player lock without blocking.
func acquirePlayerLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire player lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock held at %s)", shared.ErrPlayerBusy, path)
	}
	return lock, nil
}

// Play launches the terminal player over the cached tracks.
//
// Resume positions are loaded before and saved after the session, and whole minutes listened are logged as today's activity.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	lock, err := acquirePlayerLock(r.config.Player.LockPath)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	st, err := r.repos()
	if err != nil {
		return err
	}

	criteria := map[string]any{"category": cmd.String("category")}
	if t := cmd.String("type"); t != "" {
		kind, err := models.ParseTrackKind(t)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		criteria["kind"] = kind
	}

	tracks, err := st.tracks.List(criteria)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%w: no cached tracks match, run `cadence catalog sync` first", shared.ErrTrackNotFound)
	}

	resume, err := st.resume.Load()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Player.LogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	controller := player.New(player.Options{
		Source:    player.NewSyntheticSource(player.TickerScheduler{}, r.config.Player.TickInterval()),
		Resume:    resume,
		Volume:    r.config.Player.Volume,
		SkipDelta: r.config.Player.SkipSeconds,
		Logger:    shared.WithLogger(fileLogger, "component", "player"),
	})

	model := ui.NewPlayerModel(controller, tracks)
	_, runErr := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	controller.Close()

	if err := st.resume.Save(controller.Resume()); err != nil {
		r.logger.Error("failed to save resume positions", "error", err)
	}

	if minutes := model.ListenedSeconds() / 60; minutes > 0 {
		record, awarded, err := st.tracker.LogActivity(st.tracker.Today(), minutes, 0)
		if err != nil {
			return fmt.Errorf("failed to log listening time: %w", err)
		}
		r.writePlain("✓ Logged %d minutes (%d today)\n", minutes, record.MinutesLearned)
		r.writeAwarded(awarded)
	}

	if runErr != nil {
		return fmt.Errorf("error running player: %w", runErr)
	}
	return nil
}

// Dashboard launches the terminal progress dashboard.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	st, err := r.repos()
	if err != nil {
		return err
	}

	fileLogger, err := shared.NewFileLogger(r.config.Player.LogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewDashboardModel(st.tracker)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}
