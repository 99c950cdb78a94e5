package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/repositories"
	"github.com/desertthunder/cadence/internal/services"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CatalogSync copies the remote track feed, and optionally the goal catalog, into the database.
func (r *Runner) CatalogSync(ctx context.Context, cmd *cli.Command) error {
	st, err := r.repos()
	if err != nil {
		return err
	}

	r.logger.Info("syncing catalog", "catalog", r.catalog.Name(), "refresh", cmd.Bool("refresh"))
	engine := tasks.NewCatalogEngine(r.catalog, repositories.NewTrackCacheAdapter(st.tracks), st.goals)

	progressCh, done := r.reportProgress()
	result, err := engine.SyncTracks(ctx, progressCh, tasks.SyncOpts{
		Refresh:    cmd.Bool("refresh"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  r.config.Catalog.RateLimit,
	})

	goals := 0
	if err == nil && cmd.Bool("goals") {
		goals, err = engine.SyncGoals(ctx, progressCh)
	}
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Catalog Sync Complete")
	r.writePlain("Tracks: %d (%d new, %d updated)\n", result.Total, result.Created, result.Updated)
	if cmd.Bool("goals") {
		r.writePlain("Goals: %d\n", goals)
	}
	r.writeFailures(result.Failed)
	return nil
}

// CatalogImport stores the tracks and goals from a local YAML or JSON catalog file.
func (r *Runner) CatalogImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: catalog file path is required", shared.ErrMissingArgument)
	}

	st, err := r.repos()
	if err != nil {
		return err
	}

	r.logger.Info("importing catalog file", "path", path)
	progressCh, done := r.reportProgress()
	result, err := tasks.ImportFile(path, repositories.NewTrackCacheAdapter(st.tracks), st.goals, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n✓ Imported %d tracks (%d new, %d updated) and %d goals from %s\n",
		result.Created+result.Updated, result.Created, result.Updated, result.Goals, path)
	r.writeFailures(result.Failed)
	return nil
}

func (r *Runner) writeFailures(failed []tasks.TrackError) {
	if len(failed) == 0 {
		return
	}
	r.writePlain("\nFailed (%d):\n", len(failed))
	for _, f := range failed {
		r.writePlain("  - %s\n", f.Error())
	}
}

// CatalogList prints the cached tracks in catalog order.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	criteria := map[string]any{"category": cmd.String("category")}
	if t := cmd.String("type"); t != "" {
		kind, err := models.ParseTrackKind(t)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		criteria["kind"] = kind
	}

	st, err := r.repos()
	if err != nil {
		return err
	}

	tracks, err := st.tracks.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if tracks == nil {
			tracks = []models.Track{}
		}
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	if len(tracks) == 0 {
		r.writePlain("No tracks cached. Run `cadence catalog sync` or `cadence catalog import <file>`.\n")
		return nil
	}

	rows := make([][]string, len(tracks))
	for i, t := range tracks {
		rows[i] = []string{
			strconv.Itoa(i + 1), t.ID, t.Title, t.Artist, string(t.Kind), t.Category,
			shared.FormatDuration(t.Duration),
			services.ResolveAudio(r.config.Catalog.MediaBaseURL, t.AudioLocation),
		}
	}
	r.writePlain("%s\n", renderTable(
		[]string{"#", "ID", "Title", "Artist", "Type", "Category", "Length", "Audio"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}
