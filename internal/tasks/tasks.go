package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/services"
	"github.com/desertthunder/cadence/internal/shared"
	"golang.org/x/time/rate"
)

// TrackCacher stores catalog tracks locally. Reports whether a track was new.
type TrackCacher interface {
	CacheTrack(track models.Track) (bool, error)
}

// GoalStore persists goal definitions.
type GoalStore interface {
	Get(id string) (models.Goal, error)
	Create(goal models.Goal) error
	Update(goal models.Goal) error
}

// SyncOpts configure [CatalogEngine.SyncTracks].
type SyncOpts struct {
	Refresh    bool    // Fetch each track individually after reading the feed
	NumWorkers int     // Concurrent refresh workers (default: 3, max: 10)
	RateLimit  float64 // Refresh requests per second (default: 5)
}

// SyncResult summarizes a catalog sync.
type SyncResult struct {
	Total   int
	Created int
	Updated int
	Failed  []TrackError
}

// TrackError is a track that could not be refreshed or stored.
type TrackError struct {
	TrackID string
	Err     error
}

func (e TrackError) Error() string {
	return fmt.Sprintf("%s: %v", e.TrackID, e.Err)
}

func (e TrackError) Unwrap() error { return e.Err }

// CatalogEngine copies the remote catalog into local storage.
type CatalogEngine struct {
	catalog services.Catalog
	tracks  TrackCacher
	goals   GoalStore
}

// NewCatalogEngine creates a new CatalogEngine. goals may be nil when only tracks are synced.
func NewCatalogEngine(catalog services.Catalog, tracks TrackCacher, goals GoalStore) *CatalogEngine {
	return &CatalogEngine{catalog: catalog, tracks: tracks, goals: goals}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// SyncTracks fetches the track feed and caches every track.
//
// With opts.Refresh each feed entry is re-fetched through a rate-limited worker pool before caching.
// Individual failures are collected in the result; only a failed feed fetch aborts the sync.
func (e *CatalogEngine) SyncTracks(ctx context.Context, progress chan<- ProgressUpdate, opts SyncOpts) (*SyncResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if e.tracks == nil {
		return nil, fmt.Errorf("%w: track store not initialized", shared.ErrServiceUnavailable)
	}

	sendProgress(progress, fetchTracksUpdate(e.catalog.Name()))

	result := &SyncResult{}
	feed, err := e.catalog.Tracks(ctx)
	if err != nil {
		if len(feed) == 0 {
			return nil, fmt.Errorf("failed to fetch track feed: %w", err)
		}
		result.Failed = append(result.Failed, TrackError{TrackID: "feed", Err: err})
	}

	if opts.Refresh {
		refreshed, failed := e.refresh(ctx, progress, feed, opts)
		feed = refreshed
		result.Failed = append(result.Failed, failed...)
	}

	result.Total = len(feed)
	for i, track := range feed {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		created, err := e.tracks.CacheTrack(track)
		if err != nil {
			result.Failed = append(result.Failed, TrackError{TrackID: track.ID, Err: err})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
		sendProgress(progress, storeTrackUpdate(i+1, len(feed), track, created))
	}

	return result, nil
}

type refreshResult struct {
	index int
	track models.Track
	err   error
}

// refresh re-fetches each track with a worker pool, keeping feed order in the output.
func (e *CatalogEngine) refresh(ctx context.Context, progress chan<- ProgressUpdate, feed []models.Track, opts SyncOpts) ([]models.Track, []TrackError) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan int, len(feed))
	results := make(chan refreshResult, len(feed))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					results <- refreshResult{index: i, track: feed[i], err: err}
					continue
				}
				track, err := e.catalog.Track(ctx, feed[i].ID)
				if err != nil {
					track = feed[i]
				}
				results <- refreshResult{index: i, track: track, err: err}
			}
		}()
	}

	for i := range feed {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	refreshed := make([]*models.Track, len(feed))
	var failed []TrackError
	completed := 0
	for res := range results {
		completed++
		sendProgress(progress, refreshTrackUpdate(completed, len(feed), res.track, res.err))
		if res.err != nil {
			failed = append(failed, TrackError{TrackID: res.track.ID, Err: res.err})
			continue
		}
		t := res.track
		refreshed[res.index] = &t
	}

	out := make([]models.Track, 0, len(feed))
	for _, t := range refreshed {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out, failed
}

// SyncGoals fetches goal definitions and creates or updates each locally. Returns the number stored.
func (e *CatalogEngine) SyncGoals(ctx context.Context, progress chan<- ProgressUpdate) (int, error) {
	if e.catalog == nil || e.goals == nil {
		return 0, fmt.Errorf("%w: goal sync not configured", shared.ErrServiceUnavailable)
	}

	sendProgress(progress, fetchGoalsUpdate(e.catalog.Name()))
	goals, err := e.catalog.Goals(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch goals: %w", err)
	}
	return storeGoals(e.goals, goals, progress)
}

func storeGoals(store GoalStore, goals []models.Goal, progress chan<- ProgressUpdate) (int, error) {
	var errs []error
	stored := 0
	for i, g := range goals {
		var err error
		if _, getErr := store.Get(g.ID); errors.Is(getErr, shared.ErrGoalNotFound) {
			err = store.Create(g)
		} else if getErr != nil {
			err = getErr
		} else {
			err = store.Update(g)
		}

		if err != nil {
			errs = append(errs, fmt.Errorf("goal %s: %w", g.ID, err))
			continue
		}
		stored++
		sendProgress(progress, storeGoalUpdate(i+1, len(goals), g))
	}
	return stored, errors.Join(errs...)
}
