package repositories

import (
	"fmt"

	"github.com/desertthunder/cadence/internal/models"
)

// TrackCacheAdapter implements tasks.TrackCacher using TrackRepository.
//
// Catalog tracks are keyed by their catalog ID, so repeated syncs overwrite rather than duplicate.
type TrackCacheAdapter struct {
	repo *TrackRepository
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// CacheTrack stores track and reports whether it was new.
func (a *TrackCacheAdapter) CacheTrack(track models.Track) (bool, error) {
	created, err := a.repo.Upsert(track)
	if err != nil {
		return false, fmt.Errorf("failed to cache track %s: %w", track.ID, err)
	}
	return created, nil
}
