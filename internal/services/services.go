package services

import (
	"context"

	"github.com/desertthunder/cadence/internal/models"
)

// Catalog supplies track and goal metadata.
type Catalog interface {
	// Tracks retrieves the full track feed in catalog order.
	Tracks(ctx context.Context) ([]models.Track, error)

	// Track retrieves a single track by ID.
	Track(ctx context.Context, id string) (models.Track, error)

	// Goals retrieves learning goal definitions.
	Goals(ctx context.Context) ([]models.Goal, error)

	// Name returns the name of the catalog
	Name() string
}

// TrackFeedItem is one entry of the catalog's track feed.
type TrackFeedItem struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	Artist        string `json:"artist" yaml:"artist"`
	Type          string `json:"type" yaml:"type"`
	Category      string `json:"category,omitempty" yaml:"category,omitempty"`
	Duration      int    `json:"duration" yaml:"duration"`
	AudioLocation string `json:"audio_location,omitempty" yaml:"audio_location,omitempty"`
}

// Track converts the feed item, normalizing its type.
func (f TrackFeedItem) Track() (models.Track, error) {
	kind, err := models.ParseTrackKind(f.Type)
	if err != nil {
		return models.Track{}, err
	}
	t := models.Track{
		ID:            f.ID,
		Title:         f.Title,
		Artist:        f.Artist,
		Kind:          kind,
		Category:      f.Category,
		Duration:      f.Duration,
		AudioLocation: f.AudioLocation,
	}
	return t, t.Validate()
}
