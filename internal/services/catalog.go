// Learning catalog [Catalog] implementation
//
// Communicates with the catalog HTTP API, authenticating with OAuth2 client credentials when configured.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultCatalogBaseURL string = "http://localhost:8080"

// CatalogService implements the Catalog interface over HTTP.
type CatalogService struct {
	baseURL      string
	mediaBaseURL string
	httpClient   *http.Client
}

// NewCatalogService creates a catalog client from cfg.
//
// With a client ID and secret, requests carry tokens from the client credentials flow at cfg.TokenURL.
func NewCatalogService(ctx context.Context, cfg shared.CatalogConfig, client *http.Client) *CatalogService {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultCatalogBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		if cc.TokenURL == "" {
			cc.TokenURL = baseURL + "/oauth/token"
		}
		ctx = context.WithValue(ctx, oauth2.HTTPClient, client)
		client = cc.Client(ctx)
	}

	return &CatalogService{
		baseURL:      baseURL,
		mediaBaseURL: strings.TrimRight(cfg.MediaBaseURL, "/"),
		httpClient:   client,
	}
}

// Name returns the service name.
func (c *CatalogService) Name() string {
	return "Catalog"
}

func (c *CatalogService) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return &StatusError{Code: resp.StatusCode, Detail: errResp.Detail}
		}
		return &StatusError{Code: resp.StatusCode}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Tracks retrieves the track feed.
//
// Calls GET /api/tracks. Items that fail validation are skipped and reported together in the returned error,
// alongside the valid tracks.
func (c *CatalogService) Tracks(ctx context.Context) ([]models.Track, error) {
	var feed []TrackFeedItem
	if err := c.doRequest(ctx, "/api/tracks", &feed); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(feed))
	var errs []error
	for _, item := range feed {
		t, err := item.Track()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks, errors.Join(errs...)
}

// Track retrieves one track.
//
// Calls GET /api/tracks/{id}.
func (c *CatalogService) Track(ctx context.Context, id string) (models.Track, error) {
	var item TrackFeedItem
	err := c.doRequest(ctx, "/api/tracks/"+url.PathEscape(id), &item)

	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return models.Track{}, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}
	if err != nil {
		return models.Track{}, err
	}
	return item.Track()
}

// Goals retrieves learning goal definitions.
//
// Calls GET /api/goals.
func (c *CatalogService) Goals(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	if err := c.doRequest(ctx, "/api/goals", &goals); err != nil {
		return nil, err
	}
	for _, g := range goals {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}
	return goals, nil
}

// ResolveAudio returns the absolute URL for a track's audio, or "" when it has none.
func (c *CatalogService) ResolveAudio(t models.Track) string {
	return ResolveAudio(c.mediaBaseURL, t.AudioLocation)
}

// ResolveAudio joins location onto base unless location is already absolute.
func ResolveAudio(base, location string) string {
	if location == "" {
		return ""
	}
	if u, err := url.Parse(location); err == nil && u.IsAbs() {
		return location
	}
	if base == "" {
		return location
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(location, "/")
}

// StatusError is a non-2xx catalog response.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("catalog API error (status %d): %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("catalog API error: status %d", e.Code)
}

func (e *StatusError) Unwrap() error { return shared.ErrAPIRequest }

var _ Catalog = (*CatalogService)(nil)
