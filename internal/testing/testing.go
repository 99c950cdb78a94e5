// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
)

// MockCatalog is a test double for [services.Catalog]
type MockCatalog struct {
	TrackList []models.Track
	GoalList  []models.Goal

	TracksErr error
	TrackErr  map[string]error // per-ID failures for Track
	GoalsErr  error

	mu         sync.Mutex
	trackCalls int
}

func (m *MockCatalog) Name() string { return "mock" }

func (m *MockCatalog) Tracks(ctx context.Context) ([]models.Track, error) {
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}
	return append([]models.Track(nil), m.TrackList...), nil
}

func (m *MockCatalog) Track(ctx context.Context, id string) (models.Track, error) {
	m.mu.Lock()
	m.trackCalls++
	m.mu.Unlock()

	if err := m.TrackErr[id]; err != nil {
		return models.Track{}, err
	}
	for _, t := range m.TrackList {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Track{}, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
}

func (m *MockCatalog) Goals(ctx context.Context) ([]models.Goal, error) {
	if m.GoalsErr != nil {
		return nil, m.GoalsErr
	}
	return append([]models.Goal(nil), m.GoalList...), nil
}

// TrackCalls reports how many times Track was called.
func (m *MockCatalog) TrackCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trackCalls
}

// MustOpenDB creates an in-memory SQLite database with migrations applied, closed when the test ends.
func MustOpenDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// Day parses a YYYY-MM-DD literal, panicking on malformed input.
func Day(s string) time.Time {
	d, err := shared.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
