package tasks

import (
	"fmt"

	"github.com/desertthunder/cadence/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTracks Phase = iota
	RefreshTracks
	StoreTracks
	FetchGoals
	StoreGoals
	ImportCatalog
	AwardBadges
)

func (p Phase) String() string {
	switch p {
	case FetchTracks:
		return "fetch_tracks"
	case RefreshTracks:
		return "refresh_tracks"
	case StoreTracks:
		return "store_tracks"
	case FetchGoals:
		return "fetch_goals"
	case StoreGoals:
		return "store_goals"
	case ImportCatalog:
		return "import_catalog"
	case AwardBadges:
		return "award_badges"
	default:
		return ""
	}
}

func fetchTracksUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching track feed from %s...", name),
	}
}

func refreshTrackUpdate(step, total int, tr models.Track, err error) ProgressUpdate {
	if err != nil {
		return ProgressUpdate{
			Phase:   RefreshTracks,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, tr.ID, err),
		}
	}
	return ProgressUpdate{
		Phase:   RefreshTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.Artist, tr.Title),
		Data:    tr,
	}
}

func storeTrackUpdate(step, total int, tr models.Track, created bool) ProgressUpdate {
	verb := "Updated"
	if created {
		verb = "Added"
	}
	return ProgressUpdate{
		Phase:   StoreTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s (%s)", step, total, verb, tr.Title, tr.Kind),
	}
}

func fetchGoalsUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchGoals,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching learning goals from %s...", name),
	}
}

func storeGoalUpdate(step, total int, g models.Goal) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StoreGoals,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s (%d days)", step, total, g.Title, g.EstimatedDays),
	}
}

func importFileUpdate(path string, tracks, goals int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Read %s: %d tracks, %d goals", path, tracks, goals),
	}
}

func badgeAwardedUpdate(step, total int, b models.Badge) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AwardBadges,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Badge earned: %s (%s)", b.Name, b.Tier),
		Data:    b,
	}
}
