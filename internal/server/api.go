package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/services"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/tasks"
)

// ProgressTracker is the progress bookkeeping the API reads and records through.
type ProgressTracker interface {
	Today() time.Time
	Snapshot() (*tasks.Snapshot, error)
	Weekly(day time.Time) ([]models.DayMinutes, error)
	LogActivity(day time.Time, minutes, courses int) (models.ActivityRecord, []models.Badge, error)
}

// TrackStore lists locally cached tracks.
type TrackStore interface {
	Get(id string) (models.Track, error)
	List(criteria map[string]any) ([]models.Track, error)
}

// GoalLister lists goal definitions.
type GoalLister interface {
	List(criteria map[string]any) ([]models.Goal, error)
}

// API serves progress and catalog data as JSON.
//
// The track and goal endpoints use the same shapes the catalog client reads, so one cadence instance can
// sync its catalog from another.
type API struct {
	tracker      ProgressTracker
	tracks       TrackStore
	goals        GoalLister
	mediaBaseURL string
}

// APIOpts holds the dependencies of an [API].
type APIOpts struct {
	Tracker      ProgressTracker
	Tracks       TrackStore
	Goals        GoalLister
	MediaBaseURL string
}

// NewAPI creates a new API.
func NewAPI(opts APIOpts) *API {
	return &API{
		tracker:      opts.Tracker,
		tracks:       opts.Tracks,
		goals:        opts.Goals,
		mediaBaseURL: opts.MediaBaseURL,
	}
}

// Register adds every API route to router.
func (a *API) Register(router Router) {
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(a.health))
	router.Handle(http.MethodGet, "/api/progress", http.HandlerFunc(a.progress))
	router.Handle(http.MethodGet, "/api/weekly", http.HandlerFunc(a.weekly))
	router.Handle(http.MethodGet, "/api/badges", http.HandlerFunc(a.badges))
	router.Handle(http.MethodGet, "/api/tracks", http.HandlerFunc(a.listTracks))
	router.Handle(http.MethodGet, "/api/tracks/{id}", http.HandlerFunc(a.getTrack))
	router.Handle(http.MethodGet, "/api/goals", http.HandlerFunc(a.listGoals))
	router.Handle(http.MethodPost, "/api/activity", http.HandlerFunc(a.logActivity))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError responds with {"detail": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, models.ErrInvalidModel):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrTrackNotFound), errors.Is(err, shared.ErrGoalNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ProgressResponse is the body of GET /api/progress.
type ProgressResponse struct {
	Date           string                     `json:"date"`
	Progress       models.DerivedProgressView `json:"progress"`
	Goal           *models.Goal               `json:"goal,omitempty"`
	Enrollment     *models.Enrollment         `json:"enrollment,omitempty"`
	GoalsCompleted int                        `json:"goals_completed"`
	BadgesEarned   int                        `json:"badges_earned"`
	DailyTarget    int                        `json:"daily_minutes_goal"`
	MonthlyTarget  int                        `json:"monthly_courses_goal"`
}

func (a *API) progress(w http.ResponseWriter, r *http.Request) {
	snap, err := a.tracker.Snapshot()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ProgressResponse{
		Date:           shared.FormatDay(snap.Today),
		Progress:       snap.View,
		Goal:           snap.Goal,
		Enrollment:     snap.Enrollment,
		GoalsCompleted: snap.GoalsCompleted,
		BadgesEarned:   snap.BadgesEarned,
		DailyTarget:    snap.Targets.DailyTarget,
		MonthlyTarget:  snap.Targets.MonthlyTarget,
	})
}

// weekly serves the week containing ?week=YYYY-MM-DD, defaulting to the current week.
func (a *API) weekly(w http.ResponseWriter, r *http.Request) {
	day := a.tracker.Today()
	if s := r.URL.Query().Get("week"); s != "" {
		d, err := shared.ParseDay(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		day = d
	}

	week, err := a.tracker.Weekly(day)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, week)
}

func (a *API) badges(w http.ResponseWriter, r *http.Request) {
	snap, err := a.tracker.Snapshot()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap.Badges)
}

// TrackResponse is a track with its audio location resolved to a URL.
type TrackResponse struct {
	models.Track
	AudioURL string `json:"audio_url,omitempty"`
}

func (a *API) trackResponse(t models.Track) TrackResponse {
	return TrackResponse{Track: t, AudioURL: services.ResolveAudio(a.mediaBaseURL, t.AudioLocation)}
}

// listTracks serves cached tracks, optionally filtered by ?type= and ?category=.
func (a *API) listTracks(w http.ResponseWriter, r *http.Request) {
	criteria := map[string]any{}
	if s := r.URL.Query().Get("type"); s != "" {
		kind, err := models.ParseTrackKind(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		criteria["kind"] = kind
	}
	if s := r.URL.Query().Get("category"); s != "" {
		criteria["category"] = s
	}

	tracks, err := a.tracks.List(criteria)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	out := make([]TrackResponse, len(tracks))
	for i, t := range tracks {
		out[i] = a.trackResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getTrack(w http.ResponseWriter, r *http.Request) {
	t, err := a.tracks.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a.trackResponse(t))
}

func (a *API) listGoals(w http.ResponseWriter, r *http.Request) {
	criteria := map[string]any{}
	if s := r.URL.Query().Get("category"); s != "" {
		criteria["category"] = s
	}
	goals, err := a.goals.List(criteria)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if goals == nil {
		goals = []models.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

// ActivityRequest is the body of POST /api/activity. Date defaults to today.
type ActivityRequest struct {
	Date    string `json:"date,omitempty"`
	Minutes int    `json:"minutes"`
	Courses int    `json:"courses"`
}

// ActivityResponse reports the updated day and any badges it earned.
type ActivityResponse struct {
	Record  models.ActivityRecord `json:"record"`
	Awarded []models.Badge        `json:"awarded"`
}

func (a *API) logActivity(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	day := a.tracker.Today()
	if req.Date != "" {
		d, err := shared.ParseDay(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		day = d
	}

	record, awarded, err := a.tracker.LogActivity(day, req.Minutes, req.Courses)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if awarded == nil {
		awarded = []models.Badge{}
	}
	writeJSON(w, http.StatusCreated, ActivityResponse{Record: record, Awarded: awarded})
}
