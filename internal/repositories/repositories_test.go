package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func date(s string) time.Time {
	d, err := shared.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := NextSequence(db, "tracks")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	second, err := NextSequence(db, "tracks")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	if second != first+1 {
		t.Errorf("expected consecutive sequences, got %d then %d", first, second)
	}

	goal, err := NextSequence(db, "goals")
	if err != nil {
		t.Fatalf("failed to get goal sequence: %v", err)
	}
	if goal != 11 {
		t.Errorf("expected goal sequence to continue after seeds, got %d", goal)
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for unknown sequence table")
	}
}

func TestTrackRepository(t *testing.T) {
	song := models.Track{ID: "S-001", Title: "Eye of the Tiger", Artist: "Survivor", Kind: models.KindSong, Category: "Motivation", Duration: 246}
	clip := models.Track{ID: "P-001", Title: "Growth Mindset", Artist: "Ali Abdaal", Kind: models.KindPodcast, Duration: 480, AudioLocation: "clips/p1.mp3"}

	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		got, err := repo.Get(song.ID)
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}
		if got != song {
			t.Errorf("expected %+v, got %+v", song, got)
		}
	})

	t.Run("Create rejects invalid and duplicate tracks", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		if err := repo.Create(models.Track{ID: "X", Kind: models.KindSong}); err == nil {
			t.Error("expected validation error for missing title")
		}
		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}
		if err := repo.Create(song); err == nil {
			t.Error("expected error for duplicate id")
		}
	})

	t.Run("Get NotFound", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewTrackRepository(db).Get("nope")
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		updated := song
		updated.Duration = 250
		if err := repo.Update(updated); err != nil {
			t.Fatalf("failed to update track: %v", err)
		}
		got, _ := repo.Get(song.ID)
		if got.Duration != 250 {
			t.Errorf("expected duration 250, got %d", got.Duration)
		}

		if err := repo.Update(clip); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound for missing track, got %v", err)
		}
	})

	t.Run("Delete & Upsert revives", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}
		if err := repo.Delete(song.ID); err != nil {
			t.Fatalf("failed to delete track: %v", err)
		}
		if _, err := repo.Get(song.ID); err == nil {
			t.Error("expected error when getting deleted track")
		}
		if err := repo.Delete(song.ID); err == nil {
			t.Error("expected error deleting twice")
		}

		created, err := repo.Upsert(song)
		if err != nil {
			t.Fatalf("failed to upsert: %v", err)
		}
		if created {
			t.Error("expected upsert of existing row to report an update")
		}
		if _, err := repo.Get(song.ID); err != nil {
			t.Errorf("expected revived track, got %v", err)
		}

		created, err = repo.Upsert(clip)
		if err != nil || !created {
			t.Errorf("expected new track created, got %v, %v", created, err)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		for _, tr := range []models.Track{song, clip} {
			if err := repo.Create(tr); err != nil {
				t.Fatalf("failed to create track: %v", err)
			}
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(all) != 2 || all[0].ID != song.ID {
			t.Errorf("expected tracks in insertion order, got %+v", all)
		}

		podcasts, err := repo.List(map[string]any{"kind": models.KindPodcast})
		if err != nil {
			t.Fatalf("failed to list podcasts: %v", err)
		}
		if len(podcasts) != 1 || podcasts[0].ID != clip.ID {
			t.Errorf("expected only the podcast, got %+v", podcasts)
		}

		byCategory, _ := repo.List(map[string]any{"category": "Motivation"})
		if len(byCategory) != 1 {
			t.Errorf("expected one Motivation track, got %d", len(byCategory))
		}
	})

	t.Run("TrackCacheAdapter", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		cache := NewTrackCacheAdapter(NewTrackRepository(db))
		created, err := cache.CacheTrack(song)
		if err != nil || !created {
			t.Fatalf("expected first cache to create, got %v, %v", created, err)
		}
		created, err = cache.CacheTrack(song)
		if err != nil || created {
			t.Errorf("expected second cache to update, got %v, %v", created, err)
		}
		if _, err := cache.CacheTrack(models.Track{ID: "bad"}); err == nil {
			t.Error("expected error for invalid track")
		}
	})
}

func TestGoalRepository(t *testing.T) {
	t.Run("seeded goals", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGoalRepository(db)
		goals, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list goals: %v", err)
		}
		if len(goals) != 10 {
			t.Fatalf("expected 10 seeded goals, got %d", len(goals))
		}

		first := goals[0]
		if first.ID != "LG-001" || first.EstimatedDays != 30 || len(first.Tags) != 3 {
			t.Errorf("unexpected first goal %+v", first)
		}

		wellness, _ := repo.List(map[string]any{"category": "Wellness"})
		if len(wellness) != 2 {
			t.Errorf("expected 2 wellness goals, got %d", len(wellness))
		}
	})

	t.Run("CRUD", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGoalRepository(db)
		goal := models.Goal{ID: "LG-100", Title: "Learn Go", Category: "Technology", EstimatedDays: 14, Difficulty: "beginner", Tags: []string{"go"}}
		if err := repo.Create(goal); err != nil {
			t.Fatalf("failed to create goal: %v", err)
		}

		goal.EstimatedDays = 21
		if err := repo.Update(goal); err != nil {
			t.Fatalf("failed to update goal: %v", err)
		}
		got, err := repo.Get(goal.ID)
		if err != nil {
			t.Fatalf("failed to get goal: %v", err)
		}
		if got.EstimatedDays != 21 || got.Tags[0] != "go" {
			t.Errorf("unexpected goal %+v", got)
		}

		if err := repo.Delete(goal.ID); err != nil {
			t.Fatalf("failed to delete goal: %v", err)
		}
		if _, err := repo.Get(goal.ID); !errors.Is(err, shared.ErrGoalNotFound) {
			t.Errorf("expected ErrGoalNotFound, got %v", err)
		}
	})
}

func TestEnrollmentRepository(t *testing.T) {
	t.Run("one active enrollment", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewEnrollmentRepository(db)
		if _, err := repo.Active(); !errors.Is(err, shared.ErrNoActiveGoal) {
			t.Fatalf("expected ErrNoActiveGoal, got %v", err)
		}

		e := &models.Enrollment{GoalID: "LG-001", StartedOn: date("2025-10-16")}
		if err := repo.Create(e); err != nil {
			t.Fatalf("failed to create enrollment: %v", err)
		}
		if e.ID == "" || e.CurrentDay != 1 || e.Status != models.StatusActive {
			t.Errorf("expected defaults applied, got %+v", e)
		}

		err := repo.Create(&models.Enrollment{GoalID: "LG-002", StartedOn: date("2025-10-17")})
		if !errors.Is(err, shared.ErrActiveGoalExists) {
			t.Errorf("expected ErrActiveGoalExists, got %v", err)
		}

		active, err := repo.Active()
		if err != nil {
			t.Fatalf("failed to get active enrollment: %v", err)
		}
		if active.ID != e.ID || !active.StartedOn.Equal(date("2025-10-16")) {
			t.Errorf("unexpected active enrollment %+v", active)
		}
	})

	t.Run("complete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewEnrollmentRepository(db)
		e := &models.Enrollment{GoalID: "LG-008", StartedOn: date("2025-10-01")}
		if err := repo.Create(e); err != nil {
			t.Fatalf("failed to create enrollment: %v", err)
		}

		done := date("2025-10-14")
		e.CurrentDay = 14
		e.Status = models.StatusCompleted
		e.CompletedOn = &done
		if err := repo.Update(e); err != nil {
			t.Fatalf("failed to update enrollment: %v", err)
		}

		got, err := repo.Get(e.ID)
		if err != nil {
			t.Fatalf("failed to get enrollment: %v", err)
		}
		if got.CompletedOn == nil || !got.CompletedOn.Equal(done) || got.CurrentDay != 14 {
			t.Errorf("unexpected enrollment %+v", got)
		}

		n, err := repo.CountCompleted()
		if err != nil || n != 1 {
			t.Errorf("expected 1 completed, got %d (%v)", n, err)
		}

		completed, _ := repo.List(map[string]any{"status": models.StatusCompleted})
		if len(completed) != 1 {
			t.Errorf("expected 1 completed enrollment, got %d", len(completed))
		}

		if _, err := repo.Active(); !errors.Is(err, shared.ErrNoActiveGoal) {
			t.Errorf("expected no active goal after completion, got %v", err)
		}
	})

	t.Run("unknown goal", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		err := NewEnrollmentRepository(db).Create(&models.Enrollment{GoalID: "LG-404", StartedOn: date("2025-10-01")})
		if err == nil {
			t.Error("expected foreign key error")
		}
	})
}

func TestActivityRepository(t *testing.T) {
	t.Run("Upsert replaces", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewActivityRepository(db)
		day := date("2025-11-02")
		if err := repo.Upsert(models.ActivityRecord{Date: day, MinutesLearned: 15}); err != nil {
			t.Fatalf("failed to upsert: %v", err)
		}
		if err := repo.Upsert(models.ActivityRecord{Date: day, MinutesLearned: 40, CoursesCompleted: 1}); err != nil {
			t.Fatalf("failed to upsert: %v", err)
		}

		got, err := repo.Get(day)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if got.MinutesLearned != 40 || got.CoursesCompleted != 1 {
			t.Errorf("expected replaced record, got %+v", got)
		}

		all, _ := repo.All()
		if len(all) != 1 {
			t.Errorf("expected one row per day, got %d", len(all))
		}
	})

	t.Run("Add accumulates", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewActivityRepository(db)
		day := date("2025-11-02")
		if _, err := repo.Add(day, 10, 0); err != nil {
			t.Fatalf("failed to add: %v", err)
		}
		got, err := repo.Add(day, 5, 1)
		if err != nil {
			t.Fatalf("failed to add: %v", err)
		}
		if got.MinutesLearned != 15 || got.CoursesCompleted != 1 || !got.Date.Equal(day) {
			t.Errorf("unexpected record %+v", got)
		}

		if _, err := repo.Add(day, -1, 0); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Get missing day", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		got, err := NewActivityRepository(db).Get(date("2025-01-01"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.MinutesLearned != 0 || !got.Date.Equal(date("2025-01-01")) {
			t.Errorf("expected zero record, got %+v", got)
		}
	})

	t.Run("Range", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewActivityRepository(db)
		for _, d := range []string{"2025-11-05", "2025-10-31", "2025-11-01", "2025-11-10"} {
			if err := repo.Upsert(models.ActivityRecord{Date: date(d), MinutesLearned: 10}); err != nil {
				t.Fatalf("failed to upsert: %v", err)
			}
		}

		got, err := repo.Range(date("2025-11-01"), date("2025-11-09"))
		if err != nil {
			t.Fatalf("failed to range: %v", err)
		}
		if len(got) != 2 || !got[0].Date.Equal(date("2025-11-01")) || !got[1].Date.Equal(date("2025-11-05")) {
			t.Errorf("unexpected range %+v", got)
		}

		if err := repo.Delete(date("2025-11-05")); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if err := repo.Delete(date("2025-11-05")); err == nil {
			t.Error("expected error deleting missing day")
		}
	})
}

func TestBadgeRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewBadgeRepository(db)
	awarded, err := repo.Award("B-001", date("2025-10-17"))
	if err != nil || !awarded {
		t.Fatalf("expected first award, got %v, %v", awarded, err)
	}
	awarded, err = repo.Award("B-001", date("2025-10-20"))
	if err != nil || awarded {
		t.Errorf("expected repeat award to be ignored, got %v, %v", awarded, err)
	}

	earned, err := repo.Earned()
	if err != nil {
		t.Fatalf("failed to list earned: %v", err)
	}
	if d, ok := earned["B-001"]; !ok || !d.Equal(date("2025-10-17")) {
		t.Errorf("expected original earned date kept, got %v", earned)
	}

	if err := repo.Revoke("B-001"); err != nil {
		t.Fatalf("failed to revoke: %v", err)
	}
	if err := repo.Revoke("B-001"); err == nil {
		t.Error("expected error revoking unearned badge")
	}
}

func TestResumeRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewResumeRepository(db)
	if err := repo.Save(map[string]int{"S-001": 42, "P-001": 0}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := repo.Save(map[string]int{"S-001": 50, "S-002": -3}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	positions, err := repo.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	want := map[string]int{"S-001": 50, "P-001": 0, "S-002": 0}
	if len(positions) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), positions)
	}
	for id, pos := range want {
		if positions[id] != pos {
			t.Errorf("position[%s] = %d, want %d", id, positions[id], pos)
		}
	}

	if pos, err := repo.Position("missing"); err != nil || pos != 0 {
		t.Errorf("expected miss to be 0, got %d (%v)", pos, err)
	}
}
