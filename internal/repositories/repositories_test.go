package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/museekly/internal/models"
	"github.com/desertthunder/museekly/internal/search"
	"github.com/desertthunder/museekly/internal/shared"
	tu "github.com/desertthunder/museekly/internal/testing"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

var queen = models.Query{Artist: "Queen", Title: "Bohemian Rhapsody"}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "searches")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "nonexistent"); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown table, got %v", err)
	}
}

func TestSearchRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		record := models.NewSearchRecord(0, queen, models.SearchSucceeded, "", "Is this the real life...")

		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create search: %v", err)
		}

		if record.ID() == "" {
			t.Error("search ID should be set after creation")
		}
		if record.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", record.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		record := models.NewSearchRecord(0, queen, models.SearchSucceeded, "", "Is this the real life...")
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create search: %v", err)
		}

		retrieved, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get search: %v", err)
		}

		if retrieved.Query() != queen {
			t.Errorf("expected query %+v, got %+v", queen, retrieved.Query())
		}
		if retrieved.Lyrics() != "Is this the real life..." {
			t.Errorf("unexpected lyrics %q", retrieved.Lyrics())
		}
		if retrieved.Status() != models.SearchSucceeded {
			t.Errorf("expected status success, got %s", retrieved.Status())
		}
		if retrieved.CreatedAt().IsZero() {
			t.Error("created_at should be set")
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		record := models.NewSearchRecord(0, queen, models.SearchFailed, "Failed to fetch lyrics. Please try again later.", "")
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create search: %v", err)
		}

		record.SetMessage("No lyrics found. Please check spelling or try another song.")
		if err := repo.Update(record); err != nil {
			t.Fatalf("failed to update search: %v", err)
		}

		retrieved, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get search: %v", err)
		}
		if retrieved.Message() != "No lyrics found. Please check spelling or try another song." {
			t.Errorf("message not updated: %q", retrieved.Message())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		record := models.NewSearchRecord(0, queen, models.SearchSucceeded, "", "lyrics")
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create search: %v", err)
		}

		if err := repo.Delete(record.ID()); err != nil {
			t.Fatalf("failed to delete search: %v", err)
		}

		if _, err := repo.Get(record.ID()); !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound after delete, got %v", err)
		}

		if err := repo.Delete(record.ID()); !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound deleting twice, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		records := []*models.SearchRecord{
			models.NewSearchRecord(0, queen, models.SearchSucceeded, "", "one"),
			models.NewSearchRecord(0, models.Query{Artist: "Nobody", Title: "Nothing"}, models.SearchFailed, "No lyrics found. Please check spelling or try another song.", ""),
			models.NewSearchRecord(0, models.Query{Artist: "ABBA", Title: "Waterloo"}, models.SearchSucceeded, "", "three"),
		}
		for _, r := range records {
			if err := repo.Create(r); err != nil {
				t.Fatalf("failed to create search: %v", err)
			}
		}

		t.Run("newest first", func(t *testing.T) {
			all, err := repo.List(map[string]any{})
			if err != nil {
				t.Fatalf("failed to list searches: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("expected 3 searches, got %d", len(all))
			}
			if all[0].Artist() != "ABBA" || all[2].Artist() != "Queen" {
				t.Errorf("unexpected order: %s, %s, %s", all[0].Artist(), all[1].Artist(), all[2].Artist())
			}
		})

		t.Run("by status", func(t *testing.T) {
			failed, err := repo.List(map[string]any{"status": models.SearchFailed})
			if err != nil {
				t.Fatalf("failed to list searches: %v", err)
			}
			if len(failed) != 1 || failed[0].Artist() != "Nobody" {
				t.Errorf("expected only the failed search, got %d", len(failed))
			}

			succeeded, err := repo.List(map[string]any{"status": "success"})
			if err != nil {
				t.Fatalf("failed to list searches: %v", err)
			}
			if len(succeeded) != 2 {
				t.Errorf("expected 2 successful searches, got %d", len(succeeded))
			}
		})

		t.Run("with limit", func(t *testing.T) {
			limited, err := repo.List(map[string]any{"limit": 2})
			if err != nil {
				t.Fatalf("failed to list searches: %v", err)
			}
			if len(limited) != 2 {
				t.Errorf("expected 2 searches, got %d", len(limited))
			}
		})
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		for range 2 {
			if err := repo.Create(models.NewSearchRecord(0, queen, models.SearchSucceeded, "", "lyrics")); err != nil {
				t.Fatalf("failed to create search: %v", err)
			}
		}

		n, err := repo.Clear()
		if err != nil {
			t.Fatalf("failed to clear searches: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 cleared, got %d", n)
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list searches: %v", err)
		}
		if len(all) != 0 {
			t.Errorf("expected empty history, got %d", len(all))
		}
	})
}

func TestSearchRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSearchRepository(db)
			record := models.NewSearchRecord(0, models.Query{Title: "x"}, models.SearchSucceeded, "", "")

			if err := repo.Create(record); !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			repo := NewSearchRepository(db)
			if err := repo.Create(models.NewSearchRecord(0, queen, models.SearchSucceeded, "", "")); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			if _, err := NewSearchRepository(db).Get("nonexistent-id"); !errors.Is(err, shared.ErrRecordNotFound) {
				t.Fatalf("expected ErrRecordNotFound, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			record := models.NewSearchRecord(0, queen, models.SearchSucceeded, "", "")
			record.SetID("nonexistent-id")

			if err := NewSearchRepository(db).Update(record); !errors.Is(err, shared.ErrRecordNotFound) {
				t.Fatalf("expected ErrRecordNotFound, got %v", err)
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			if _, err := NewSearchRepository(db).List(nil); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})
}

func TestHistoryRecorder(t *testing.T) {
	ctx := context.Background()

	t.Run("records controller outcomes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		lookup := &tu.MockLookup{
			Lyrics: map[string]string{"Queen|Bohemian Rhapsody": "Is this the real life..."},
			Err:    errors.New("No lyrics found. Please check spelling or try another song."),
		}
		c := search.NewController(lookup, search.Options{Recorder: NewHistoryRecorder(repo)})

		c.SetField(search.FieldArtist, "Queen")
		c.SetField(search.FieldTitle, "Bohemian Rhapsody")
		if _, err := c.Submit(ctx); err != nil {
			t.Fatalf("submit failed: %v", err)
		}

		c.SetField(search.FieldArtist, "Nobody")
		if _, err := c.Submit(ctx); err != nil {
			t.Fatalf("submit failed: %v", err)
		}

		c.SetField(search.FieldArtist, "")
		if _, err := c.Submit(ctx); err == nil {
			t.Fatal("expected validation error")
		}

		records, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list searches: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].Status() != models.SearchFailed || records[0].Artist() != "Nobody" {
			t.Errorf("unexpected newest record: %+v", records[0].JSON())
		}
		if records[1].Lyrics() != "Is this the real life..." {
			t.Errorf("unexpected lyrics %q", records[1].Lyrics())
		}
	})

	t.Run("ignores idle and loading", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		h := NewHistoryRecorder(repo)
		if err := h.Record(ctx, queen, search.IdleResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := h.Record(ctx, queen, search.LoadingResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, _ := repo.List(nil)
		if len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := NewHistoryRecorder(NewSearchRepository(db)).Record(cctx, queen, search.FailureResult("boom"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
