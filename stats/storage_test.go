package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStorage(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "stats-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	storage, err := NewStorage(tempDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer storage.Shutdown()

	t.Run("Record", func(t *testing.T) {
		storage.Record(OutcomeSuccess, 120)
		storage.Record(OutcomeInvalidURL, 0)
		storage.Record(OutcomeFetchError, 40)

		stats := storage.GetCurrentStats()
		if stats.Analyses != 3 {
			t.Errorf("Expected 3 analyses, got %d", stats.Analyses)
		}
		if stats.Succeeded != 1 {
			t.Errorf("Expected 1 success, got %d", stats.Succeeded)
		}
		if stats.InvalidURLErrors != 1 {
			t.Errorf("Expected 1 invalid URL error, got %d", stats.InvalidURLErrors)
		}
		if stats.FetchErrors != 1 {
			t.Errorf("Expected 1 fetch error, got %d", stats.FetchErrors)
		}
	})

	t.Run("Derived", func(t *testing.T) {
		stats := storage.GetCurrentStats()
		if rate := stats.ErrorRate(); rate < 66 || rate > 67 {
			t.Errorf("Expected error rate around 66.7, got %f", rate)
		}
		if avg := stats.AverageLoadTimeMs(); avg <= 0 {
			t.Errorf("Expected positive average load time, got %f", avg)
		}
	})

	t.Run("Visitors", func(t *testing.T) {
		storage.TrackVisitor("203.0.113.7")
		storage.TrackVisitor("203.0.113.7")
		storage.TrackVisitor("198.51.100.4")

		if got := storage.UniqueVisitors(24 * time.Hour); got != 2 {
			t.Errorf("Expected 2 unique visitors, got %d", got)
		}
	})

	t.Run("Persistence", func(t *testing.T) {
		if err := storage.save(); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}

		storage2, err := NewStorage(tempDir)
		if err != nil {
			t.Fatalf("Failed to create second storage: %v", err)
		}
		defer storage2.Shutdown()

		stats := storage2.GetCurrentStats()
		if stats.Analyses != 3 {
			t.Errorf("Expected 3 analyses after reload, got %d", stats.Analyses)
		}
		if got := storage2.UniqueVisitors(24 * time.Hour); got != 2 {
			t.Errorf("Expected 2 unique visitors after reload, got %d", got)
		}
	})

	t.Run("Cleanup", func(t *testing.T) {
		oldMonth := time.Now().AddDate(0, -3, 0).Format("2006-01")
		storage.mutex.Lock()
		storage.months[oldMonth] = &MonthlyStats{Analyses: 100, LastUpdated: time.Now().AddDate(0, -3, 0)}
		storage.mutex.Unlock()

		storage.Cleanup(2)

		if _, exists := storage.GetMonthlyStats(oldMonth); exists {
			t.Error("Old stats should have been cleaned up")
		}
		if _, exists := storage.GetMonthlyStats(getCurrentMonth()); !exists {
			t.Error("Current month should have been retained")
		}
	})

	t.Run("AtomicWrite", func(t *testing.T) {
		if err := storage.save(); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
		if _, err := os.Stat(filepath.Join(tempDir, "stats.json")); err != nil {
			t.Fatalf("Stats file missing: %v", err)
		}
		if _, err := os.Stat(filepath.Join(tempDir, "stats.json.tmp")); !os.IsNotExist(err) {
			t.Error("Temporary file should not survive a save")
		}
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		done := make(chan bool)
		for i := 0; i < 10; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					storage.Record(OutcomeSuccess, 1)
					storage.GetCurrentStats()
					storage.TrackVisitor("192.0.2.1")
				}
				done <- true
			}()
		}
		for i := 0; i < 10; i++ {
			<-done
		}

		stats := storage.GetCurrentStats()
		if stats.Succeeded < 1000 {
			t.Errorf("Expected at least 1000 successes, got %d", stats.Succeeded)
		}
	})
}

func TestShutdownIsIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "stats-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	storage, err := NewStorage(tempDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	storage.Record(OutcomeSuccess, 5)

	if err := storage.Shutdown(); err != nil {
		t.Fatalf("First shutdown failed: %v", err)
	}
	if err := storage.Shutdown(); err != nil {
		t.Fatalf("Second shutdown failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tempDir, "stats.json")); err != nil {
		t.Errorf("Expected stats file after shutdown: %v", err)
	}
}
