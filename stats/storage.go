package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Outcome classifies a single analysis invocation for usage accounting.
type Outcome int

const (
	// OutcomeSuccess means a complete AnalysisResult was produced.
	OutcomeSuccess Outcome = iota
	// OutcomeInvalidURL means the request was rejected before any fetch.
	OutcomeInvalidURL
	// OutcomeFetchError means the target could not be fetched.
	OutcomeFetchError
	// OutcomeUnexpected means an unclassified failure occurred.
	OutcomeUnexpected
)

// MonthlyStats aggregates analysis outcomes for one calendar month.
type MonthlyStats struct {
	Analyses         int       `json:"analyses"`
	Succeeded        int       `json:"succeeded"`
	InvalidURLErrors int       `json:"invalid_url_errors"`
	FetchErrors      int       `json:"fetch_errors"`
	UnexpectedErrors int       `json:"unexpected_errors"`
	TotalLoadTimeMs  float64   `json:"total_load_time_ms"`
	LastUpdated      time.Time `json:"last_updated"`
}

// AverageLoadTimeMs returns the mean analysis duration for the month.
func (m MonthlyStats) AverageLoadTimeMs() float64 {
	if m.Analyses == 0 {
		return 0
	}
	return m.TotalLoadTimeMs / float64(m.Analyses)
}

// ErrorRate returns the share of failed analyses as a percentage.
func (m MonthlyStats) ErrorRate() float64 {
	if m.Analyses == 0 {
		return 0
	}
	failed := m.InvalidURLErrors + m.FetchErrors + m.UnexpectedErrors
	return float64(failed) / float64(m.Analyses) * 100
}

// fileState is the on-disk shape of the storage.
type fileState struct {
	Months   map[string]*MonthlyStats `json:"months"`
	Visitors map[string]time.Time     `json:"visitors"`
}

// Storage handles persistent storage of usage statistics. Writes go to a
// temporary file first and are renamed into place, so a crash never leaves
// a half-written stats file.
type Storage struct {
	mutex       sync.RWMutex
	months      map[string]*MonthlyStats // key: "YYYY-MM"
	visitors    map[string]time.Time     // IP -> last visit
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
}

// NewStorage creates a statistics storage instance backed by a JSON file
// in dataDir, loading any previously persisted state.
func NewStorage(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{
		months:      make(map[string]*MonthlyStats),
		visitors:    make(map[string]time.Time),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()

	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if state.Months != nil {
		s.months = state.Months
	}
	if state.Visitors != nil {
		s.visitors = state.Visitors
	}
	return nil
}

func (s *Storage) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(fileState{Months: s.months, Visitors: s.visitors})
	s.mutex.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	// Write to a temporary file, then rename into place atomically.
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// backgroundWriter flushes to disk on demand and on a fixed interval.
func (s *Storage) backgroundWriter() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
			s.save()
		case <-ticker.C:
			s.save()
		case <-s.done:
			return
		}
	}
}

func getCurrentMonth() string {
	return time.Now().Format("2006-01")
}

// requestWrite signals the background writer; if a write is already
// pending the signal is dropped.
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
	}
}

// Record adds one analysis outcome to the current month's counters.
func (s *Storage) Record(outcome Outcome, loadTimeMs float64) {
	month := getCurrentMonth()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats, exists := s.months[month]
	if !exists {
		stats = &MonthlyStats{}
		s.months[month] = stats
	}

	stats.Analyses++
	switch outcome {
	case OutcomeSuccess:
		stats.Succeeded++
	case OutcomeInvalidURL:
		stats.InvalidURLErrors++
	case OutcomeFetchError:
		stats.FetchErrors++
	case OutcomeUnexpected:
		stats.UnexpectedErrors++
	}
	stats.TotalLoadTimeMs += loadTimeMs
	stats.LastUpdated = time.Now()

	if time.Since(s.lastWrite) > time.Minute {
		s.requestWrite()
		s.lastWrite = time.Now()
	}
}

// TrackVisitor records the last time an IP was seen.
func (s *Storage) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.visitors[ip] = time.Now()
}

// UniqueVisitors returns how many distinct IPs were seen within the
// given window.
func (s *Storage) UniqueVisitors(window time.Duration) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	count := 0
	cutoff := time.Now().Add(-window)
	for _, lastVisit := range s.visitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

// GetCurrentStats returns statistics for the current month.
func (s *Storage) GetCurrentStats() MonthlyStats {
	month := getCurrentMonth()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stats, exists := s.months[month]; exists {
		return *stats
	}
	return MonthlyStats{}
}

// GetMonthlyStats returns statistics for a specific "YYYY-MM" month.
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stats, exists := s.months[yearMonth]; exists {
		return *stats, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths returns all months with statistics, newest first.
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.months))
	for month := range s.months {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// Cleanup drops months older than retainMonths and stale visitor entries,
// then persists the result.
func (s *Storage) Cleanup(retainMonths int) {
	if retainMonths < 1 {
		retainMonths = 1
	}
	oldest := time.Now().AddDate(0, -(retainMonths - 1), 0).Format("2006-01")
	visitorCutoff := time.Now().Add(-30 * 24 * time.Hour)

	s.mutex.Lock()
	for key := range s.months {
		if key < oldest {
			delete(s.months, key)
		}
	}
	for ip, lastVisit := range s.visitors {
		if lastVisit.Before(visitorCutoff) {
			delete(s.visitors, ip)
		}
	}
	s.mutex.Unlock()

	s.requestWrite()
}

// Statistics returns the summary served by the statistics endpoint.
func (s *Storage) Statistics() map[string]any {
	current := s.GetCurrentStats()

	return map[string]any{
		"uniqueVisitors24h": s.UniqueVisitors(24 * time.Hour),
		"totalAnalyses":     current.Analyses,
		"errorRate":         current.ErrorRate(),
		"averageLoadTime":   current.AverageLoadTimeMs(),
		"months":            s.GetAllMonths(),
	}
}

// Shutdown stops the background writer and performs a final synchronous
// save. Safe to call more than once.
func (s *Storage) Shutdown() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.save()
	})
	return err
}
