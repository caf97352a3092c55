// Package stats keeps approximate page-view counters in a small JSON file.
// The numbers are analytics, not a source of truth: every write is best
// effort and a corrupt file reads as zeroes.
package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pageturn/forum-backend/pkg/logger"
	"go.uber.org/zap"
)

// Snapshot is the on-disk shape of the counter file.
type Snapshot struct {
	HomeViews      int            `json:"homeViews"`
	TotalPostViews int            `json:"totalPostViews"`
	Posts          map[string]int `json:"posts"`
}

// Store serializes counter updates onto a single JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a Store writing to path; parent directories are created on
// first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// IncrementHome bumps the home feed counter.
func (s *Store) IncrementHome() {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.read()
	snap.HomeViews++
	s.write(snap)
}

// IncrementPost bumps the total and per-post counters.
func (s *Store) IncrementPost(postID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.read()
	snap.TotalPostViews++
	key := strconv.FormatUint(uint64(postID), 10)
	snap.Posts[key] = snap.Posts[key] + 1
	s.write(snap)
}

// Get returns the current counters.
func (s *Store) Get() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) read() Snapshot {
	snap := Snapshot{Posts: map[string]int{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return snap
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.L().Warn("stats file unreadable, starting fresh", zap.Error(err))
		return Snapshot{Posts: map[string]int{}}
	}
	if snap.Posts == nil {
		snap.Posts = map[string]int{}
	}
	return snap
}

func (s *Store) write(snap Snapshot) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		logger.L().Warn("cannot create stats directory", zap.Error(err))
		return
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		logger.L().Warn("cannot encode stats", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		logger.L().Warn("cannot write stats file", zap.Error(err))
	}
}
