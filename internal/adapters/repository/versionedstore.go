package repository

import (
	"context"
	"sync"
	"time"

	"github.com/leomash/rankdb/internal/domain/leaderboard"
	"github.com/leomash/rankdb/pkg/metrics"
)

// VersionedStore implements Store over the versioned leaderboard database.
//
// The database itself is single-writer by design; the store serializes
// all access behind an RWMutex so HTTP handlers can call it from any
// goroutine. Reads share the lock since they never touch the history.
type VersionedStore struct {
	mu       sync.RWMutex
	db       *leaderboard.DB
	validate bool
}

// NewVersionedStore constructs a store with an empty history.
func NewVersionedStore(opts ...Option) *VersionedStore {
	s := &VersionedStore{db: leaderboard.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register implements Store.Register in O(log n).
func (s *VersionedStore) Register(ctx context.Context, name string, rating int) error {
	start := time.Now()
	defer func() {
		metrics.RecordMutationLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	s.db.Register(name, rating)
	err := s.checkLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	metrics.RecordRegistration()
	s.publishState(ctx)
	return nil
}

// Unregister implements Store.Unregister in O(log n).
func (s *VersionedStore) Unregister(ctx context.Context, name string) error {
	start := time.Now()
	defer func() {
		metrics.RecordMutationLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	s.db.Unregister(name)
	err := s.checkLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	metrics.RecordUnregistration()
	s.publishState(ctx)
	return nil
}

// Rank implements Store.Rank in O(log n).
func (s *VersionedStore) Rank(ctx context.Context, name string) (PlayerRow, error) {
	start := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordRankQuery()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rating, ok := s.db.Rating(name)
	if !ok {
		return PlayerRow{}, ErrNotFound
	}
	return PlayerRow{Name: name, Rating: rating, Rank: s.db.Rank(name)}, nil
}

// List implements Store.List in O(n log n).
func (s *VersionedStore) List(ctx context.Context) ([]PlayerRow, error) {
	start := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordListQuery()

	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := s.db.List()
	rows := make([]PlayerRow, len(infos))
	for i, info := range infos {
		rows[i] = PlayerRow(info)
	}
	return rows, nil
}

// Rollback implements Store.Rollback.
func (s *VersionedStore) Rollback(ctx context.Context, steps int) error {
	if steps < 0 {
		return ErrNegativeSteps
	}

	start := time.Now()
	defer func() {
		metrics.RecordMutationLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	s.db.Rollback(steps)
	err := s.checkLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	metrics.RecordRollback(steps)
	s.publishState(ctx)
	return nil
}

// Count implements Store.Count.
func (s *VersionedStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Size()
}

// HistoryDepth implements Store.HistoryDepth.
func (s *VersionedStore) HistoryDepth(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.HistoryDepth()
}

// checkLocked runs the optional post-mutation structural validation.
// Caller holds the write lock.
func (s *VersionedStore) checkLocked() error {
	if !s.validate {
		return nil
	}
	if !s.db.Validate() {
		metrics.RecordStoreCorruption()
		return ErrCorrupted
	}
	return nil
}

func (s *VersionedStore) publishState(ctx context.Context) {
	metrics.UpdatePlayers(s.Count(ctx))
	metrics.UpdateHistoryDepth(s.HistoryDepth(ctx))
}
