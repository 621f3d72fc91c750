// Package service provides the core business service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/leomash/rankdb/internal/adapters/repository"
	"github.com/leomash/rankdb/internal/domain/types"
	"github.com/leomash/rankdb/pkg/logger"
)

// Service implements the API dependencies for the leaderboard system.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Configuration.
	storeValidation bool

	// State.
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStoreValidation enables post-mutation structural validation in the
// underlying store.
func WithStoreValidation(enabled bool) Option {
	return func(s *Service) {
		s.storeValidation = enabled
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.store = repository.NewVersionedStore(
		repository.WithValidation(s.storeValidation),
	)
	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Bool("store_validation", s.storeValidation),
	)
	return nil
}

// Stop shuts the service down. The store is purely in-memory, so there is
// nothing to flush.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// Register stores or replaces a player's rating.
func (s *Service) Register(ctx context.Context, name string, rating int) error {
	s.logger.Debug(ctx, "registering player",
		logger.String("name", name),
		logger.Int("rating", rating),
	)
	return s.store.Register(ctx, name, rating)
}

// Unregister removes a player; unknown names are a no-op.
func (s *Service) Unregister(ctx context.Context, name string) error {
	s.logger.Debug(ctx, "unregistering player", logger.String("name", name))
	return s.store.Unregister(ctx, name)
}

// Rank returns the row for a single player.
func (s *Service) Rank(ctx context.Context, name string) (types.PlayerRow, error) {
	row, err := s.store.Rank(ctx, name)
	if err != nil {
		return types.PlayerRow{}, err
	}
	return types.PlayerRow(row), nil
}

// List returns up to limit players ordered by name.
func (s *Service) List(ctx context.Context, limit int) ([]types.PlayerRow, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return lo.Map(rows, func(r repository.PlayerRow, _ int) types.PlayerRow {
		return types.PlayerRow(r)
	}), nil
}

// Rollback restores the state from steps mutations ago.
func (s *Service) Rollback(ctx context.Context, steps int) error {
	s.logger.Info(ctx, "rolling back", logger.Int("steps", steps))
	return s.store.Rollback(ctx, steps)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started": s.started,
	}
	if s.started {
		ctx := context.Background()
		stats["players"] = s.store.Count(ctx)
		stats["historyDepth"] = s.store.HistoryDepth(ctx)
	}
	return stats
}
