// Package service provides the leaderboard operations consumed by the HTTP API.
package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/okian/typerank/internal/adapters/repository"
	"github.com/okian/typerank/internal/domain/ranking"
	"github.com/okian/typerank/internal/domain/score"
	"github.com/okian/typerank/internal/domain/types"
	"github.com/okian/typerank/pkg/logger"
	"github.com/okian/typerank/pkg/metrics"
)

// Service implements the leaderboard use cases on top of a Store.
type Service struct {
	// mu serializes load-mutate-save sequences. Reads are not locked.
	mu sync.Mutex

	store     repository.Store
	logger    logger.Logger
	scoreOpts []score.Option
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

// WithScoreOptions forwards options to score.New, e.g. a fixed clock in tests.
func WithScoreOptions(opts ...score.Option) Option {
	return func(s *Service) {
		s.scoreOpts = append(s.scoreOpts, opts...)
	}
}

// New constructs a Service backed by store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

// GetLeaderboard returns every record in rank order.
func (s *Service) GetLeaderboard(ctx context.Context) ([]score.Record, error) {
	const op = "get leaderboard"
	c, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.UpdateTotalScores(c.Len())
	return ranking.Rank(c.Scores), nil
}

// GetRank returns the placement of the first record whose name matches
// case-insensitively. The boolean is false when no record matches.
func (s *Service) GetRank(ctx context.Context, name string) (types.Placement, bool, error) {
	const op = "get rank"
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Placement{}, false, score.Invalid(score.FieldName, "is required")
	}
	c, err := s.store.Load(ctx)
	if err != nil {
		return types.Placement{}, false, fmt.Errorf("%s: %w", op, err)
	}
	p, ok := ranking.Find(ranking.Rank(c.Scores), name)
	metrics.RecordRankLookup(ok)
	return p, ok, nil
}

// AddScore validates in, appends a new record and persists the collection.
func (s *Service) AddScore(ctx context.Context, admin bool, in score.Input) (score.Record, error) {
	const op = "add score"
	if !admin {
		return score.Record{}, ErrUnauthorized
	}
	rec, err := score.New(in, s.scoreOpts...)
	if err != nil {
		return score.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.Load(ctx)
	if err != nil {
		return score.Record{}, fmt.Errorf("%s: %w", op, err)
	}
	c.Scores = append(c.Scores, rec)
	if err := s.store.Save(ctx, c); err != nil {
		return score.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.RecordScoreAdded()
	metrics.UpdateTotalScores(c.Len())
	s.logger.Info(ctx, "score added",
		logger.String("id", rec.ID),
		logger.String("name", rec.Name),
		logger.Float64("wpm", rec.WPM),
		logger.Float64("accuracy", rec.Accuracy),
	)
	return rec, nil
}

// DeleteScore removes the record with the given id. An unknown id is not an
// error; the collection is saved unchanged.
func (s *Service) DeleteScore(ctx context.Context, admin bool, id string) error {
	const op = "delete score"
	if !admin {
		return ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	before := c.Len()
	c.Scores = slices.DeleteFunc(c.Scores, func(r score.Record) bool { return r.ID == id })
	if err := s.store.Save(ctx, c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	removed := before - c.Len()
	if removed > 0 {
		metrics.RecordScoreDeleted()
	}
	metrics.UpdateTotalScores(c.Len())
	s.logger.Info(ctx, "score deleted",
		logger.String("id", id),
		logger.Int("removed", removed),
	)
	return nil
}

// Stats returns service statistics for the status endpoint.
func (s *Service) Stats(ctx context.Context) map[string]any {
	stats := map[string]any{}
	if t, ok := s.store.(interface{ Tiers() []string }); ok {
		stats["tiers"] = t.Tiers()
	}
	c, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "stats: load failed", logger.Error(err))
		stats["totalScores"] = nil
		return stats
	}
	stats["totalScores"] = c.Len()
	metrics.UpdateTotalScores(c.Len())
	return stats
}
