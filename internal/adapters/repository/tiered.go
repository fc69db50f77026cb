package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/okian/typerank/pkg/logger"
	"github.com/okian/typerank/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	opLoad = "load"
	opSave = "save"
)

// StorageConfig enumerates the optional tiers. The memory tier is always
// present and always last.
type StorageConfig struct {
	// Remote enables the Redis tier when non-nil.
	Remote *RemoteConfig
	// FilePath enables the file tier when non-empty.
	FilePath string
}

type slot struct {
	tier    Tier
	timeout time.Duration
}

// TieredStore tries each tier in priority order and falls through on failure.
// The caller cannot tell which tier served a request; only durability differs.
type TieredStore struct {
	slots   []slot
	memory  *MemoryTier
	logger  logger.Logger
	closers []func() error

	fileMode    fs.FileMode
	redisClient redis.Cmdable
}

// NewTieredStore builds the tier chain once from cfg. Tier availability is
// decided here, from configuration alone; nothing is probed.
func NewTieredStore(cfg StorageConfig, opts ...Option) (*TieredStore, error) {
	s := &TieredStore{memory: NewMemoryTier()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}

	if cfg.Remote != nil {
		client := s.redisClient
		if client == nil {
			c, err := newRedisClient(*cfg.Remote)
			if err != nil {
				return nil, fmt.Errorf("configure redis tier: %w", err)
			}
			client = c
			s.closers = append(s.closers, c.Close)
		}
		rt := NewRedisTier(client, cfg.Remote.key())
		rt.logger = s.logger
		s.slots = append(s.slots, slot{tier: rt, timeout: cfg.Remote.timeout()})
	}
	if cfg.FilePath != "" {
		ft := NewFileTier(cfg.FilePath, s.fileMode)
		ft.logger = s.logger
		s.slots = append(s.slots, slot{tier: ft})
	}
	s.slots = append(s.slots, slot{tier: s.memory})

	return s, nil
}

// Tiers returns the configured tier names in priority order.
func (s *TieredStore) Tiers() []string {
	names := make([]string, len(s.slots))
	for i, sl := range s.slots {
		names[i] = sl.tier.Name()
	}
	return names
}

// Load implements Store.
func (s *TieredStore) Load(ctx context.Context) (Collection, error) {
	var errs []error
	for i, sl := range s.slots {
		var c Collection
		err := s.run(ctx, sl, opLoad, func(ctx context.Context) error {
			var err error
			c, err = sl.tier.Load(ctx)
			return err
		})
		if err == nil {
			s.remember(ctx, sl, c)
			return c, nil
		}
		errs = append(errs, err)
		s.fallThrough(ctx, sl, opLoad, err, i == len(s.slots)-1)
	}
	return Collection{}, fmt.Errorf("load: %w: %w", ErrStorage, errors.Join(errs...))
}

// Save implements Store. The first tier that accepts the document wins.
func (s *TieredStore) Save(ctx context.Context, c Collection) error {
	var errs []error
	for i, sl := range s.slots {
		err := s.run(ctx, sl, opSave, func(ctx context.Context) error {
			return sl.tier.Save(ctx, c)
		})
		if err == nil {
			s.remember(ctx, sl, c)
			return nil
		}
		errs = append(errs, err)
		s.fallThrough(ctx, sl, opSave, err, i == len(s.slots)-1)
	}
	return fmt.Errorf("save: %w: %w", ErrStorage, errors.Join(errs...))
}

// Close releases the Redis client when the store created it.
func (s *TieredStore) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (s *TieredStore) run(ctx context.Context, sl slot, op string, fn func(context.Context) error) error {
	if sl.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sl.timeout)
		defer cancel()
	}
	start := time.Now()
	err := fn(ctx)
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.RecordStorageOp(sl.tier.Name(), op, outcome, float64(time.Since(start).Microseconds())/1000)
	return err
}

// remember keeps the memory tier at the last collection seen on any tier.
func (s *TieredStore) remember(ctx context.Context, served slot, c Collection) {
	if served.tier == Tier(s.memory) {
		return
	}
	_ = s.memory.Save(ctx, c)
}

func (s *TieredStore) fallThrough(ctx context.Context, sl slot, op string, err error, last bool) {
	fields := []logger.Field{
		logger.String("tier", sl.tier.Name()),
		logger.String("op", op),
		logger.Error(err),
	}
	if last {
		s.logger.Error(ctx, "last storage tier failed", fields...)
		return
	}
	metrics.RecordStorageFallback(sl.tier.Name(), op)
	if errors.Is(err, ErrNotFound) {
		s.logger.Debug(ctx, "storage tier empty, falling through", fields...)
		return
	}
	s.logger.Warn(ctx, "storage tier failed, falling through", fields...)
}
