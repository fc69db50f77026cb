package repository

import (
	"io/fs"

	"github.com/okian/typerank/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Option applies a configuration option to the TieredStore.
type Option func(*TieredStore)

// WithLogger sets the logger used to report tier failures.
func WithLogger(l logger.Logger) Option {
	return func(s *TieredStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFileMode sets the permission bits of the file tier document.
func WithFileMode(perm fs.FileMode) Option {
	return func(s *TieredStore) {
		if perm != 0 {
			s.fileMode = perm
		}
	}
}

// WithRedisClient supplies a caller-owned client for the Redis tier instead of
// dialing one from RemoteConfig. The store does not close it.
func WithRedisClient(client redis.Cmdable) Option {
	return func(s *TieredStore) {
		if client != nil {
			s.redisClient = client
		}
	}
}
