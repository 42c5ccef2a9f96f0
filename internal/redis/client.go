package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/saxenaaman628/ballot-board/internal/store"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies the connection with PING.
func NewClient(ctx context.Context, opts Options, log zerolog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	pong, err := rdb.Ping(pingCtx).Result()
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	log.Info().Str("addr", opts.Addr).Str("reply", pong).Msg("Redis connected")
	return rdb, nil
}

// Store is a store.KV backed by plain Redis string keys.
type Store struct {
	rdb    *redis.Client
	prefix string
	log    zerolog.Logger
}

var _ store.KV = (*Store)(nil)

func NewStore(rdb *redis.Client, prefix string, log zerolog.Logger) *Store {
	return &Store{rdb: rdb, prefix: prefix, log: log.With().Str("component", "redis").Logger()}
}

func (s *Store) key(k string) string { return s.prefix + k }

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	raw, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("op", "get").Str("key", s.key(key)).Int("bytes", len(raw)).Dur("duration_ms", time.Since(start)).Msg("store operation")
	return raw, nil
}

// Set writes the whole blob with a single SET, which Redis applies atomically.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return err
	}
	s.log.Debug().Str("op", "set").Str("key", s.key(key)).Int("bytes", len(value)).Dur("duration_ms", time.Since(start)).Msg("store operation")
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
