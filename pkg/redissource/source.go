// Package redissource stores the profile collection as a single JSON
// document in Redis, as an alternative to the file source.
package redissource

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mmcdole/profilekeeper/pkg/logging"
	"github.com/mmcdole/profilekeeper/pkg/profiles"
)

// Source implements profiles.Source on top of a Redis string key
type Source struct {
	client *redis.Client
	cfg    Config
}

// New connects to Redis and verifies the connection
func New(cfg Config) (*Source, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	s := NewWithClient(redis.NewClient(opts), cfg)

	ctx, cancel := s.context()
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return s, nil
}

// NewWithClient creates a Source with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Source {
	if cfg.Key == "" {
		cfg.Key = DefaultConfig().Key
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Source{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Source) Close() error {
	return s.client.Close()
}

func (s *Source) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.cfg.Timeout)
}

// Location implements profiles.Source
func (s *Source) Location() string {
	return fmt.Sprintf("redis key %s", s.cfg.Key)
}

// Load implements profiles.Source
func (s *Source) Load() (map[string]*profiles.Record, error) {
	ctx, cancel := s.context()
	defer cancel()

	data, err := s.client.Get(ctx, s.cfg.Key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", profiles.ErrNoCollection, s.cfg.Key)
		}
		return nil, fmt.Errorf("reading profiles key: %w", err)
	}

	records, err := profiles.DecodeCollection(data)
	if err != nil {
		return nil, err
	}
	logging.App.Debug("Loaded profiles from redis", "key", s.cfg.Key, "profiles", len(records))
	return records, nil
}

// Save implements profiles.Source
func (s *Source) Save(records map[string]*profiles.Record) error {
	data, err := profiles.EncodeCollection(records)
	if err != nil {
		return err
	}

	ctx, cancel := s.context()
	defer cancel()

	if err := s.client.Set(ctx, s.cfg.Key, data, 0).Err(); err != nil {
		return fmt.Errorf("writing profiles key: %w", err)
	}
	logging.App.Debug("Wrote profiles to redis", "key", s.cfg.Key, "profiles", len(records))
	return nil
}

var _ profiles.Source = (*Source)(nil)
