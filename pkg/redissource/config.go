package redissource

import "time"

// Config holds Redis connection and key settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Key under which the whole collection document is stored
	Key string

	// Timeout bounds every Redis round trip
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:     "redis://localhost:6379/0",
		Key:     "profilekeeper:profiles",
		Timeout: 5 * time.Second,
	}
}
