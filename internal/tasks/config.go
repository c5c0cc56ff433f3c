package tasks

import "time"

// Config tunes the background task queue.
type Config struct {
	// Workers is the number of concurrent task workers (default 2).
	Workers int

	// MaxRetries caps retry attempts for a failed task (default 3).
	MaxRetries int

	// RetryDelay is the backoff between retries (default 1m).
	RetryDelay time.Duration

	// TaskTimeout bounds a single task execution (default 5m).
	TaskTimeout time.Duration

	// ReleaseAfter returns stuck tasks to the queue (default 15m).
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed tasks are swept (default 1h).
	CleanupInterval time.Duration

	// RetentionDuration is how long completed tasks are kept (default 24h).
	RetentionDuration time.Duration
}

// DefaultConfig returns a Config with the defaults above.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}
