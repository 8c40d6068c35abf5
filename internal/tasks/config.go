package tasks

import "time"

// Config tunes the durable task queue. The queue runs at most a handful of
// long-period jobs (sync passes, cleanup), so the defaults are small.
type Config struct {
	// Workers is how many tasks may execute concurrently.
	Workers int

	// MaxRetries bounds re-execution of a failed task.
	MaxRetries int

	// RetryDelay is the backoff between retries of a failed task.
	RetryDelay time.Duration

	// TaskTimeout cancels a task's context after this long.
	TaskTimeout time.Duration

	// ReleaseAfter returns a claimed-but-stalled task to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed task rows are swept.
	CleanupInterval time.Duration

	// RetentionDuration keeps completed task rows around for inspection.
	RetentionDuration time.Duration
}

// DefaultConfig returns the queue tuning used when the config file is
// silent.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}
