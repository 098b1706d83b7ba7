package tasks

import "time"

// Config tunes the maintenance task queue.
type Config struct {
	Workers int // values below 1 mean 1

	// ReleaseAfter returns a task claimed by a worker that died to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often finished tasks past their retention are purged.
	CleanupInterval time.Duration
}

// DefaultConfig suits a single-user library: one worker, since maintenance
// tasks all write to the same SQLite file.
func DefaultConfig() Config {
	return Config{
		Workers:         1,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}
