package scheduler

import "time"

// Config holds the configuration of the Queue scheduler.
// Designed for environment-based configuration using popular env parsing libraries.
type Config struct {
	ShutdownTimeout time.Duration `env:"SCHEDULER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	Backlog         int           `env:"SCHEDULER_BACKLOG" envDefault:"64"`
}

// DefaultConfig returns sensible defaults for production use.
func DefaultConfig() Config {
	return Config{
		ShutdownTimeout: 30 * time.Second,
		Backlog:         64,
	}
}
