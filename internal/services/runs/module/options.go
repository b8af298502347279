package module

import (
	"time"

	"custintel/internal/platform/config"
)

// Options holds configuration settings for the runs module
type Options struct {
	HardLimit    int
	DefaultLimit int

	// StatementTimeout bounds every ledger statement; 0 leaves the server default
	StatementTimeout time.Duration
	// LockTimeout bounds lock waits when two runs upsert the same row
	LockTimeout time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	rf := cfg.Prefix("RUNS_")
	return Options{
		HardLimit:        rf.MayInt("HARD_LIMIT", 100),
		DefaultLimit:     rf.MayInt("DEFAULT_LIMIT", 20),
		StatementTimeout: rf.MayDuration("STATEMENT_TIMEOUT", 5*time.Second),
		LockTimeout:      rf.MayDuration("LOCK_TIMEOUT", 2*time.Second),
	}
}
