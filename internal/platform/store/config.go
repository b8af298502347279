package store

import "time"

// Config selects and tunes the backends Open brings up
type Config struct {
	AppName string // reported as application_name
	PG      PGConfig
}

// PGConfig tunes the postgres run ledger
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool // trace every statement, not only slow ones
	SlowQueryMs int

	ConnectRetries int           // boot pings before giving up
	PingTimeout    time.Duration // per boot ping
}

func (c PGConfig) withDefaults() PGConfig {
	if c.ConnectRetries <= 0 {
		c.ConnectRetries = 20
	}
	if c.PingTimeout <= 0 {
		c.PingTimeout = 3 * time.Second
	}
	return c
}
