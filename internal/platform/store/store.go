// Package store opens the optional postgres ledger and hands repos a small
// sql surface they can be tested against without a database.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"custintel/internal/platform/logger"
)

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Store holds whichever backends Open enabled. PG is nil while the ledger
// is off and callers then record nothing.
type Store struct {
	Log logger.Logger
	PG  TxRunner
}

// Option adjusts a Store before Open dials anything
type Option func(*Store) error

// WithLogger sends store and sql trace lines to log under subsystem=store
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log.With().Str("subsystem", "store").Logger()
		return nil
	}
}

// WithPG uses an already open ledger in place of dialing postgres
func WithPG(r TxRunner) Option {
	return func(s *Store) error {
		if r == nil {
			return errors.New("store: WithPG(nil)")
		}
		s.PG = r
		return nil
	}
}

// Open applies opts then dials whatever cfg enables and nothing injected.
// A ledger that never answers its boot pings is an error.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: zerolog.Nop()}
	for _, apply := range opts {
		if err := apply(s); err != nil {
			return nil, err
		}
	}
	if cfg.PG.Enabled && s.PG == nil {
		pg, err := openPG(ctx, cfg.AppName, cfg.PG.withDefaults(), s.Log)
		if err != nil {
			return nil, err
		}
		s.PG = pg
	}
	return s, nil
}

// Guard pings the ledger when it can be pinged
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil")
	}
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
	}
	return nil
}

// Close releases the ledger when it holds resources
func (s *Store) Close(context.Context) error {
	if c, ok := s.PG.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
