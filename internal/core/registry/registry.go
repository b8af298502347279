// Package registry holds the current scoring engine for each model type.
//
// Each slot is an atomic pointer: scoring reads never lock, and a reload builds
// a complete engine from disk before swapping it in. A failed load leaves the
// previous engine serving and is reported through Status.
package registry

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"custintel/internal/core/bundle"
	"custintel/internal/core/scoring"
	perr "custintel/internal/platform/errors"
	"custintel/internal/platform/logger"
)

// Config wires a Registry
type Config struct {
	// ModelsDir is the bundle root
	ModelsDir string
	// Lazy defers loading to the first request for each kind
	Lazy bool
	// Scoring options applied to every engine built
	Scoring []scoring.Option
	// OnLoad is told about every load attempt
	OnLoad func(kind string, err error)
}

// Status reports one model type
type Status struct {
	Kind     string        `json:"kind"`
	Loaded   bool          `json:"loaded"`
	LoadedAt *time.Time    `json:"loaded_at,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Info     *scoring.Info `json:"info,omitempty"`
}

type loaded[T any] struct {
	engine *T
	at     time.Time
}

type slot[T any] struct {
	kind  string
	build func(bundle.Bundle, ...scoring.Option) (*T, error)
	info  func(*T) scoring.Info

	cur     atomic.Pointer[loaded[T]]
	mu      sync.Mutex // serializes loads and guards lastErr
	lastErr error
}

// Registry is the process-wide set of engines
type Registry struct {
	cfg   Config
	lead  *slot[scoring.LeadEngine]
	churn *slot[scoring.ChurnEngine]
}

// Kinds lists the model types a Registry serves
var Kinds = []string{bundle.KindLead, bundle.KindChurn}

// New returns an empty registry; call LoadAll unless Lazy is set
func New(cfg Config) *Registry {
	if cfg.ModelsDir == "" {
		panic("registry.New: ModelsDir is required")
	}
	return &Registry{
		cfg: cfg,
		lead: &slot[scoring.LeadEngine]{
			kind:  bundle.KindLead,
			build: scoring.NewLead,
			info:  (*scoring.LeadEngine).Info,
		},
		churn: &slot[scoring.ChurnEngine]{
			kind:  bundle.KindChurn,
			build: scoring.NewChurn,
			info:  (*scoring.ChurnEngine).Info,
		},
	}
}

// LoadAll loads every kind; failures are joined and the rest still load
func (r *Registry) LoadAll() error {
	return errors.Join(load(r, r.lead), load(r, r.churn))
}

// Reload rebuilds one kind from disk and swaps it in
func (r *Registry) Reload(kind string) (Status, error) {
	switch kind {
	case bundle.KindLead:
		err := load(r, r.lead)
		return status(r.lead), unavailable(kind, err)
	case bundle.KindChurn:
		err := load(r, r.churn)
		return status(r.churn), unavailable(kind, err)
	}
	return Status{}, perr.NotFoundf("unknown model type %q", kind)
}

// Lead returns the lead engine or an unavailable error naming what is missing
func (r *Registry) Lead() (*scoring.LeadEngine, error) { return get(r, r.lead) }

// Churn returns the churn engine or an unavailable error naming what is missing
func (r *Registry) Churn() (*scoring.ChurnEngine, error) { return get(r, r.churn) }

// Status reports every kind in Kinds order
func (r *Registry) Status() []Status {
	return []Status{status(r.lead), status(r.churn)}
}

// Ready is true when every kind has an engine
func (r *Registry) Ready() bool {
	return r.lead.cur.Load() != nil && r.churn.cur.Load() != nil
}

func get[T any](r *Registry, s *slot[T]) (*T, error) {
	if l := s.cur.Load(); l != nil {
		return l.engine, nil
	}
	if r.cfg.Lazy {
		s.mu.Lock()
		defer s.mu.Unlock()
		if l := s.cur.Load(); l != nil {
			return l.engine, nil
		}
		if err := swapIn(r, s); err != nil {
			return nil, unavailable(s.kind, err)
		}
		return s.cur.Load().engine, nil
	}
	s.mu.Lock()
	err := s.lastErr
	s.mu.Unlock()
	if err == nil {
		err = errors.New("not loaded")
	}
	return nil, unavailable(s.kind, err)
}

func load[T any](r *Registry, s *slot[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return swapIn(r, s)
}

// swapIn builds an engine from disk and stores it; callers hold s.mu
func swapIn[T any](r *Registry, s *slot[T]) error {
	b, err := bundle.Load(r.cfg.ModelsDir, s.kind)
	if err == nil {
		var eng *T
		if eng, err = s.build(b, r.cfg.Scoring...); err == nil {
			s.cur.Store(&loaded[T]{engine: eng, at: time.Now().UTC()})
		}
	}
	s.lastErr = err

	log := logger.Named("registry")
	if err != nil {
		log.Warn().Err(err).Str("model", s.kind).Str("dir", r.cfg.ModelsDir).Msg("model not loaded")
	} else {
		log.Info().Str("model", s.kind).Msg("model loaded")
	}
	if r.cfg.OnLoad != nil {
		r.cfg.OnLoad(s.kind, err)
	}
	return err
}

func status[T any](s *slot[T]) Status {
	st := Status{Kind: s.kind}
	if l := s.cur.Load(); l != nil {
		at := l.at
		info := s.info(l.engine)
		st.Loaded, st.LoadedAt, st.Info = true, &at, &info
	}
	s.mu.Lock()
	if s.lastErr != nil {
		st.Reason = s.lastErr.Error()
	}
	s.mu.Unlock()
	return st
}

func unavailable(kind string, err error) error {
	if err == nil {
		return nil
	}
	return perr.Wrapf(err, perr.ErrorCodeUnavailable, "model %s unavailable: %v", kind, err)
}
