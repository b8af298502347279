package pg

import (
	"context"
	"strings"

	"custintel/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished query
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every query the adapter runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs queries through root regardless of its level
// with all false only slow or failed queries are written, which is how SLOW_MS works without LOG_SQL
func Tracer(root logger.Logger, all bool) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll, all: all}
}

type zlTracer struct {
	log logger.Logger
	all bool
}

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	if !z.all && !ev.Slow && ev.Err == nil {
		return
	}
	evt := z.log.Info()
	switch {
	case ev.Err != nil:
		evt = z.log.Error()
	case ev.Slow:
		evt = z.log.Warn()
	}
	evt = evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL))
	// ledger args carry error text and paths; only log them when asked for everything
	if z.all {
		evt = evt.Interface("args", ev.Args)
	}
	evt.Err(ev.Err).Msg("pg query")
}

// compact folds runs of whitespace into one space and trims the ends
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
