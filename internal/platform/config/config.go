// Package config reads service settings from prefixed environment keys
//
// Every binary builds one root with New and hands scoped views to its parts,
// e.g. root.Prefix("CUSTINTEL_API_") for the server and root.Prefix("SERVICE_PGSQL_")
// for postgres. May* getters fall back to a default and log a malformed value;
// Must* getters panic, which is reserved for startup.
package config

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"custintel/internal/platform/logger"
	pstrings "custintel/internal/platform/strings"
)

// Conf is a prefixed view over a key source; the zero value reads the process env
type Conf struct {
	prefix string
	lookup func(string) (string, bool)
}

// New returns a root Conf over the process environment
func New() Conf { return Conf{lookup: os.LookupEnv} }

// FromMap returns a root Conf over fixed values, for tests and embedded defaults
func FromMap(m map[string]string) Conf {
	return Conf{lookup: func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}}
}

// Prefix returns a child view, e.g. root.Prefix("CUSTINTEL_").Prefix("API_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p, lookup: c.lookup} }

// Key returns the fully qualified name of key
func (c Conf) Key(key string) string { return c.prefix + key }

func (c Conf) value(key string) string {
	lookup := c.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(c.Key(key))
	return strings.TrimSpace(v)
}

// parsed returns parse(value) or def; a value parse rejects is logged once per read
func parsed[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	s := c.value(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(key)).Str("value", s).Interface("default", def).
			Msgf("invalid %s; using default", kind)
		return def
	}
	return v
}

// MustString returns the value of key and panics when it is unset or blank
func (c Conf) MustString(key string) string {
	v := c.value(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.Key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the trimmed value or def
func (c Conf) MayString(key, def string) string {
	if v := c.value(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the integer value or def
func (c Conf) MayInt(key string, def int) int {
	return parsed(c, key, def, "int", strconv.Atoi)
}

// MayFloat64 returns the float value or def; NaN and infinities count as invalid
func (c Conf) MayFloat64(key string, def float64) float64 {
	return parsed(c, key, def, "float64", func(s string) (float64, error) {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return 0, strconv.ErrRange
		}
		return f, err
	})
}

// MayBool accepts strconv.ParseBool forms plus yes|no|on|off
func (c Conf) MayBool(key string, def bool) bool {
	return parsed(c, key, def, "bool", func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "yes", "on":
			return true, nil
		case "no", "off":
			return false, nil
		}
		return strconv.ParseBool(s)
	})
}

// MayDuration accepts time.ParseDuration forms; a bare integer means seconds
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return parsed(c, key, def, "duration", func(s string) (time.Duration, error) {
		if n, err := strconv.Atoi(s); err == nil {
			return time.Duration(n) * time.Second, nil
		}
		return time.ParseDuration(s)
	})
}

// MayCSV splits a comma separated value, dropping blanks and repeats; def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string { return pstrings.Or(pstrings.List(c.value(key)), def) }

// MayEnum returns the allowed spelling matching the value case insensitively, or def when unset
// any other value panics
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	logger.Get().Panic().Str("key", c.Key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
