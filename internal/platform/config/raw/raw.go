// Package raw reads bootstrap settings before logging is up.
// It must not import the logger, which reads LOG_* through it
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Lookup resolves one fully qualified key
type Lookup func(key string) (string, bool)

// Conf is a prefixed view over a key source, the process env by default
type Conf struct {
	prefix string
	lookup Lookup
}

// New returns a root Conf over the process environment
func New() Conf { return Conf{lookup: os.LookupEnv} }

// FromMap returns a root Conf over a fixed key set
func FromMap(m map[string]string) Conf {
	return Conf{lookup: func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}}
}

// Prefix returns a child Conf with p appended to the prefix, e.g. "LOG_"
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p, lookup: c.lookup} }

func (c Conf) value(key string) string {
	if c.lookup == nil {
		return ""
	}
	v, _ := c.lookup(c.prefix + key)
	return strings.TrimSpace(v)
}

// Get returns the trimmed value or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v := c.value(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts 1|true|yes|on and 0|false|no|off in any case; anything else is def
func (c Conf) GetBool(key string, def bool) bool {
	switch strings.ToLower(c.value(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// GetInt returns a non negative integer, or def when unset, malformed or negative
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.value(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
