// Package codebook holds the frozen label to code vocabularies shared by training and serving.
//
// Two flavours exist. A Map is built from observed training values and assigns
// codes in order of first appearance. A Fixed vocabulary is a hardcoded ordinal
// table that never depends on data. Both serialize as ordered lists so the
// serving process replays training codes verbatim.
package codebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultCode is the code every unseen label resolves to
const DefaultCode = 0

var (
	// ErrUnknownCode is returned by Decode for a code outside the vocabulary
	ErrUnknownCode = errors.New("codebook: unknown code")
	// ErrDuplicateLabel is returned when a persisted vocabulary repeats a label
	ErrDuplicateLabel = errors.New("codebook: duplicate label")
)

// Key canonicalizes a label for lookups: NFC, trimmed, case folded
// a Caser holds state, so one is built per call
func Key(label string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(label)))
}

// Map is an append-only ordered vocabulary with a reverse index
type Map struct {
	labels []string
	index  map[string]int
}

// Build assigns each distinct value a code in order of first appearance
// empty values are skipped
func Build(values []string) *Map {
	m := &Map{index: make(map[string]int)}
	for _, v := range values {
		k := Key(v)
		if k == "" {
			continue
		}
		if _, ok := m.index[k]; ok {
			continue
		}
		m.index[k] = len(m.labels)
		m.labels = append(m.labels, strings.TrimSpace(v))
	}
	return m
}

// FromLabels restores a persisted vocabulary, rejecting duplicates
func FromLabels(labels []string) (*Map, error) {
	m := &Map{index: make(map[string]int, len(labels)), labels: make([]string, 0, len(labels))}
	for _, l := range labels {
		k := Key(l)
		if _, ok := m.index[k]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
		m.index[k] = len(m.labels)
		m.labels = append(m.labels, l)
	}
	return m, nil
}

// Encode returns the code for label; unseen labels yield DefaultCode and known=false
func (m *Map) Encode(label string) (code int, known bool) {
	if m == nil {
		return DefaultCode, false
	}
	if c, ok := m.index[Key(label)]; ok {
		return c, true
	}
	return DefaultCode, false
}

// Decode is the strict inverse of Encode for known codes
func (m *Map) Decode(code int) (string, error) {
	if m == nil || code < 0 || code >= len(m.labels) {
		return "", fmt.Errorf("%w: %d", ErrUnknownCode, code)
	}
	return m.labels[code], nil
}

// Len returns the vocabulary size
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.labels)
}

// Labels returns a copy of the ordered vocabulary
func (m *Map) Labels() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.labels...)
}

// MarshalJSON writes the ordered label list
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m.labels)
}

// UnmarshalJSON restores the vocabulary from an ordered label list
func (m *Map) UnmarshalJSON(b []byte) error {
	var labels []string
	if err := json.Unmarshal(b, &labels); err != nil {
		return err
	}
	restored, err := FromLabels(labels)
	if err != nil {
		return err
	}
	*m = *restored
	return nil
}
