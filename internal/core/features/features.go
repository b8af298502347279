// Package features turns named records into ordered numeric vectors.
//
// A Layout is the persisted contract between training and serving: the column
// order, how each column is derived from a record field, and the vocabularies
// used to encode categorical fields. Vector is a pure function of the record
// and the layout.
package features

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"custintel/internal/core/codebook"
)

// ErrSchemaMismatch marks a layout whose columns differ from what a model expects
var ErrSchemaMismatch = errors.New("features: schema mismatch")

// Record is a raw row keyed by field name
type Record map[string]string

// Kind tells the builder how to derive a column
type Kind string

const (
	// Numeric parses the field as a float, falling back to Default when empty
	Numeric Kind = "numeric"
	// Ordinal looks the field up in a fixed vocabulary
	Ordinal Kind = "ordinal"
	// Category looks the field up in an observed vocabulary
	Category Kind = "category"
)

// Column declares one position of the feature vector
type Column struct {
	Name    string  `json:"name"`
	Field   string  `json:"field"`
	Kind    Kind    `json:"kind"`
	Vocab   string  `json:"vocab,omitempty"`
	Default float64 `json:"default,omitempty"`
}

// Layout is the column order plus the vocabularies it references
type Layout struct {
	Columns  []Column                  `json:"columns"`
	Fixed    map[string]codebook.Fixed `json:"fixed,omitempty"`
	Observed map[string]*codebook.Map  `json:"observed,omitempty"`
}

// UnknownObserver is told about every categorical value that missed its vocabulary
type UnknownObserver func(field, value string)

// Names returns the column names in vector order
func (l Layout) Names() []string {
	out := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		out[i] = c.Name
	}
	return out
}

// Width is the vector length
func (l Layout) Width() int { return len(l.Columns) }

// Validate checks every column references a vocabulary that exists
func (l Layout) Validate() error {
	if len(l.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrSchemaMismatch)
	}
	seen := make(map[string]struct{}, len(l.Columns))
	for _, c := range l.Columns {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicate column %q", ErrSchemaMismatch, c.Name)
		}
		seen[c.Name] = struct{}{}
		switch c.Kind {
		case Numeric:
		case Ordinal:
			f, ok := l.Fixed[c.Vocab]
			if !ok {
				return fmt.Errorf("%w: column %q references missing fixed vocabulary %q", ErrSchemaMismatch, c.Name, c.Vocab)
			}
			if err := f.Validate(); err != nil {
				return err
			}
		case Category:
			if _, ok := l.Observed[c.Vocab]; !ok {
				return fmt.Errorf("%w: column %q references missing vocabulary %q", ErrSchemaMismatch, c.Name, c.Vocab)
			}
		default:
			return fmt.Errorf("%w: column %q has unknown kind %q", ErrSchemaMismatch, c.Name, c.Kind)
		}
	}
	return nil
}

// Expect fails with ErrSchemaMismatch unless the layout columns equal names in order
func (l Layout) Expect(names []string) error {
	if got := l.Names(); !slices.Equal(got, names) {
		return fmt.Errorf("%w: columns %v, want %v", ErrSchemaMismatch, got, names)
	}
	return nil
}

// Vector builds the ordered numeric vector for rec
// unknown categories resolve to their default and are reported to obs
func (l Layout) Vector(rec Record, obs UnknownObserver) ([]float64, error) {
	out := make([]float64, len(l.Columns))
	for i, c := range l.Columns {
		raw := strings.TrimSpace(rec[c.Field])
		switch c.Kind {
		case Numeric:
			if raw == "" {
				out[i] = c.Default
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("features: field %q: %q is not a number", c.Field, raw)
			}
			out[i] = v
		case Ordinal:
			v, known := l.Fixed[c.Vocab].Value(raw)
			if !known && raw != "" && obs != nil {
				obs(c.Field, raw)
			}
			out[i] = v
		case Category:
			code, known := l.Observed[c.Vocab].Encode(raw)
			if !known && raw != "" && obs != nil {
				obs(c.Field, raw)
			}
			out[i] = float64(code)
		default:
			return nil, fmt.Errorf("%w: column %q has unknown kind %q", ErrSchemaMismatch, c.Name, c.Kind)
		}
	}
	return out, nil
}

// Matrix vectorizes every record, stopping at the first bad row
func (l Layout) Matrix(recs []Record, obs UnknownObserver) ([][]float64, error) {
	X := make([][]float64, len(recs))
	for i, r := range recs {
		v, err := l.Vector(r, obs)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		X[i] = v
	}
	return X, nil
}

// FormatFloat renders v so that Vector parses it back bit for bit
func FormatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
