// Package bundle persists and restores the artifact set of one model type.
//
// A bundle lives in <root>/<kind>/ as three separately loadable files: the
// fitted classifier, the scaler state, and the config carrying the feature
// layout and label vocabulary. Save replaces all three or none; Load names
// every missing part.
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"custintel/internal/core/classifier"
	"custintel/internal/core/codebook"
	"custintel/internal/core/features"
	"custintel/internal/core/scaler"
	"custintel/internal/core/selection"
)

// Part names one persisted file of a bundle
type Part string

// Bundle parts and their file names
const (
	PartModel  Part = "model.json"
	PartScaler Part = "scaler.json"
	PartConfig Part = "config.json"
)

// Model types with a bundle of their own
const (
	KindLead  = "lead_quality"
	KindChurn = "churn"
)

// Parts lists every part in load order
var Parts = []Part{PartModel, PartScaler, PartConfig}

// ErrMissing matches any *MissingError
var ErrMissing = errors.New("bundle: missing artifact")

// MissingError names the parts absent for a model type
type MissingError struct {
	Kind  string
	Dir   string
	Parts []Part
}

func (e *MissingError) Error() string {
	names := make([]string, len(e.Parts))
	for i, p := range e.Parts {
		names[i] = string(p)
	}
	return fmt.Sprintf("bundle %s: missing %s in %s", e.Kind, strings.Join(names, ", "), e.Dir)
}

// Is matches ErrMissing
func (e *MissingError) Is(target error) bool { return target == ErrMissing }

// Config is the config part: everything needed to rebuild vectors and read labels
type Config struct {
	Kind      string           `json:"kind"`
	RunID     string           `json:"run_id,omitempty"`
	TrainedAt time.Time        `json:"trained_at"`
	Layout    features.Layout  `json:"layout"`
	Labels    *codebook.Map    `json:"labels"`
	Selection selection.Report `json:"selection"`
}

// Bundle is a complete artifact set
type Bundle struct {
	Model  classifier.Classifier
	Scaler scaler.State
	Config Config
}

// Validate checks the three parts agree on width and class count
func (b Bundle) Validate() error {
	if b.Model == nil {
		return fmt.Errorf("bundle %s: no model", b.Config.Kind)
	}
	if err := b.Config.Layout.Validate(); err != nil {
		return fmt.Errorf("bundle %s: %w", b.Config.Kind, err)
	}
	if err := b.Scaler.Validate(); err != nil {
		return fmt.Errorf("bundle %s: %w", b.Config.Kind, err)
	}
	w := b.Config.Layout.Width()
	if b.Scaler.Width() != w || b.Model.NumFeatures() != w {
		return fmt.Errorf("bundle %s: %w: layout %d, scaler %d, model %d columns",
			b.Config.Kind, features.ErrSchemaMismatch, w, b.Scaler.Width(), b.Model.NumFeatures())
	}
	if b.Config.Labels.Len() != b.Model.NumClasses() {
		return fmt.Errorf("bundle %s: %d labels but model has %d classes", b.Config.Kind, b.Config.Labels.Len(), b.Model.NumClasses())
	}
	return nil
}

// Dir returns the directory holding kind under root
func Dir(root, kind string) string { return filepath.Join(root, kind) }

// Load reads the bundle for kind from root
func Load(root, kind string) (Bundle, error) {
	dir := Dir(root, kind)
	var missing []Part
	for _, p := range Parts {
		if _, err := os.Stat(filepath.Join(dir, string(p))); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				missing = append(missing, p)
				continue
			}
			return Bundle{}, fmt.Errorf("bundle %s: stat %s: %w", kind, p, err)
		}
	}
	if len(missing) > 0 {
		return Bundle{}, &MissingError{Kind: kind, Dir: dir, Parts: missing}
	}

	var b Bundle
	raw, err := os.ReadFile(filepath.Join(dir, string(PartModel)))
	if err != nil {
		return Bundle{}, fmt.Errorf("bundle %s: read %s: %w", kind, PartModel, err)
	}
	if b.Model, err = classifier.Unmarshal(raw); err != nil {
		return Bundle{}, fmt.Errorf("bundle %s: %s: %w", kind, PartModel, err)
	}
	if err := readJSON(dir, PartScaler, &b.Scaler); err != nil {
		return Bundle{}, fmt.Errorf("bundle %s: %w", kind, err)
	}
	if err := readJSON(dir, PartConfig, &b.Config); err != nil {
		return Bundle{}, fmt.Errorf("bundle %s: %w", kind, err)
	}
	if b.Config.Kind != kind {
		return Bundle{}, fmt.Errorf("bundle %s: config is for %q", kind, b.Config.Kind)
	}
	if err := b.Validate(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

func readJSON(dir string, p Part, v any) error {
	raw, err := os.ReadFile(filepath.Join(dir, string(p)))
	if err != nil {
		return fmt.Errorf("read %s: %w", p, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", p, err)
	}
	return nil
}
