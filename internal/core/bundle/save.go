package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"custintel/internal/core/classifier"
)

// seams for failure tests
var (
	rename    = os.Rename
	writePart = writeSynced
)

// Save writes b under root/<kind>, replacing any previous bundle as a whole
// parts are staged in a sibling directory and swapped in with renames, so a
// failure at any step leaves the previous bundle untouched
func Save(root string, b Bundle) error {
	kind := b.Config.Kind
	if kind == "" {
		return errors.New("bundle: config has no kind")
	}
	if err := b.Validate(); err != nil {
		return err
	}

	model, err := classifier.Marshal(b.Model)
	if err != nil {
		return fmt.Errorf("bundle %s: %w", kind, err)
	}
	sc, err := json.MarshalIndent(b.Scaler, "", "  ")
	if err != nil {
		return fmt.Errorf("bundle %s: encode scaler: %w", kind, err)
	}
	cfg, err := json.MarshalIndent(b.Config, "", "  ")
	if err != nil {
		return fmt.Errorf("bundle %s: encode config: %w", kind, err)
	}
	parts := map[Part][]byte{PartModel: model, PartScaler: sc, PartConfig: cfg}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("bundle %s: %w", kind, err)
	}
	stage, err := os.MkdirTemp(root, "."+kind+".staging-")
	if err != nil {
		return fmt.Errorf("bundle %s: staging: %w", kind, err)
	}
	defer func() { _ = os.RemoveAll(stage) }()

	for _, p := range Parts {
		if err := writePart(filepath.Join(stage, string(p)), parts[p]); err != nil {
			return fmt.Errorf("bundle %s: write %s: %w", kind, p, err)
		}
	}
	if err := os.Chmod(stage, 0o755); err != nil {
		return fmt.Errorf("bundle %s: %w", kind, err)
	}

	dst := Dir(root, kind)
	var old string
	if _, err := os.Stat(dst); err == nil {
		old = filepath.Join(root, fmt.Sprintf(".%s.old-%d", kind, time.Now().UnixNano()))
		if err := rename(dst, old); err != nil {
			return fmt.Errorf("bundle %s: retire previous: %w", kind, err)
		}
	}
	if err := rename(stage, dst); err != nil {
		if old != "" {
			if rerr := rename(old, dst); rerr != nil {
				return fmt.Errorf("bundle %s: install: %w", kind, errors.Join(err, rerr))
			}
		}
		return fmt.Errorf("bundle %s: install: %w", kind, err)
	}
	if old != "" {
		_ = os.RemoveAll(old)
	}
	return syncDir(root)
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// syncDir flushes directory entries; best effort since some filesystems refuse it
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	_ = d.Sync()
	return d.Close()
}
