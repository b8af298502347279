package bundle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custintel/internal/core/classifier"
	"custintel/internal/core/codebook"
	"custintel/internal/core/features"
	"custintel/internal/core/scaler"
	"custintel/internal/platform/testkit"
)

func layout() features.Layout {
	return features.Layout{Columns: []features.Column{
		{Name: "a", Field: "a", Kind: features.Numeric},
		{Name: "b", Field: "b", Kind: features.Numeric},
	}}
}

func fixture(t *testing.T, runID string) Bundle {
	t.Helper()
	X := [][]float64{{0, 1}, {1, 0}, {4, 5}, {5, 4}}
	y := []int{0, 0, 1, 1}
	st, err := scaler.Fit(X)
	require.NoError(t, err)
	Z, err := st.TransformAll(X)
	require.NoError(t, err)
	tr, err := classifier.New(classifier.Spec{Kind: classifier.KindLogistic, Params: classifier.Params{"max_iter": 200}})
	require.NoError(t, err)
	m, err := tr.Fit(context.Background(), Z, y, 2)
	require.NoError(t, err)
	return Bundle{
		Model:  m,
		Scaler: st,
		Config: Config{
			Kind:      KindChurn,
			RunID:     runID,
			TrainedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Layout:    layout(),
			Labels:    codebook.ChurnLabels(),
		},
	}
}

func leftovers(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	return out
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	b := fixture(t, "run-1")
	require.NoError(t, Save(root, b))

	got, err := Load(root, KindChurn)
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.Config.RunID)
	assert.True(t, b.Config.TrainedAt.Equal(got.Config.TrainedAt))
	assert.Equal(t, b.Config.Labels.Labels(), got.Config.Labels.Labels())
	assert.Equal(t, b.Scaler, got.Scaler)

	for _, x := range [][]float64{{0, 0}, {4.5, 4.5}, {-3, 9}} {
		want, _ := b.Scaler.Transform(x)
		have, _ := got.Scaler.Transform(x)
		assert.InDeltaSlice(t, b.Model.PredictProba(want), got.Model.PredictProba(have), 1e-12)
	}
	assert.Empty(t, leftovers(t, root))
}

func TestLoadNamesEveryMissingPart(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(root, fixture(t, "run-1")))
	dir := Dir(root, KindChurn)
	require.NoError(t, os.Remove(filepath.Join(dir, string(PartScaler))))
	require.NoError(t, os.Remove(filepath.Join(dir, string(PartConfig))))

	_, err := Load(root, KindChurn)
	require.ErrorIs(t, err, ErrMissing)
	var me *MissingError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, []Part{PartScaler, PartConfig}, me.Parts)
	assert.Contains(t, err.Error(), "scaler.json, config.json")
}

func TestLoadNothingSaved(t *testing.T) {
	_, err := Load(t.TempDir(), KindLead)
	var me *MissingError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, Parts, me.Parts)
	assert.Equal(t, KindLead, me.Kind)
}

func TestLoadRejectsForeignConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(root, fixture(t, "run-1")))
	require.NoError(t, os.Rename(Dir(root, KindChurn), Dir(root, KindLead)))

	_, err := Load(root, KindLead)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `config is for "churn"`)
}

func TestSaveWriteFailureKeepsPrevious(t *testing.T) {
	testkit.Serial(t)
	root := t.TempDir()
	require.NoError(t, Save(root, fixture(t, "run-1")))

	boom := errors.New("disk full")
	testkit.Swap(t, &writePart, func(path string, data []byte) error {
		if filepath.Base(path) == string(PartScaler) {
			return boom
		}
		return writeSynced(path, data)
	})

	err := Save(root, fixture(t, "run-2"))
	require.ErrorIs(t, err, boom)

	got, err := Load(root, KindChurn)
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.Config.RunID)
	assert.Empty(t, leftovers(t, root))
}

func TestSaveInstallFailureRestoresPrevious(t *testing.T) {
	testkit.Serial(t)
	root := t.TempDir()
	require.NoError(t, Save(root, fixture(t, "run-1")))

	boom := errors.New("rename refused")
	calls := 0
	testkit.Swap(t, &rename, func(from, to string) error {
		calls++
		if calls == 2 {
			return boom
		}
		return os.Rename(from, to)
	})

	err := Save(root, fixture(t, "run-2"))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)

	got, err := Load(root, KindChurn)
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.Config.RunID)
	assert.Empty(t, leftovers(t, root))
}

func TestSaveReplacesWholeBundle(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(root, fixture(t, "run-1")))
	require.NoError(t, Save(root, fixture(t, "run-2")))

	got, err := Load(root, KindChurn)
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.Config.RunID)
	assert.Empty(t, leftovers(t, root))
}

func TestValidateWidthMismatch(t *testing.T) {
	b := fixture(t, "run-1")
	b.Config.Layout.Columns = append(b.Config.Layout.Columns, features.Column{Name: "c", Field: "c", Kind: features.Numeric})

	err := Save(t.TempDir(), b)
	require.ErrorIs(t, err, features.ErrSchemaMismatch)
}

func TestValidateLabelCount(t *testing.T) {
	b := fixture(t, "run-1")
	b.Config.Labels = codebook.LeadLabels()
	assert.ErrorContains(t, b.Validate(), "3 labels but model has 2 classes")
}

func TestSaveNeedsKind(t *testing.T) {
	b := fixture(t, "run-1")
	b.Config.Kind = ""
	assert.Error(t, Save(t.TempDir(), b))
}
