package score

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifacts_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := fittedArtifacts()
	require.NoError(t, SaveArtifacts(dir, want))

	got, err := LoadArtifacts(dir)
	require.NoError(t, err)
	assert.Equal(t, want.Transform, got.Transform)
	assert.Equal(t, want.Model, got.Model)
	assert.Equal(t, want.Calibration, got.Calibration)

	require.NotNil(t, got.Manifest)
	assert.Contains(t, got.Manifest.Items, TransformFileName)
	assert.Contains(t, got.Manifest.Items, ModelFileName)
	assert.Contains(t, got.Manifest.Items, CalibrationFileName)
	for name, item := range got.Manifest.Items {
		assert.Len(t, item.SHA256, 64, name)
		assert.Positive(t, item.Bytes, name)
	}
}

func TestLoadArtifacts_MissingTransform(t *testing.T) {
	dir := t.TempDir()
	a := fittedArtifacts()
	require.NoError(t, SaveArtifacts(dir, a))
	require.NoError(t, os.Remove(filepath.Join(dir, TransformFileName)))

	_, err := LoadArtifacts(dir)
	require.Error(t, err)

	var ae *ArtifactMissingError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, filepath.Join(dir, TransformFileName), ae.Path)
}

func TestLoadArtifacts_MissingCalibrationFallsBack(t *testing.T) {
	dir := t.TempDir()
	a := fittedArtifacts()
	a.Calibration = nil
	require.NoError(t, SaveArtifacts(dir, a))

	got, err := LoadArtifacts(dir)
	require.NoError(t, err)
	require.NotNil(t, got.Calibration)
	assert.Equal(t, 1.0, got.Calibration.Slope)
	assert.Equal(t, 0.0, got.Calibration.Intercept)
}

func TestLoadArtifacts_WidthMismatch(t *testing.T) {
	dir := t.TempDir()
	a := fittedArtifacts()
	a.Model.Coefficients = a.Model.Coefficients[:5]
	require.NoError(t, SaveArtifacts(dir, a))

	_, err := LoadArtifacts(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inconsistent")
}

func TestLoadArtifacts_CorruptModel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveArtifacts(dir, fittedArtifacts()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ModelFileName), []byte("{not json"), 0600))

	_, err := LoadArtifacts(dir)
	require.Error(t, err)
}

func TestSaveArtifacts_RequiresTransformAndModel(t *testing.T) {
	err := SaveArtifacts(t.TempDir(), &Artifacts{Model: fittedArtifacts().Model})
	require.Error(t, err)
}
