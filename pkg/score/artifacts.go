package score

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const (
	TransformFileName   = "transform.json"
	ModelFileName       = "model.json"
	CalibrationFileName = "calibration.json"
	ManifestFileName    = "manifest.json"

	artifactFileMode = 0600
)

// Artifacts is the persisted set this core reads: a fitted feature
// transform, a fitted estimator, and a calibration parameter set, all
// produced by the external training collaborator and versioned by the
// manifest.
type Artifacts struct {
	Transform   *Transform   `json:"transform"`
	Model       *Model       `json:"model"`
	Calibration *Calibration `json:"calibration"`
	Manifest    *Manifest    `json:"manifest,omitempty"`
}

// Manifest inventories the artifact files.
type Manifest struct {
	Version string                  `json:"version,omitempty"`
	Created string                  `json:"created,omitempty"`
	Items   map[string]ManifestItem `json:"items"`
}

type ManifestItem struct {
	SHA256 string `json:"sha256"`
	Bytes  int64  `json:"bytes"`
}

// LoadArtifacts reads the artifact set from dir. A missing transform or
// model is an ArtifactMissingError; a missing calibration falls back to
// identity with a warning; a missing manifest is ignored.
func LoadArtifacts(dir string) (*Artifacts, error) {
	a := &Artifacts{}

	if err := readArtifact(filepath.Join(dir, TransformFileName), &a.Transform, true); err != nil {
		return nil, err
	}
	if err := readArtifact(filepath.Join(dir, ModelFileName), &a.Model, true); err != nil {
		return nil, err
	}

	if err := readArtifact(filepath.Join(dir, CalibrationFileName), &a.Calibration, false); err != nil {
		return nil, err
	}
	if a.Calibration == nil {
		slog.Warn("calibration artifact not found, using identity calibration", "dir", dir)
		a.Calibration = identityCalibration()
	}

	if err := readArtifact(filepath.Join(dir, ManifestFileName), &a.Manifest, false); err != nil {
		return nil, err
	}

	if err := a.Model.validate(a.Transform); err != nil {
		return nil, errors.Wrap(err, "artifact set is inconsistent")
	}

	return a, nil
}

// SaveArtifacts persists the artifact set to dir and writes a fresh
// manifest over it.
func SaveArtifacts(dir string, a *Artifacts) error {
	if a == nil || a.Transform == nil || a.Model == nil {
		return errors.New("artifact set requires a transform and a model")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrapf(err, "failed to create artifacts dir: %s", dir)
	}

	files := map[string]any{
		TransformFileName: a.Transform,
		ModelFileName:     a.Model,
	}
	if a.Calibration != nil {
		files[CalibrationFileName] = a.Calibration
	}

	m := &Manifest{
		Version: "1",
		Created: time.Now().UTC().Format(time.RFC3339),
		Items:   make(map[string]ManifestItem, len(files)),
	}

	for name, v := range files {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrapf(err, "failed to marshal artifact: %s", name)
		}
		if err := os.WriteFile(filepath.Join(dir, name), b, artifactFileMode); err != nil {
			return errors.Wrapf(err, "failed to write artifact: %s", name)
		}
		sum := sha256.Sum256(b)
		m.Items[name] = ManifestItem{SHA256: hex.EncodeToString(sum[:]), Bytes: int64(len(b))}
	}

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal manifest")
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), b, artifactFileMode); err != nil {
		return errors.Wrap(err, "failed to write manifest")
	}

	a.Manifest = m
	return nil
}

func readArtifact(path string, target any, required bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if required {
				return &ArtifactMissingError{Path: path}
			}
			return nil
		}
		return errors.Wrapf(err, "failed to read artifact: %s", path)
	}
	if err := json.Unmarshal(b, target); err != nil {
		return errors.Wrapf(err, "failed to parse artifact: %s", path)
	}
	return nil
}
