package intent

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/JaimeStill/companion/pkg/embedding"
)

// Artifact file names within a run directory.
const (
	ManifestFile = "manifest.json"
	HeadFile     = "head.json"

	formatVersion = 1
)

// Manifest describes a trained classifier artifact.
type Manifest struct {
	FormatVersion int                  `json:"format_version"`
	ID            string               `json:"id"`
	CreatedAt     time.Time            `json:"created_at"`
	Labels        []string             `json:"labels"`
	Encoder       embedding.Descriptor `json:"encoder"`
	Preprocess    Preprocess           `json:"preprocess"`
	Training      TrainConfig          `json:"training"`
	Metrics       Metrics              `json:"metrics"`
	Stopped       bool                 `json:"stopped"`
	HeadSHA256    string               `json:"head_sha256"`
}

// writeArtifact writes result into dir, which must already exist.
func writeArtifact(dir, id string, result *Result) (*Manifest, error) {
	headData, err := json.Marshal(result.Head)
	if err != nil {
		return nil, fmt.Errorf("marshal head: %w", err)
	}
	sum := sha256.Sum256(headData)

	m := &Manifest{
		FormatVersion: formatVersion,
		ID:            id,
		CreatedAt:     result.FinishedAt,
		Labels:        result.Labels.Labels(),
		Encoder:       result.Encoder,
		Preprocess:    result.Config.Preprocess,
		Training:      result.Config,
		Metrics:       result.Metrics,
		Stopped:       result.Stopped,
		HeadSHA256:    hex.EncodeToString(sum[:]),
	}

	manifestData, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, HeadFile), headData, 0o644); err != nil {
		return nil, fmt.Errorf("write head: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), manifestData, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	return m, nil
}

// ReadManifest reads the manifest of the artifact at dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s has no manifest", ErrArtifactLoad, dir)
		}
		return nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parse manifest: %w", ErrArtifactLoad, err)
	}
	if m.FormatVersion != formatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrArtifactLoad, m.FormatVersion)
	}
	return &m, nil
}

// readArtifact loads and verifies the manifest and head at dir.
func readArtifact(dir string) (*Manifest, *LabelSpace, *Head, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, nil, nil, err
	}

	labels, err := NewLabelSpace(m.Labels)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}

	data, err := os.ReadFile(filepath.Join(dir, HeadFile))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}

	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != m.HeadSHA256 {
		return nil, nil, nil, fmt.Errorf("%w: head checksum mismatch", ErrArtifactLoad)
	}

	var head Head
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: parse head: %w", ErrArtifactLoad, err)
	}
	if err := head.validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}
	if head.Classes() != labels.Len() {
		return nil, nil, nil, fmt.Errorf("%w: head has %d classes for %d labels", ErrArtifactLoad, head.Classes(), labels.Len())
	}
	if m.Encoder.Dimensions != 0 && head.Dims() != m.Encoder.Dimensions {
		return nil, nil, nil, fmt.Errorf("%w: head expects %d dims, encoder recorded %d", ErrArtifactLoad, head.Dims(), m.Encoder.Dimensions)
	}

	return m, labels, &head, nil
}
