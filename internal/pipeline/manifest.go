package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"idphoto/internal/facefit"
)

// Artifact is one written output with its on-disk size.
type Artifact struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// StageTiming records wall time for one pipeline stage.
type StageTiming struct {
	Stage  string  `json:"stage"`
	Millis float64 `json:"millis"`
}

// Manifest is the processing record written next to the artifacts.
type Manifest struct {
	Version int       `json:"version"`
	Created time.Time `json:"created"`

	Input    string `json:"input"`
	Country  string `json:"country"`
	Document string `json:"document"`

	Fit facefit.Result `json:"fit"`

	Photo        Artifact `json:"photo"`
	Preview      Artifact `json:"preview,omitempty"`
	PrintSheet   Artifact `json:"print_sheet,omitempty"`
	PrintPreview Artifact `json:"print_preview,omitempty"`

	Timings []StageTiming `json:"timings,omitempty"`
}

// NewManifest creates a manifest for one processing run.
func NewManifest(input, country, document string) *Manifest {
	return &Manifest{
		Version:  1,
		Created:  time.Now(),
		Input:    input,
		Country:  country,
		Document: document,
	}
}

func (m *Manifest) addTiming(stage string, start time.Time) {
	m.Timings = append(m.Timings, StageTiming{
		Stage:  stage,
		Millis: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// Save writes the manifest as indented JSON.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	return &m, nil
}

func artifact(path string) Artifact {
	a := Artifact{Path: path}
	if fi, err := os.Stat(path); err == nil {
		a.SizeBytes = fi.Size()
	}
	return a
}
