package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// ManifestEntry records one generated swatch file.
type ManifestEntry struct {
	Product string `yaml:"product" json:"product" parquet:"product"`
	Variant string `yaml:"variant" json:"variant" parquet:"variant"`
	Index   int    `yaml:"index" json:"index" parquet:"index"`
	File    string `yaml:"file" json:"file" parquet:"file"`
	Color   string `yaml:"color" json:"color" parquet:"color"`
	Width   int    `yaml:"width" json:"width" parquet:"width"`
	Height  int    `yaml:"height" json:"height" parquet:"height"`
	Bytes   int64  `yaml:"bytes" json:"bytes" parquet:"bytes"`
}

// Manifest is the YAML layout of a manifest file. Entries sit under the same
// "images" key as a catalog, so a manifest can be fed back to the loader.
type Manifest struct {
	GeneratedAt string          `yaml:"generated_at"`
	OutputDir   string          `yaml:"output_dir"`
	Files       []ManifestEntry `yaml:"images"`
}

// NewManifestEntry describes a swatch written to file.
func NewManifestEntry(spec ImageSpec, file string, size int64) ManifestEntry {
	return ManifestEntry{
		Product: spec.Product,
		Variant: spec.Variant,
		Index:   spec.Index,
		File:    file,
		Color:   spec.Color,
		Width:   spec.Width,
		Height:  spec.Height,
		Bytes:   size,
	}
}

// WriteManifest saves entries to path. The extension picks the format:
// .yaml/.yml, .jsonl/.json (one entry per line) or .parquet.
func WriteManifest(path, outputDir string, entries []ManifestEntry) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml", ".jsonl", ".json", ".parquet":
	default:
		return fmt.Errorf("%w: %q (supported: .yaml, .jsonl, .parquet)", ErrUnsupportedFormat, ext)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}

	switch ext {
	case ".yaml", ".yml":
		return writeManifestYAML(path, outputDir, entries)
	case ".parquet":
		return writeManifestParquet(path, entries)
	default:
		return writeManifestJSONL(path, entries)
	}
}

func writeManifestYAML(path, outputDir string, entries []ManifestEntry) error {
	manifest := Manifest{
		GeneratedAt: time.Now().Format(time.RFC3339),
		OutputDir:   outputDir,
		Files:       entries,
	}
	data, err := yaml.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

func writeManifestJSONL(path string, entries []ManifestEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, e := range entries {
		if err := encoder.Encode(e); err != nil {
			return fmt.Errorf("failed to write manifest entry %s: %w", e.File, err)
		}
	}
	return file.Close()
}

func writeManifestParquet(path string, entries []ManifestEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[ManifestEntry](file)
	if _, err := writer.Write(entries); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet: %w", err)
	}
	return file.Close()
}
