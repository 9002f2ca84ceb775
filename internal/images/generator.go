package images

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gracestowel/storekit/internal/catalog"
)

// ErrGenerationFailed reports that at least one swatch could not be written.
var ErrGenerationFailed = errors.New("image generation failed")

// Result is the outcome of rendering one spec.
type Result struct {
	Spec  catalog.ImageSpec
	Path  string
	Bytes int64
	Err   error
}

// Summary aggregates a generator run.
type Summary struct {
	OutputDir string
	Results   []Result
	Generated int
	Errors    int
}

// Err returns ErrGenerationFailed wrapped with counts when any item failed.
func (s Summary) Err() error {
	if s.Errors == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d images", ErrGenerationFailed, s.Errors, len(s.Results))
}

// Generator renders specs into OutputDir one at a time.
type Generator struct {
	OutputDir string
	Fonts     *FontSet
	// Manifest, when set, is written after the run with every generated file.
	Manifest string
}

// NewGenerator creates a generator writing into outputDir.
func NewGenerator(outputDir string, fonts *FontSet) *Generator {
	return &Generator{OutputDir: outputDir, Fonts: fonts}
}

// Run renders every spec. Per-item failures are logged and counted and never
// stop the batch; the returned error covers only setup and manifest failures.
func (g *Generator) Run(ctx context.Context, specs []catalog.ImageSpec) (Summary, error) {
	summary := Summary{
		OutputDir: g.OutputDir,
		Results:   make([]Result, 0, len(specs)),
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return summary, fmt.Errorf("failed to create output directory: %w", err)
	}

	slog.Info("Generating product images", "output", g.OutputDir, "count", len(specs))

	for i, spec := range specs {
		var res Result
		if err := ctx.Err(); err != nil {
			res = Result{Spec: spec, Err: err}
		} else {
			res = g.generate(spec)
		}
		summary.Results = append(summary.Results, res)

		if res.Err != nil {
			summary.Errors++
			slog.Error("Failed to generate", "image", spec.BaseName(), "progress", fmt.Sprintf("%d/%d", i+1, len(specs)), "error", res.Err)
			continue
		}
		summary.Generated++
		slog.Info("Generated", "file", spec.Filename(), "size_kb", fmt.Sprintf("%.1f", float64(res.Bytes)/1024))
	}

	if g.Manifest != "" {
		if err := g.writeManifest(summary); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

func (g *Generator) generate(spec catalog.ImageSpec) Result {
	path := filepath.Join(g.OutputDir, spec.Filename())
	res := Result{Spec: spec, Path: path}

	if err := catalog.Validate(spec); err != nil {
		res.Err = err
		return res
	}

	img, err := Render(spec, g.Fonts)
	if err != nil {
		res.Err = fmt.Errorf("render: %w", err)
		return res
	}

	if err := writePNG(path, img); err != nil {
		res.Err = err
		return res
	}

	info, err := os.Stat(path)
	if err != nil {
		res.Err = fmt.Errorf("stat output: %w", err)
		return res
	}
	res.Bytes = info.Size()
	return res
}

// writePNG encodes img to path and removes the partial file on failure.
func writePNG(path string, img image.Image) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := Encode(file, img); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func (g *Generator) writeManifest(summary Summary) error {
	entries := make([]catalog.ManifestEntry, 0, summary.Generated)
	for _, r := range summary.Results {
		if r.Err != nil {
			continue
		}
		entries = append(entries, catalog.NewManifestEntry(r.Spec, filepath.Base(r.Path), r.Bytes))
	}
	if err := catalog.WriteManifest(g.Manifest, g.OutputDir, entries); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	slog.Info("Wrote manifest", "path", g.Manifest, "files", len(entries))
	return nil
}
