package catalog

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// ErrUnsupportedFormat is returned for catalog or manifest paths with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrEmptyCatalog is returned when a catalog file yields no images.
var ErrEmptyCatalog = errors.New("catalog contains no images")

// Default returns the built-in catalog.
func Default() ([]ImageSpec, error) {
	return decodeYAML(defaultCatalog)
}

// Loader reads image specs from a catalog file.
type Loader struct {
	path string
}

// NewLoader creates a new catalog loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load loads specs from a catalog file (YAML, JSONL or Parquet).
// A file without any entries is an error.
func (l *Loader) Load() ([]ImageSpec, error) {
	specs, err := l.load()
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%s: %w", l.path, ErrEmptyCatalog)
	}
	return specs, nil
}

func (l *Loader) load() ([]ImageSpec, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".yaml", ".yml":
		return l.loadYAML()
	case ".jsonl", ".json":
		return l.loadJSONL()
	case ".parquet":
		return l.loadParquet()
	default:
		return nil, fmt.Errorf("%w: %q (supported: .yaml, .jsonl, .parquet)", ErrUnsupportedFormat, ext)
	}
}

// Load reads the catalog at path, or the built-in catalog when path is empty.
func Load(path string) ([]ImageSpec, error) {
	if path == "" {
		slog.Debug("Using built-in catalog")
		return Default()
	}
	return NewLoader(path).Load()
}

func (l *Loader) loadYAML() ([]ImageSpec, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	specs, err := decodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	slog.Debug("Loaded YAML catalog", "path", l.path, "specs", len(specs))
	return specs, nil
}

func decodeYAML(data []byte) ([]ImageSpec, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if len(file.Images) == 0 {
		return nil, fmt.Errorf("%w: expected a top-level \"images\" list", ErrEmptyCatalog)
	}
	return file.Images, nil
}

func (l *Loader) loadJSONL() ([]ImageSpec, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	var specs []ImageSpec
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var spec ImageSpec
		if err := json.Unmarshal([]byte(line), &spec); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		specs = append(specs, spec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}

	slog.Debug("Loaded JSONL catalog", "path", l.path, "specs", len(specs), "lines", lineNum)
	return specs, nil
}

func (l *Loader) loadParquet() ([]ImageSpec, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet catalog opened", "path", l.path, "num_rows", pf.NumRows())

	reader := parquet.NewGenericReader[ImageSpec](pf)
	defer reader.Close()

	specs := make([]ImageSpec, 0, pf.NumRows())
	rows := make([]ImageSpec, 64)
	for {
		n, err := reader.Read(rows)
		specs = append(specs, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return specs, nil
}
