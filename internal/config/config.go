package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Images contains configuration for the placeholder swatch generator.
type Images struct {
	// OutputDir receives the generated PNG files.
	OutputDir string `toml:"output_dir"`
	// Catalog is an optional YAML, JSONL or Parquet file of image specs.
	// When empty the built-in catalog is used.
	Catalog string `toml:"catalog"`
	// Manifest is an optional path written after a run listing generated files.
	Manifest string `toml:"manifest"`
	// FontPath points at a TTF/OTF/TTC font. Falls back to the bundled Go font.
	FontPath string `toml:"font_path"`
}

// Stories contains configuration for the sprint artifact organizer.
type Stories struct {
	StatusFile    string   `toml:"status_file"`
	BaseDir       string   `toml:"base_dir"`
	Folders       []string `toml:"folders"`
	DefaultFolder string   `toml:"default_folder"`
}

// Config encapsulates all configuration values for storekit.
type Config struct {
	Logging Logging `toml:"logging"`
	Images  Images  `toml:"images"`
	Stories Stories `toml:"stories"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file is not
// an error; defaults and environment overrides apply. The returned config has all
// path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// applyEnv overlays STOREKIT_* environment variables. The root command loads
// .env before config so values from it land here too.
func (c *Config) applyEnv() {
	overrides := []struct {
		key    string
		target *string
	}{
		{"STOREKIT_LOG_LEVEL", &c.Logging.Level},
		{"STOREKIT_LOG_FORMAT", &c.Logging.Format},
		{"STOREKIT_IMAGES_OUTPUT_DIR", &c.Images.OutputDir},
		{"STOREKIT_IMAGES_CATALOG", &c.Images.Catalog},
		{"STOREKIT_IMAGES_FONT", &c.Images.FontPath},
		{"STOREKIT_STORIES_STATUS_FILE", &c.Stories.StatusFile},
		{"STOREKIT_STORIES_BASE_DIR", &c.Stories.BaseDir},
	}
	for _, o := range overrides {
		if value, ok := os.LookupEnv(o.key); ok && strings.TrimSpace(value) != "" {
			*o.target = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalize() error {
	var err error
	if c.Images.OutputDir, err = expandPath(c.Images.OutputDir); err != nil {
		return fmt.Errorf("images.output_dir: %w", err)
	}
	if c.Images.Catalog, err = expandPath(c.Images.Catalog); err != nil {
		return fmt.Errorf("images.catalog: %w", err)
	}
	if c.Images.Manifest, err = expandPath(c.Images.Manifest); err != nil {
		return fmt.Errorf("images.manifest: %w", err)
	}
	if c.Images.FontPath, err = expandPath(c.Images.FontPath); err != nil {
		return fmt.Errorf("images.font_path: %w", err)
	}
	if c.Stories.StatusFile, err = expandPath(c.Stories.StatusFile); err != nil {
		return fmt.Errorf("stories.status_file: %w", err)
	}
	if c.Stories.BaseDir, err = expandPath(c.Stories.BaseDir); err != nil {
		return fmt.Errorf("stories.base_dir: %w", err)
	}

	folders := make([]string, 0, len(c.Stories.Folders))
	for _, f := range c.Stories.Folders {
		if f = strings.TrimSpace(f); f != "" {
			folders = append(folders, f)
		}
	}
	c.Stories.Folders = folders
	c.Stories.DefaultFolder = strings.TrimSpace(c.Stories.DefaultFolder)

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (text, json)", c.Logging.Format)
	}
	if c.Images.OutputDir == "" {
		return errors.New("images.output_dir must be set")
	}
	if c.Stories.StatusFile == "" {
		return errors.New("stories.status_file must be set")
	}
	if c.Stories.BaseDir == "" {
		return errors.New("stories.base_dir must be set")
	}
	if len(c.Stories.Folders) == 0 {
		return errors.New("stories.folders must list at least one folder")
	}
	for _, f := range c.Stories.Folders {
		if strings.ContainsAny(f, `/\`) || f == "." || f == ".." {
			return fmt.Errorf("stories.folders: %q is not a plain folder name", f)
		}
	}
	found := false
	for _, f := range c.Stories.Folders {
		if f == c.Stories.DefaultFolder {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("stories.default_folder %q must be one of stories.folders", c.Stories.DefaultFolder)
	}
	return nil
}

// Sample returns the commented sample configuration.
func Sample() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) (string, error) {
	var b strings.Builder
	enc := toml.NewEncoder(&b)
	if err := enc.Encode(cfg); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}

// expandPath resolves a leading "~" to the home directory and returns an
// absolute path. Empty stays empty.
func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if rest, ok := cutHome(p); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, rest)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}

// cutHome strips a "~" or "~/" prefix. "~user" forms are left alone.
func cutHome(p string) (string, bool) {
	if p == "~" {
		return "", true
	}
	for _, prefix := range []string{"~/", `~\`} {
		if rest, ok := strings.CutPrefix(p, prefix); ok {
			return rest, true
		}
	}
	return "", false
}

// ExpandPath exposes the path expansion rules for flag values.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
