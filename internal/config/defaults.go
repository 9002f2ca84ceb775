package config

const (
	defaultConfigPath    = "~/.config/storekit/config.toml"
	defaultLogFormat     = "text"
	defaultLogLevel      = "info"
	defaultImagesOutput  = "uploads"
	defaultStatusFile    = "docs/sprint/sprint-artifacts/sprint-status.yaml"
	defaultStoriesDir    = "docs/sprint/sprint-artifacts"
	defaultStoriesFolder = "backlog"
)

// DefaultStatusFolders are the workflow states a story file can be filed under.
var DefaultStatusFolders = []string{"done", "ready-for-dev", "in-progress", "backlog", "drafted"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	folders := make([]string, len(DefaultStatusFolders))
	copy(folders, DefaultStatusFolders)
	return Config{
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Images: Images{
			OutputDir: defaultImagesOutput,
		},
		Stories: Stories{
			StatusFile:    defaultStatusFile,
			BaseDir:       defaultStoriesDir,
			Folders:       folders,
			DefaultFolder: defaultStoriesFolder,
		},
	}
}
