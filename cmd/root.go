package cmd

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gracestowel/storekit/internal/config"
	"github.com/gracestowel/storekit/internal/logging"
	"github.com/gracestowel/storekit/internal/report"
)

// app carries state resolved in the root pre-run to the subcommands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	table      bool

	cfg *config.Config
}

// wantTable reports whether per-item tables should be printed to w.
func (a *app) wantTable(w io.Writer) bool {
	return a.table || report.IsTerminal(w)
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "storekit",
		Short: "Store setup and documentation maintenance utilities",
		Long: `Storekit bundles two small batch jobs used while setting up the store.

  images   renders labeled placeholder swatches for catalog seeding
  stories  files sprint artifacts into folders named after their status

Configuration comes from a TOML file (see 'storekit config init'), STOREKIT_*
environment variables (a .env file in the working directory is honored) and flags,
in increasing order of precedence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if cmd.Annotations["skipConfigLoad"] == "true" {
				return nil
			}
			cfg, _, _, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.Logging.Level = a.logLevel
			}
			if a.logFormat != "" {
				cfg.Logging.Format = a.logFormat
			}
			if _, err := logging.Install(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: cmd.ErrOrStderr(),
			}); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Configuration file path (default ~/.config/storekit/config.toml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format (text, json)")
	cmd.PersistentFlags().BoolVar(&a.table, "table", false, "Print per-item tables even when output is not a terminal")

	// Add subcommands
	cmd.AddCommand(newImagesCmd(a))
	cmd.AddCommand(newStoriesCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd
}

// pathFlag returns the expanded flag value when the flag was set, else fallback.
func pathFlag(cmd *cobra.Command, name, value, fallback string) (string, error) {
	if !cmd.Flags().Changed(name) {
		return fallback, nil
	}
	expanded, err := config.ExpandPath(value)
	if err != nil {
		return "", fmt.Errorf("--%s: %w", name, err)
	}
	return expanded, nil
}
