package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gracestowel/storekit/internal/organizer"
	"github.com/gracestowel/storekit/internal/report"
	"github.com/gracestowel/storekit/internal/sprint"
)

func newStoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stories",
		Short: "Sprint artifact tools",
	}

	cmd.AddCommand(newStoriesOrganizeCmd(a))

	return cmd
}

func newStoriesOrganizeCmd(a *app) *cobra.Command {
	var statusFile, baseDir string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Move story files into folders named after their status",
		Long: `Reads the sprint status file and moves every referenced story file from the
top of the artifacts directory into the folder matching its status. Statuses
outside the configured folder list go to the default folder (backlog).

Files that are not at the top level are skipped, so the command can be re-run
safely. Errors moving individual files are reported but do not change the
exit status.`,
		Example: `  # Organize using the configured paths
  storekit stories organize

  # Preview against another checkout
  storekit stories organize --base-dir ../shop/docs/sprint/sprint-artifacts \
    --status-file ../shop/docs/sprint/sprint-artifacts/sprint-status.yaml --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Stories
			var err error
			if cfg.StatusFile, err = pathFlag(cmd, "status-file", statusFile, cfg.StatusFile); err != nil {
				return err
			}
			if cfg.BaseDir, err = pathFlag(cmd, "base-dir", baseDir, cfg.BaseDir); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Parsing %s...\n", cfg.StatusFile)
			records, err := sprint.ReadStatusFile(cfg.StatusFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Found %d stories with paths\n", len(records))

			org := organizer.New(cfg.BaseDir, cfg.Folders, cfg.DefaultFolder)
			org.DryRun = dryRun

			summary, err := org.Organize(cmd.Context(), records)
			if err != nil {
				return err
			}
			report.Stories(out, summary, a.wantTable(out))
			fmt.Fprintln(out, "Done!")
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFile, "status-file", "", "Sprint status YAML file")
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "Directory holding the story files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report planned moves without touching files")

	return cmd
}
