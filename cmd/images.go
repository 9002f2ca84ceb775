package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gracestowel/storekit/internal/catalog"
	"github.com/gracestowel/storekit/internal/images"
	"github.com/gracestowel/storekit/internal/report"
)

func newImagesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Placeholder product image tools",
	}

	cmd.AddCommand(newImagesGenerateCmd(a))
	cmd.AddCommand(newImagesListCmd(a))

	return cmd
}

func newImagesGenerateCmd(a *app) *cobra.Command {
	var catalogPath, outputDir, manifest, fontPath string
	var products []string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render solid-color swatches for every catalog entry",
		Long: `Renders one PNG per catalog entry: a solid fill in the variant color with a
faint dot texture and the product name, variant name and image number centered
on top. Files are named {product}-{variant}-0{index}.png.

A failing entry is reported and counted without stopping the batch. The command
exits non-zero when any entry failed.`,
		Example: `  # Render the built-in catalog into ./uploads
  storekit images generate

  # Render a custom catalog and record what was written
  storekit images generate --catalog catalog.yaml --manifest uploads/manifest.parquet

  # Only re-render two products with a specific font
  storekit images generate --product nuzzle --product hearth --font /System/Library/Fonts/Helvetica.ttc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Images
			var err error
			if cfg.Catalog, err = pathFlag(cmd, "catalog", catalogPath, cfg.Catalog); err != nil {
				return err
			}
			if cfg.OutputDir, err = pathFlag(cmd, "output", outputDir, cfg.OutputDir); err != nil {
				return err
			}
			if cfg.Manifest, err = pathFlag(cmd, "manifest", manifest, cfg.Manifest); err != nil {
				return err
			}
			if cfg.FontPath, err = pathFlag(cmd, "font", fontPath, cfg.FontPath); err != nil {
				return err
			}

			specs, err := catalog.Load(cfg.Catalog)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			specs = catalog.Filter(specs, products)
			if len(specs) == 0 {
				return fmt.Errorf("no catalog entries to render")
			}

			fonts := images.LoadFonts(cfg.FontPath)
			defer fonts.Close()

			gen := images.NewGenerator(cfg.OutputDir, fonts)
			gen.Manifest = cfg.Manifest

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Generating optimized product images...")
			fmt.Fprintf(out, "Output directory: %s\n", cfg.OutputDir)

			summary, err := gen.Run(cmd.Context(), specs)
			if err != nil {
				return err
			}
			report.Images(out, summary, a.wantTable(out))
			return summary.Err()
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file (.yaml, .jsonl, .parquet); built-in catalog when unset")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for PNG files")
	cmd.Flags().StringVar(&manifest, "manifest", "", "Write a manifest of generated files (.yaml, .jsonl, .parquet)")
	cmd.Flags().StringVar(&fontPath, "font", "", "Label font file (TTF, OTF or TTC)")
	cmd.Flags().StringSliceVarP(&products, "product", "p", nil, "Only render these products (repeatable)")

	return cmd
}

func newImagesListCmd(a *app) *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show catalog entries and the files they produce",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pathFlag(cmd, "catalog", catalogPath, a.cfg.Images.Catalog)
			if err != nil {
				return err
			}
			specs, err := catalog.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			report.Catalog(cmd.OutOrStdout(), specs, a.cfg.Images.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file (.yaml, .jsonl, .parquet); built-in catalog when unset")

	return cmd
}
