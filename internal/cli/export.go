package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tinctd/internal/export"
	"github.com/jmylchreest/tinctd/internal/synchook"
)

var (
	// Export command flags
	exportDryRun bool
	exportSync   bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <image>",
	Short: "Export the colour scheme of an image without changing the wallpaper",
	Long: `Generate the colour scheme of an image and write every export format below
the output root:

  styles/_material-colors.scss
  styles/exports/material-colors.css
  styles/exports/material-colors.conf
  styles/exports/material-colors.json
  styles/exports/material-colors.sh

Templates in ~/.config/tinctd/templates/export override the built-in ones.`,
	Example: `  # Export the dark scheme and run the sync script
  tinctd export --sync wallpaper.jpg

  # Preview the light scheme exports
  tinctd export --mode light --dry-run wallpaper.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportDryRun, "dry-run", false, "print the rendered files instead of writing them")
	exportCmd.Flags().BoolVar(&exportSync, "sync", false, "run the sync script after writing")
	exportCmd.Flags().String("mode", "", "scheme to export (dark, light)")
	exportCmd.Flags().StringP("output", "o", "", "export root directory")
	exportCmd.Flags().String("hook", "", "sync script path")
	exportCmd.Flags().StringP("algorithm", "a", "", "dominant colour algorithm (dominant, kmeans, prominent)")
	exportCmd.Flags().Int("size", 0, "downsample edge length before quantization, 0 disables")
	exportCmd.Flags().String("fallback", "", "source colour used when extraction fails")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	extractor, err := newExtractor(cfg, logger)
	if err != nil {
		return err
	}
	theme, err := extractor.Extract(ctx, args[0])
	if err != nil {
		return err
	}

	exporter := newExporter(cfg, logger)
	scheme := theme.Scheme(cfg.Dark)
	out := cmd.OutOrStdout()

	if exportDryRun {
		rendered, err := exporter.Render(scheme, cfg.Dark)
		if err != nil {
			return err
		}
		for i, f := range export.Formats {
			fmt.Fprintf(out, "==> %s <==\n%s\n", exporter.Paths()[i], rendered[f.Name])
		}
		return nil
	}

	if err := exporter.ExportAll(scheme, cfg.Dark); err != nil {
		return err
	}
	for _, path := range exporter.Paths() {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}

	if exportSync {
		// Failure is reported by the hook's logger; the export itself succeeded.
		_ = synchook.New(cfg.SyncHook, newRunner(), logger).Run(ctx)
	}
	return nil
}
