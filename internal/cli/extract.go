package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tinctd/internal/colour"
)

var (
	// Extract command flags
	extractFormat string
	extractOutput string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Generate a Material colour scheme from an image",
	Long: `Generate the light and dark Material colour schemes for an image and print
them. Nothing is written to the export directory.

Supported image formats: JPEG, PNG, GIF, WebP

Formats:
  table  role, light and dark columns with colour swatches on a terminal
  json   the theme as JSON (source, dark and light schemes)
  hex    one "role #rrggbb" line per role for the configured mode`,
	Example: `  # Show both schemes
  tinctd extract wallpaper.jpg

  # Light scheme as hex lines, using k-means
  tinctd extract --format hex --mode light --algorithm kmeans wallpaper.png

  # Save the theme as JSON
  tinctd extract -f json -o theme.json wallpaper.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "table", "output format (table, json, hex)")
	extractCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "write to file instead of stdout")
	extractCmd.Flags().String("mode", "", "scheme for hex output (dark, light)")
	extractCmd.Flags().StringP("algorithm", "a", "", "dominant colour algorithm (dominant, kmeans, prominent)")
	extractCmd.Flags().Int("size", 0, "downsample edge length before quantization, 0 disables")
	extractCmd.Flags().String("fallback", "", "source colour used when extraction fails")
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, args []string) error {
	switch extractFormat {
	case "table", "json", "hex":
	default:
		return fmt.Errorf("invalid format %q (valid formats: table, json, hex)", extractFormat)
	}

	extractor, err := newExtractor(cfg, logger)
	if err != nil {
		return err
	}

	theme, err := extractor.Extract(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if extractOutput != "" {
		f, err := os.Create(extractOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return writeTheme(out, theme, extractFormat, cfg.Dark)
}

func writeTheme(w io.Writer, theme colour.Theme, format string, dark bool) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(theme, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode theme: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "hex":
		for _, role := range theme.Scheme(dark).Roles() {
			if _, err := fmt.Fprintf(w, "%s %s\n", role.Name, role.Value.Hex()); err != nil {
				return err
			}
		}
		return nil

	default:
		r := newRenderer(w)
		lightRoles, darkRoles := theme.Light.Roles(), theme.Dark.Roles()
		table := NewTable("ROLE", "LIGHT", "DARK")
		for i, role := range lightRoles {
			table.AddRow(role.Name, swatch(r, role.Value), swatch(r, darkRoles[i].Value))
		}
		_, err := io.WriteString(w, table.Render())
		return err
	}
}
