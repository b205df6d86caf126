package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tinctd/internal/export"
)

var (
	templateForce    bool
	templateLocation string
)

// templatesCmd represents the templates command.
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage export templates",
	Long: `Manage the templates used for the SCSS, CSS, INI and shell exports.

Templates can be customised by dumping them to ~/.config/tinctd/templates/export/
and editing them. Custom templates are used instead of the embedded ones.
The JSON export is not templated.

Examples:
  tinctd templates list
  tinctd templates dump
  tinctd templates dump --force`,
}

// templatesListCmd lists available templates.
var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List export templates",
	Long: `List all embedded export templates.

Templates with a custom override are marked with an asterisk.`,
	Args: cobra.NoArgs,
	RunE: runTemplatesList,
}

// templatesDumpCmd dumps embedded templates to files.
var templatesDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump embedded templates to files",
	Long: `Extract the embedded export templates to ~/.config/tinctd/templates/export/

Existing custom templates are kept unless --force is given.
Use -l/--location to dump somewhere else.`,
	Args: cobra.NoArgs,
	RunE: runTemplatesDump,
}

func init() {
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesDumpCmd)

	templatesCmd.PersistentFlags().StringVarP(&templateLocation, "location", "l", "", "template directory (default: ~/.config/tinctd/templates/export)")
	templatesDumpCmd.Flags().BoolVarP(&templateForce, "force", "f", false, "overwrite existing custom templates")
}

func templateLoader() *export.TemplateLoader {
	dir := templateLocation
	if dir == "" {
		dir = export.DefaultTemplateDir()
	}
	return export.New(cfg.OutputRoot, export.WithLogger(logger), export.WithTemplateDir(dir)).Templates()
}

func runTemplatesList(cmd *cobra.Command, _ []string) error {
	loader := templateLoader()
	names, err := loader.ListEmbeddedTemplates()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Custom template directory: %s\n", loader.CustomDir())
	fmt.Fprintln(out, "Templates:")

	hasCustom := false
	for _, name := range names {
		if loader.HasCustomTemplate(name) {
			fmt.Fprintf(out, "  - %s*\n", name)
			hasCustom = true
		} else {
			fmt.Fprintf(out, "  - %s\n", name)
		}
	}

	if hasCustom {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Templates with active overrides are shown with an asterisk (*).")
	}
	return nil
}

func runTemplatesDump(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	dumped, err := templateLoader().DumpAllTemplates(templateForce)
	for _, path := range dumped {
		fmt.Fprintf(out, "Dumped %s\n", path)
	}

	if errors.Is(err, export.ErrTemplateExists) {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		fmt.Fprintln(cmd.ErrOrStderr(), "Use --force to overwrite existing templates.")
		return nil
	}
	return err
}
