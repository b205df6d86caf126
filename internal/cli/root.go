// Package cli provides the command-line interface for tinctd.
package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/tinctd/internal/config"
	"github.com/jmylchreest/tinctd/internal/logging"
	"github.com/jmylchreest/tinctd/internal/version"
)

var (
	// Config file override (--config).
	configFile string

	// Resolved by loadConfig before any command runs.
	cfg    *config.Config
	logger = hclog.NewNullLogger()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "tinctd",
		Short: "Wallpaper-driven Material colour themes",
		Long: `tinctd rotates your wallpaper, extracts its dominant colour and generates a
Material You colour scheme from it.

The scheme is exported as SCSS, CSS, INI, JSON and shell variables, and a sync
script is run afterwards so bars, launchers and terminals can reload.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

// flagKeys maps flag names to the config keys they override. A flag only
// takes effect when it is defined on the running command and set by the user.
var flagKeys = map[string]string{
	"log-level": config.KeyLogLevel,
	"log-json":  config.KeyLogJSON,
	"dir":       config.KeyWallpaperDir,
	"interval":  config.KeyWallpaperInterval,
	"output":    config.KeyOutputRoot,
	"hook":      config.KeySyncHook,
	"mode":      config.KeyThemeMode,
	"backend":   config.KeyDisplayBackend,
	"algorithm": config.KeyExtractAlgorithm,
	"size":      config.KeyExtractSize,
	"fallback":  config.KeyExtractFallback,
	"listen":    config.KeyAPIListen,
	"addr":      config.KeyAPIListen,
	"timeout":   config.KeyPipelineTimeout,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ~/.config/tinctd/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON lines")

	// Set version template
	rootCmd.SetVersionTemplate(version.String() + "\n")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(rotateCmd)
	rootCmd.AddCommand(modeCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(templatesCmd)
}

// loadConfig resolves the configuration for the running command and builds
// the root logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loader := config.NewLoader(config.WithConfigFile(configFile))
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := loader.BindFlag(key, flag); err != nil {
			return err
		}
	}

	c, err := loader.Load()
	if err != nil {
		return err
	}
	cfg = c

	logger = logging.New(logging.Options{
		Level:  c.LogLevel,
		JSON:   c.LogJSON,
		Output: cmd.ErrOrStderr(),
	})
	if c.File != "" {
		logger.Debug("loaded config", "file", c.File)
	}
	return nil
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, commit hash, and Go version.`,
	// Version output must not depend on a readable config file.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}
