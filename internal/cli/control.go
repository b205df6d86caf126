package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tinctd/internal/api"
	"github.com/jmylchreest/tinctd/internal/wallpaper"
)

var controlJSON bool

var setCmd = &cobra.Command{
	Use:   "set <image>",
	Short: "Set the wallpaper and regenerate colours",
	Long: `Set the wallpaper through the running daemon.

If no daemon is listening, the wallpaper is applied and its colours exported
by this process instead. A change already in progress is not interrupted; the
request is dropped.`,
	Example: `  tinctd set ~/.config/wallpapers/forest.jpg`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The daemon resolves relative paths against its own working directory.
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		return control(cmd, func(ctx context.Context, c *api.Client) (wallpaper.State, error) {
			return c.SetWallpaper(ctx, path)
		}, func(ctx context.Context, svc *wallpaper.Service) error {
			return svc.SetWallpaper(ctx, path)
		})
	},
}

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Switch to a random different wallpaper",
	Long: `Switch to a random wallpaper from the wallpaper directory, never the current
one. Without a running daemon a random wallpaper is applied by this process.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return control(cmd, func(ctx context.Context, c *api.Client) (wallpaper.State, error) {
			return c.Rotate(ctx)
		}, func(ctx context.Context, svc *wallpaper.Service) error {
			return svc.Rotate(ctx)
		})
	},
}

var modeCmd = &cobra.Command{
	Use:       "mode dark|light",
	Short:     "Switch the daemon between dark and light schemes",
	Long:      `Switch the running daemon between dark and light. The current theme is re-exported for the new mode and the sync script is run.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"dark", "light"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := strings.ToLower(args[0])
		if mode != "dark" && mode != "light" {
			return fmt.Errorf("invalid mode %q: must be dark or light", args[0])
		}
		return control(cmd, func(ctx context.Context, c *api.Client) (wallpaper.State, error) {
			return c.SetDarkMode(ctx, mode == "dark")
		}, nil)
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the daemon's current wallpaper and colours",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return control(cmd, func(ctx context.Context, c *api.Client) (wallpaper.State, error) {
			return c.State(ctx)
		}, nil)
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Stream daemon events as JSON lines",
	Long: `Print every wallpaper-changed, colors-generated and mode-changed event from
the running daemon as one JSON object per line until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := api.NewClient(cfg.APIListen)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		return client.Events(cmd.Context(), func(ev wallpaper.Event) {
			if err := enc.Encode(ev); err != nil {
				logger.Warn("failed to write event", "error", err)
			}
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{setCmd, rotateCmd, modeCmd, stateCmd, eventsCmd} {
		c.Flags().String("addr", "", "daemon control API address")
	}
	for _, c := range []*cobra.Command{setCmd, rotateCmd, modeCmd, stateCmd} {
		c.Flags().BoolVar(&controlJSON, "json", false, "print the resulting state as JSON")
	}
	// Local fallback settings for set and rotate.
	for _, c := range []*cobra.Command{setCmd, rotateCmd} {
		c.Flags().String("backend", "", "wallpaper backend when no daemon is running")
		c.Flags().String("output", "", "export root when no daemon is running")
	}
	rotateCmd.Flags().String("dir", "", "wallpaper directory when no daemon is running")
}

// control runs remote against the daemon. When the daemon is not running
// and local is non-nil, local runs against a one-shot service instead.
func control(cmd *cobra.Command,
	remote func(context.Context, *api.Client) (wallpaper.State, error),
	local func(context.Context, *wallpaper.Service) error,
) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.APIListen != "" {
		client, err := api.NewClient(cfg.APIListen)
		if err != nil {
			return err
		}
		st, err := remote(ctx, client)
		if err == nil {
			return printState(cmd.OutOrStdout(), st, controlJSON)
		}
		if !errors.Is(err, api.ErrNotRunning) || local == nil {
			return err
		}
		logger.Debug("daemon not running, handling request locally", "addr", cfg.APIListen)
	} else if local == nil {
		return fmt.Errorf("%w: api.listen is disabled", api.ErrNotRunning)
	}

	svc, err := newService(cfg, nil, logger)
	if err != nil {
		return err
	}
	if err := local(ctx, svc); err != nil {
		return err
	}
	return printState(cmd.OutOrStdout(), svc.State(), controlJSON)
}

func printState(w io.Writer, st wallpaper.State, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	wall := st.Wallpaper
	if wall == "" {
		wall = "(none)"
	}
	fmt.Fprintf(w, "Wallpaper: %s\n", wall)
	fmt.Fprintf(w, "Mode:      %s\n", st.Mode)
	if st.Theme != nil {
		fmt.Fprintf(w, "Source:    %s\n", st.Theme.Source.Hex())
		fmt.Fprintf(w, "Primary:   %s\n", st.Theme.Scheme(st.Dark).Primary.Hex())
	}
	if st.Transitioning {
		fmt.Fprintf(w, "Stage:     %s\n", st.Stage)
	}
	return nil
}
