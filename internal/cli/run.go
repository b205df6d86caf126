package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/tinctd/internal/api"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the wallpaper daemon",
	Long: `Run the wallpaper daemon in the foreground.

On start the wallpaper directory is created if missing, a random wallpaper is
applied and its colours exported, then the wallpaper rotates on a fixed
interval. The control API listens on api.listen unless it is empty.

The daemon stops on SIGINT or SIGTERM.`,
	Example: `  # Run with defaults
  tinctd run

  # Rotate every 15 minutes using swww, without the control API
  tinctd run --interval 15m --backend swww --listen ""`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	runCmd.Flags().String("dir", "", "wallpaper directory")
	runCmd.Flags().Duration("interval", 0, "rotation interval")
	runCmd.Flags().String("output", "", "export root directory")
	runCmd.Flags().String("hook", "", "sync script run after every export")
	runCmd.Flags().String("mode", "", "initial theme mode (dark, light)")
	runCmd.Flags().String("backend", "", "wallpaper backend (auto, hyprpaper, swww, swaybg)")
	runCmd.Flags().String("algorithm", "", "dominant colour algorithm (dominant, kmeans, prominent)")
	runCmd.Flags().String("listen", "", "control API address, empty disables")
	runCmd.Flags().Duration("timeout", 0, "bound on one wallpaper change, 0 disables")
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService(cfg, nil, logger)
	if err != nil {
		return err
	}

	logger.Info("starting",
		"dir", cfg.WallpaperDir,
		"interval", cfg.WallpaperInterval,
		"backend", cfg.DisplayBackend,
		"mode", cfg.Mode(),
		"output", cfg.OutputRoot)

	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.APIListen != "" {
		server := api.NewServer(svc, logger)
		defer server.Close()
		g.Go(func() error {
			return server.ListenAndServe(gctx, cfg.APIListen)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	err = g.Wait()
	logger.Info("shutting down")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
