package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/finance-engine/api"
	"github.com/warp/finance-engine/config"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	var overrides config.Overrides

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server. Same as the standalone server binary.

Examples:
  fincalc serve
  fincalc serve --config server.toml --port 3000
  fincalc serve --db memory --redis localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithOverrides(cfgPath, overrides)
			if err != nil {
				return err
			}
			app, err := api.NewApp(cfg)
			if err != nil {
				return err
			}

			errs := app.Start()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case <-ctx.Done():
			case err := <-errs:
				if err != nil {
					app.Close()
					return err
				}
			}

			log.Println("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := app.Shutdown(shutdownCtx); err != nil {
				return err
			}
			log.Println("Server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "Config file (.yaml, .yml or .toml)")
	cmd.Flags().IntVar(&overrides.Port, "port", 0, "HTTP server port")
	cmd.Flags().StringVar(&overrides.DB, "db", "", "SQLite database path, or \"memory\"")
	cmd.Flags().StringVar(&overrides.Redis, "redis", "", "Redis address for the result cache")
	return cmd
}
