package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"sheet-storefront/app"
	"sheet-storefront/config"
	"sheet-storefront/db"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, err := app.Initialize(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.CloseDB()

		if err := application.Scheduler.Start(cfg.CatalogRefreshCron); err != nil {
			return err
		}
		defer application.Scheduler.Stop()

		figure.NewFigure("ShopHub", "small", true).Print()
		fmt.Println()

		// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
		addr := "0.0.0.0:" + cfg.Port
		server := &http.Server{
			Addr:              addr,
			Handler:           application.Handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("Server starting on %s", addr)
			log.Printf("Storefront: http://localhost:%s/  Admin: http://localhost:%s/admin", cfg.Port, cfg.Port)
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed to start: %w", err)
			}
			return nil
		case <-ctx.Done():
			log.Printf("🛑 Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
