package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/floor/internal/httpapi"
	"github.com/example/floor/internal/maintenance"
	"github.com/example/floor/internal/wire"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd returns the serve command.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the order and assignment API over HTTP.

The duplicate-assignment repair also runs on the configured cron schedule
(FLOOR_REPAIR_SCHEDULE, "@daily" by default; "off" or an empty value disables it).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := wire.Default()
			defer c.Close()

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = c.Config.HTTPAddr
			}
			if debug, _ := cmd.Flags().GetBool("debug"); !debug {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, c, addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	cmd.Flags().Bool("debug", false, "Run gin in debug mode")
	return cmd
}

func serve(ctx context.Context, c *wire.Container, addr string) error {
	logger := c.Logger

	scheduler := maintenance.NewScheduler(c.Repair, logger)
	if err := scheduler.Schedule(c.Config.RepairSchedule); err != nil {
		return err
	}
	scheduler.Start()

	router := httpapi.NewRouter(httpapi.Services{
		Scheduling: c.Scheduling,
		Assignment: c.Assignment,
		Catalog:    c.Catalog,
		Repair:     c.Repair,
	}, httpapi.Options{JWTSecret: c.Config.JWTSecret, Logger: logger})

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.Bool("auth", c.Config.AuthEnabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			scheduler.Stop(shutdownCtx)
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	scheduler.Stop(shutdownCtx)
	return err
}
