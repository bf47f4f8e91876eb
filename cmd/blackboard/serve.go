package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/blackboard/internal/presentation/tui"
	httpAdapter "github.com/aretw0/blackboard/pkg/adapters/http"
	"github.com/aretw0/blackboard/pkg/library"
	"github.com/aretw0/blackboard/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the template HTTP server",
	Long:  `Serves the template store over a JSON API with Prometheus metrics on /metrics.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		validate, _ := cmd.Flags().GetBool("validate")

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		// 1. Metrics
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		// 2. Library
		m, closer, err := newManager(cmd,
			library.WithHooks(metrics.LibraryHooks()),
			library.WithRegistryHooks(metrics.Hooks()),
		)
		if err != nil {
			return err
		}
		defer closer.Close()

		// 3. HTTP
		handler, err := httpAdapter.NewHandler(m,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(reg),
			httpAdapter.WithValidation(validate),
		)
		if err != nil {
			return err
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(cmd.ErrOrStderr())
			fmt.Fprintf(cmd.ErrOrStderr(), "Serving templates on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("validate", true, "Validate requests against the OpenAPI document")
}
