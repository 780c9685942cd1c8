package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/api/handlers"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/api/middleware"
	"github.com/spf13/cobra"
)

func NewServeCommand(root *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the cash desk HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = root.cfg.Port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, root, port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port; overrides CASHLEDGER_PORT")
	return cmd
}

func serve(ctx context.Context, root *RootOptions, port string) error {
	log := root.log

	desk, cleanup, err := openDesk(ctx, root.cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	handler := middleware.Chain(
		handlers.NewDeskHandler(desk, log).Routes(),
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.Logger(log),
	)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", port).Str("storage", root.cfg.Storage).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("Server exited")
	return nil
}
