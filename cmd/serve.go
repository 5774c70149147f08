package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	apihttp "github.com/abhisek/trilogic/internal/api/http"
	"github.com/abhisek/trilogic/internal/auth"
	"github.com/abhisek/trilogic/internal/recorder"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address (overrides TRILOGIC_HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	bank, err := loadBank(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	rec := recorder.New(st.EventRepo(), cfg.RecorderBuffer)
	defer rec.Close()

	var authSvc *auth.Service
	if cfg.HTTP.JWTSecret != "" {
		authSvc = auth.New(cfg.HTTP.JWTSecret)
	}

	handler := apihttp.NewRouter(apihttp.Deps{
		Bank:           bank,
		Sink:           rec,
		Events:         st.EventRepo(),
		Snapshots:      st.SnapshotRepo(),
		Auth:           authSvc,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(cmd.OutOrStdout(), "serving %d problems on %s (%s store)\n", bank.Len(), cfg.HTTP.Addr, st.Dialect())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if n := rec.Dropped(); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d events were dropped\n", n)
	}
	return nil
}
