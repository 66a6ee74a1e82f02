package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"campuscms/internal/auth"
	"campuscms/internal/metrics"
	"campuscms/internal/setting"
	"campuscms/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := auth.NewSessionStore(a.cfg.Session.Key)
	if err != nil {
		return err
	}
	ttl, err := a.cfg.SettingsTTL()
	if err != nil {
		return err
	}
	settings := setting.NewCache(setting.NewRepository(a.db), ttl)
	settings.Start(ctx)

	server := web.NewServer(web.Options{
		DB:             a.db,
		Sessions:       store,
		SessionName:    a.cfg.Session.Name,
		Settings:       settings,
		UploadDir:      a.cfg.Uploads.Dir,
		UploadMaxBytes: a.cfg.Uploads.MaxBytes,
		Metrics:        metrics.New(),
		Log:            a.log,
	})

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("starting server", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
