package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/PranavOak12/dotsandboxes/internal/config"
	"github.com/PranavOak12/dotsandboxes/internal/httpapi"
	"github.com/PranavOak12/dotsandboxes/internal/hub"
	"github.com/PranavOak12/dotsandboxes/internal/monitor"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	defer log.Sync()

	cfg := config.Load()
	mon := monitor.NewMetrics("dotsandboxes")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, log, mon)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, mon, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
		// no WriteTimeout: websocket connections are long-lived
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", zap.Error(err))
		}
		h.Inbox() <- hub.ShutdownHub{}
	}()

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server failed", zap.Error(err))
	}
}
