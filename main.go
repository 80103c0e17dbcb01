package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/fieldsurvey/apiclient"
	"github.com/danielhkuo/fieldsurvey/auth"
	"github.com/danielhkuo/fieldsurvey/cliparse"
	"github.com/danielhkuo/fieldsurvey/location"
	"github.com/danielhkuo/fieldsurvey/page"
	"github.com/danielhkuo/fieldsurvey/router"
	"github.com/danielhkuo/fieldsurvey/telemetry"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing is off unless an endpoint is configured
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: "fieldsurvey",
		Endpoint:    cfg.OTelEndpoint,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		slog.Error("tracing setup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Error("tracing shutdown failed", "error", err)
		}
	}()

	// Survey backend
	backend := apiclient.New(cfg.SurveyAPIURL, &http.Client{}, cfg.APITimeout)
	notifier := location.NewRouteNotifier(backend)

	// Mounted dashboard pages, swept when idle
	pages := page.NewRegistry(page.Deps{Backend: backend, Notifier: notifier}, cfg.PageIdleTimeout)
	go pages.Run(ctx)

	// Create router
	mux := router.NewRouter(pages, auth.NewResolver(cfg.SessionSecret), cfg)

	// Create server
	server := http.Server{
		Handler:           mux,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "survey_api", cfg.SurveyAPIURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}

	// Release every location subscription, then let in-flight route updates finish
	pages.Close()
	notifier.Wait()
}
