package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medlicense/internal/platform/config"
	"medlicense/internal/platform/health"
	"medlicense/internal/platform/httpserver"
	"medlicense/internal/platform/logger"
	"medlicense/internal/platform/middleware"
	"medlicense/internal/portal/handler"
	"medlicense/internal/portal/service"
	"medlicense/internal/upstream/licenses"
	"medlicense/pkg/platform/httputil"
)

const maxBodyBytes = 1 << 20

func main() {
	_ = godotenv.Load()

	cfg := config.PortalFromEnv()
	log := logger.New("Portal Paciente")

	log.Info("initializing patient portal",
		"addr", cfg.Addr,
		"licenses_service", cfg.LicensesServiceURL,
	)

	client := licenses.New(cfg.LicensesServiceURL,
		licenses.WithTimeout(cfg.UpstreamTimeout),
		licenses.WithMetrics(licenses.NewMetrics()),
	)
	svc := service.New(client, log)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(middleware.RateLimit(middleware.RateLimitOptions{
		PerSecond: cfg.RateLimitPerSecond,
		Burst:     cfg.RateLimitBurst,
	}))

	handler.New(svc, log).Register(r)
	health.New("Portal Paciente").Register(r)

	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(httputil.NotFoundHandler())

	srv := httpserver.New(cfg.Addr, r)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	log.Info("server stopped")
}
