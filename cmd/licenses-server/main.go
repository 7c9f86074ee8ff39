package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"medlicense/internal/license/handler"
	"medlicense/internal/license/metrics"
	"medlicense/internal/license/service"
	"medlicense/internal/license/store"
	"medlicense/internal/platform/config"
	"medlicense/internal/platform/health"
	"medlicense/internal/platform/httpserver"
	"medlicense/internal/platform/logger"
	"medlicense/internal/platform/middleware"
	"medlicense/internal/platform/tracer"
	"medlicense/pkg/platform/httputil"
)

const maxBodyBytes = 1 << 20

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the service package.
func main() {
	_ = godotenv.Load()

	cfg := config.LicensesFromEnv()
	log := logger.New("Licencias Service")

	log.Info("initializing licensing service",
		"addr", cfg.Addr,
		"database", cfg.MongoDatabase,
		"provider_states", cfg.ProviderStatesEnabled,
	)

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		cancel()
		log.Error("mongodb connection failed", "error", err)
		os.Exit(1)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		cancel()
		log.Error("mongodb ping failed", "error", err)
		os.Exit(1)
	}
	cancel()
	log.Info("connected to mongodb")

	st := store.NewMongo(client.Database(cfg.MongoDatabase))
	if err := st.EnsureIndexes(context.Background()); err != nil {
		log.Error("index creation failed", "error", err)
		os.Exit(1)
	}

	var tr tracer.Tracer = tracer.Noop{}
	if cfg.TracingEnabled {
		tr = tracer.NewOTel("licenses-server")
	}

	svc := service.New(st, log,
		service.WithMetrics(metrics.New()),
		service.WithTracer(tr),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.BodyLimit(maxBodyBytes))

	handler.New(svc, log).Register(r)

	if cfg.ProviderStatesEnabled {
		log.Warn("provider state endpoint enabled, do not run with production data")
		handler.NewProviderStates(st, log).Register(r)
	}

	healthHandler := health.New("Licencias Service")
	healthHandler.RegisterCheck("database", st.Ping)
	healthHandler.Register(r)

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
	if err := client.Disconnect(ctx); err != nil {
		log.Error("mongodb disconnect failed", "error", err)
	}

	log.Info("server stopped")
}
