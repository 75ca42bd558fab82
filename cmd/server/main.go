package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"tapestry/internal/curation/handler"
	"tapestry/internal/curation/membership"
	curationmetrics "tapestry/internal/curation/metrics"
	"tapestry/internal/curation/notify"
	"tapestry/internal/curation/service"
	"tapestry/internal/curation/store"
	"tapestry/internal/platform/config"
	"tapestry/internal/platform/httpserver"
	"tapestry/internal/platform/logger"
	"tapestry/internal/platform/middleware"
	platformredis "tapestry/internal/platform/redis"
	auditpublisher "tapestry/pkg/platform/audit/publisher"
	auditmemory "tapestry/pkg/platform/audit/store/memory"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal/curation packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Record store: Postgres when configured, in-memory otherwise.
	var records store.RecordStore
	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		records = pg
	} else {
		log.Warn("no postgres DSN configured, using in-memory record store")
		records = store.NewInMemory()
	}

	// Validator-directory notifier: Kafka when configured, log otherwise.
	var notifier notify.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier, err := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("failed to create kafka notifier", "error", err)
			os.Exit(1)
		}
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	} else {
		notifier = notify.NewLogNotifier(log)
	}

	auditor := auditpublisher.NewPublisher(auditmemory.NewInMemoryStore(),
		auditpublisher.WithAsyncBuffer(256),
		auditpublisher.WithLogger(log),
	)
	defer auditor.Close()

	var members membership.Resolver = membership.NewStatic()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		members = membership.NewCachedResolver(members, redisClient.Client, config.MembershipCacheTTL, log)
	}

	metrics := curationmetrics.New()
	svc, err := service.New(records,
		service.WithLogger(log),
		service.WithNotifier(notifier),
		service.WithAuditPublisher(auditor),
		service.WithMetrics(metrics),
	)
	if err != nil {
		log.Error("failed to create curation service", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	h := handler.New(svc, members, log, middleware.NewHMACValidator(cfg.JWTSigningKey))
	h.Register(router)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting tapestry curation gateway", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
