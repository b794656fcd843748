package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/frostedfabrics/inventory-api/internal/api"
	"github.com/frostedfabrics/inventory-api/internal/config"
	"github.com/frostedfabrics/inventory-api/internal/domain/bom"
	"github.com/frostedfabrics/inventory-api/internal/domain/brands"
	"github.com/frostedfabrics/inventory-api/internal/domain/calendar"
	"github.com/frostedfabrics/inventory-api/internal/domain/cascade"
	"github.com/frostedfabrics/inventory-api/internal/domain/catalog"
	"github.com/frostedfabrics/inventory-api/internal/domain/inventory"
	"github.com/frostedfabrics/inventory-api/internal/domain/materials"
	"github.com/frostedfabrics/inventory-api/internal/domain/variations"
	"github.com/frostedfabrics/inventory-api/internal/infra/cache"
	"github.com/frostedfabrics/inventory-api/internal/infra/db"
	httpx "github.com/frostedfabrics/inventory-api/internal/infra/http"
	"github.com/frostedfabrics/inventory-api/internal/infra/logger"
	"github.com/frostedfabrics/inventory-api/internal/infra/metrics"
	"github.com/frostedfabrics/inventory-api/internal/infra/notify"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg.App.Env)
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	policy := db.RetryPolicy{Attempts: cfg.Postgres.RetryAttempts, Delay: cfg.Postgres.RetryDelay}
	pool, err := db.Connect(ctx, cfg.Postgres.DSN, db.PoolOptions{
		MaxConns:       cfg.Postgres.MaxConns,
		MinConns:       cfg.Postgres.MinConns,
		ConnectTimeout: cfg.Postgres.ConnectTimeout,
	}, policy, log)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()
	log.Info("db connected", "max_conns", pool.Config().MaxConns)

	if err := db.Migrate(ctx, cfg.Postgres.DSN, policy, log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("migrations applied")

	m := metrics.New(prometheus.NewRegistry())
	store := db.NewStore(pool, policy, log)
	store.OnTransient(m.DBTransient)

	svcOpts := []inventory.Option{inventory.WithRecorder(m)}

	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.AdminChatID, log)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		go tg.Run(ctx)
		svcOpts = append(svcOpts, inventory.WithNotifier(tg))
		log.Info("low stock notifications enabled", "chat_id", cfg.Telegram.AdminChatID)
	}

	graphCache, closeCache := newGraphCache(ctx, cfg, log)
	defer closeCache()

	a := api.New(api.Deps{
		Catalog:    catalog.NewRepo(store),
		Variations: variations.NewRepo(store),
		Materials:  materials.NewRepo(store),
		Brands:     brands.NewRepo(store),
		BOM:        bom.NewRepo(store),
		Calendar:   calendar.NewRepo(store),
		Movements:  inventory.NewRepo(store),
		Reconciler: inventory.NewService(inventory.NewPgRunner(store), log, svcOpts...),
		Deleter:    cascade.NewEngine(store, log),
		Cache:      graphCache,
		Log:        log,
	})

	opts := httpx.Options{
		Addr:      cfg.HTTP.Addr,
		RateLimit: cfg.HTTP.RateLimit,
		Register:  a.Register,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = m
		opts.MetricsH = m.Handler()
	}
	srv, err := httpx.New(opts, log)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	log.Info("graceful shutdown complete")
	return nil
}

// newGraphCache falls back to no caching when redis is disabled or down.
func newGraphCache(ctx context.Context, cfg config.Config, log *slog.Logger) (cache.Graphs, func()) {
	if !cfg.Redis.Enabled {
		return cache.Nop{}, func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, graph cache disabled", "addr", cfg.Redis.Addr, "err", err)
		_ = rdb.Close()
		return cache.Nop{}, func() {}
	}
	log.Info("redis connected", "addr", cfg.Redis.Addr)
	return cache.NewRedis(rdb, cfg.Redis.TTL, log), func() { _ = rdb.Close() }
}
