package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "guest_manual/internal/adapters/http_server"
	"guest_manual/internal/adapters/notify"
	"guest_manual/internal/adapters/observability"
	redisad "guest_manual/internal/adapters/redis"
	"guest_manual/internal/app"
	"guest_manual/internal/domain"
	"guest_manual/internal/shared"
	"guest_manual/internal/storage/memory"
	mysqlrepo "guest_manual/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	repo, closeRepo := openStore(ctx, cfg)
	defer closeRepo()

	if cfg.SeedDemo {
		seeded, err := app.Seed(ctx, repo)
		if err != nil {
			log.Fatal().Err(err).Msg("seed failed")
		}
		if seeded {
			log.Info().Str("slug", app.DemoSlug).Msg("demo property seeded")
		}
	}

	// deps
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rc.Ping(pctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, cache errors will be logged")
		}
		cancel()
		cache = rc
	}

	var notifier domain.MessageNotifier
	if n := notifiers(cfg); len(n) > 0 {
		notifier = n
	}

	auth, err := app.NewPasswordAuth(cfg.AdminPassword, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("hash admin password")
	}
	views, err := server.NewRenderer(server.Brand{
		AppName: cfg.AppName,
		Primary: cfg.BrandPrimary,
		Accent:  cfg.BrandAccent,
		Theme:   cfg.Theme,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("parse templates")
	}

	guide := app.NewGuideService(repo, cache, cfg.CacheTTL, notifier)
	h := &server.Handlers{
		Guide:      guide,
		Admin:      app.NewAdminService(repo, cache, cfg.CacheTTL),
		Auth:       auth,
		Sessions:   server.NewSessionManager(cfg.SecretKey, cfg.SessionTTL, strings.HasPrefix(cfg.PublicBaseURL, "https://")),
		Views:      views,
		Limiter:    server.NewRateLimiter(cfg.MessageRatePerMin),
		BaseURL:    cfg.PublicBaseURL,
		TrustProxy: cfg.TrustProxy,
	}

	// http
	srv := server.New()
	srv.MountHandlers(h)
	srv.Mount("/metrics", observability.MetricsHandler(reg))

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreDriver).Msg("guest manual listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	guide.Wait()
}

// openStore returns the configured repository and a func releasing it.
func openStore(ctx context.Context, cfg shared.Config) (domain.GuideRepository, func()) {
	switch cfg.StoreDriver {
	case "memory":
		log.Warn().Msg("memory store: data is lost on restart")
		return memory.New(), func() {}
	case "mysql":
		db, err := mysqlrepo.Open(cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("mysql open failed")
		}
		log.Info().Msg("database connection ok")
		repo := mysqlrepo.New(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("schema setup failed")
		}
		return repo, func() { _ = db.Close() }
	}
	log.Fatal().Str("driver", cfg.StoreDriver).Msg("unknown STORE_DRIVER")
	return nil, nil
}

func notifiers(cfg shared.Config) notify.Multi {
	var out notify.Multi
	if cfg.WebhookURL != "" {
		wh, err := notify.NewWebhook(cfg.WebhookURL, cfg.WebhookRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("webhook notifier")
		}
		out = append(out, wh)
	}
	if cfg.AMQPURL != "" {
		q, err := notify.NewQueue(cfg.AMQPURL)
		if err != nil {
			log.Fatal().Err(err).Msg("amqp notifier")
		}
		out = append(out, q)
	}
	return out
}
