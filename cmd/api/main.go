package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/articles-api/api/controllers"
	"github.com/angelmondragon/articles-api/api/routes"
	"github.com/angelmondragon/articles-api/internal/articles"
	"github.com/angelmondragon/articles-api/internal/members"
	"github.com/angelmondragon/articles-api/internal/seed"
	"github.com/angelmondragon/articles-api/pkg/auth/session"
	"github.com/angelmondragon/articles-api/pkg/config"
	"github.com/angelmondragon/articles-api/pkg/db"
	"github.com/angelmondragon/articles-api/pkg/instance"
	"github.com/angelmondragon/articles-api/pkg/logger"
	"github.com/angelmondragon/articles-api/pkg/metrics"
	"github.com/angelmondragon/articles-api/pkg/migrate"
	"github.com/angelmondragon/articles-api/pkg/pubsub"
	"github.com/angelmondragon/articles-api/pkg/redis"
	"github.com/angelmondragon/articles-api/pkg/security"
)

type closer interface {
	Close() error
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	var closers []closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i].Close())
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	closers = append(closers, dbClient)

	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	hasher := security.NewArgon2id(cfg.Password)
	if cfg.FeatureFlags.SeedData && !cfg.App.IsProd() {
		if err := seed.New(dbClient.DB(), hasher, logg).Run(ctx); err != nil {
			return err
		}
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	closers = append(closers, redisClient)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := metrics.NewRegistry()
	readiness := map[string]controllers.Pinger{
		"db":    dbClient,
		"redis": redisClient,
	}

	var publisher articles.EventPublisher = articles.NoopPublisher{}
	if cfg.PubSub.Enabled(cfg.GCP) {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return err
		}
		closers = append(closers, psClient)
		readiness["pubsub"] = psClient
		publisher = articles.NewTopicPublisher(psClient, metrics.NewEventMetrics(registry), logg)
	} else {
		logg.Info(ctx, "pubsub not configured, article events disabled")
	}

	articleService, err := articles.NewService(articles.ServiceParams{
		Repo:      articles.NewRepository(dbClient.DB()),
		Tx:        dbClient,
		Publisher: publisher,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	memberService, err := members.NewService(members.ServiceParams{
		Repo:           members.NewRepository(dbClient.DB()),
		Hasher:         hasher,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"driver":   dbClient.Driver(),
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			readiness,
			sessionManager,
			redisClient,
			redisClient,
			registry,
			metrics.NewHTTPMetrics(registry),
			articleService,
			memberService,
		),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(serverCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
