package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
	"github.com/prajwalvathreya/nba-project-backend/internal/config"
	"github.com/prajwalvathreya/nba-project-backend/internal/database"
	"github.com/prajwalvathreya/nba-project-backend/internal/handler"
	"github.com/prajwalvathreya/nba-project-backend/internal/logging"
	"github.com/prajwalvathreya/nba-project-backend/internal/queue"
	"github.com/prajwalvathreya/nba-project-backend/internal/repository"
	"github.com/prajwalvathreya/nba-project-backend/internal/router"
	"github.com/prajwalvathreya/nba-project-backend/internal/scheduler"
	"github.com/prajwalvathreya/nba-project-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "nba-prediction-api",
		Env:     cfg.Env,
		Version: cfg.Version,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	authCfg, err := auth.NewConfig(cfg.JWTSecret, cfg.JWTExpireHours, cfg.BcryptRounds)
	if err != nil {
		return err
	}
	hasher := auth.NewPasswordHasher(authCfg)
	tokens := auth.NewTokenService(authCfg)
	if err := auth.SelfTest(hasher, tokens); err != nil {
		return err
	}
	logger.Info("auth self-test passed")

	dbOpts := database.Options{
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		Name:     cfg.DB.Name,
	}
	db, err := database.Open(ctx, dbOpts)
	if err != nil {
		return err
	}
	defer db.Close()

	gw := database.NewGateway(db, logger)
	inspector := database.NewInspector(gw, dbOpts)
	if err := inspector.VerifySchema(ctx); err != nil {
		return err
	}
	logger.Info("database ready", zap.String("host", cfg.DB.Host), zap.String("database", cfg.DB.Name))

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = config.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting and cache disabled", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	users := repository.NewUserRepo(gw, db)
	groups := repository.NewGroupRepo(gw)
	fixtures := repository.NewFixtureRepo(gw)
	predictions := repository.NewPredictionRepo(gw)
	standings := repository.NewLeaderboardRepo(gw)

	var scorer *service.Scorer
	if cfg.RabbitMQURL != "" {
		scorer = service.NewScorer(standings, queue.NewPublisher(cfg.RabbitMQURL, logger), logger)
		consumer := queue.NewConsumer(cfg.RabbitMQURL, cfg.EventLogPath, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("fixture event consumer stopped", zap.Error(err))
			}
		}()
	} else {
		scorer = service.NewScorer(standings, nil, logger)
		logger.Info("RABBITMQ_URL not set, fixture events disabled")
	}

	if cfg.RecalcSchedule != "" {
		sched := scheduler.NewRecalcScheduler(scorer, cfg.RecalcSchedule, logger)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	e := router.New(router.Deps{
		Log:         logger,
		Gate:        auth.NewGate(tokens, logger),
		Redis:       rdb,
		RateLimit:   cfg.RateLimit,
		Cache:       cfg.Cache,
		CORSOrigins: cfg.CORSAllowOrigins,
		Admins:      cfg.AdminUsernames,
		System:      handler.NewSystemHandler(inspector, authCfg.Info(), cfg.Version, logger),
		Auth:        handler.NewAuthHandler(users, authCfg, hasher, tokens, logger),
		User:        handler.NewUserHandler(users, logger),
		Group:       handler.NewGroupHandler(groups, logger),
		Fixture:     handler.NewFixtureHandler(fixtures, predictions, logger),
		Prediction:  handler.NewPredictionHandler(predictions, logger),
		Leaderboard: handler.NewLeaderboardHandler(standings, scorer, logger),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
