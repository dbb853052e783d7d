package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/germandcf/ProyectoNisum/internal/core/port"
	"github.com/germandcf/ProyectoNisum/internal/infra/config"
	"github.com/germandcf/ProyectoNisum/internal/infra/database"
	kafkainfra "github.com/germandcf/ProyectoNisum/internal/infra/kafka"
	"github.com/germandcf/ProyectoNisum/internal/infra/logger"
	redisinfra "github.com/germandcf/ProyectoNisum/internal/infra/redis"
	"github.com/germandcf/ProyectoNisum/internal/infra/security"
	"github.com/germandcf/ProyectoNisum/internal/infra/telemetry"
	postgresrepo "github.com/germandcf/ProyectoNisum/internal/repository/postgres"
	redisrepo "github.com/germandcf/ProyectoNisum/internal/repository/redis"
	"github.com/germandcf/ProyectoNisum/internal/transport/http/middleware"
	"github.com/germandcf/ProyectoNisum/internal/transport/http/routes"
	"github.com/germandcf/ProyectoNisum/internal/usecase"
	"github.com/germandcf/ProyectoNisum/internal/validation"
)

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	tracer   *telemetry.TracerProvider
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.Enabled {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			return nil, fmt.Errorf("init telemetry: %w", err)
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	tokenIssuer, err := security.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var redisClient *redisinfra.Client
	ruleRepo := port.RuleRepository(repos.Rules)
	if cfg.Redis.Enabled {
		redisClient, err = redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			log.Warn("failed to init redis, rule caching disabled", zap.Error(err))
		} else {
			ruleRepo = redisrepo.NewRuleCache(redisClient.Client(), repos.Rules, cfg.Redis.RuleTTL, log)
		}
	}

	var producer *kafkainfra.Producer
	var eventPublisher port.EventPublisher
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
		}
	} else {
		log.Info("kafka disabled, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	engine := validation.NewEngine(ruleRepo, repos.Users)
	userService := usecase.NewUserService(repos.Users, engine, tokenIssuer, eventPublisher).WithLogger(log)
	ruleService := usecase.NewRuleService(ruleRepo).WithLogger(log)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled && redisClient != nil {
		window := cfg.RateLimit.WindowDuration
		if window <= 0 {
			window = time.Minute
		}
		store := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
			KeyPrefix: "registration:ratelimit",
			TTL:       window * 2,
		})
		rateLimiter = middleware.NewRateLimiter(store, log)
	}

	deps := routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Database:    pool,
		Services: routes.ServiceSet{
			Users: userService,
			Rules: ruleService,
		},
	}
	if redisClient != nil {
		deps.Cache = redisClient
	}

	return &Application{
		cfg:      cfg,
		engine:   routes.Register(deps),
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		tracer:   tracer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()
	defer func() {
		if a.tracer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = a.tracer.Shutdown(shutdownCtx)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting registration API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
