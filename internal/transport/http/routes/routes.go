package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/germandcf/ProyectoNisum/internal/infra/config"
	"github.com/germandcf/ProyectoNisum/internal/transport/http/handlers"
	"github.com/germandcf/ProyectoNisum/internal/transport/http/middleware"
	"github.com/germandcf/ProyectoNisum/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Users *usecase.UserService
	Rules *usecase.RuleService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS([]string{"*"}))

	if metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{}); err == nil {
		r.Use(metrics.Handler())
	} else if deps.Logger != nil {
		deps.Logger.Warn("http metrics disabled", zap.Error(err))
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		userGroup := api.Group("/users")

		var createMiddlewares []gin.HandlerFunc
		if mw := registerRateLimit(deps); mw != nil {
			createMiddlewares = append(createMiddlewares, mw)
		}

		userHandler := handlers.NewUserHandler(deps.Services.Users)
		userHandler.RegisterRoutes(userGroup, createMiddlewares...)

		ruleGroup := api.Group("/validation-rules")
		ruleHandler := handlers.NewRuleHandler(deps.Services.Rules)
		ruleHandler.RegisterRoutes(ruleGroup)
	}

	return r
}

// registerRateLimit builds the middleware applied to user registration, or
// nil when rate limiting is disabled.
func registerRateLimit(deps Dependencies) gin.HandlerFunc {
	if deps.RateLimiter == nil || !deps.Config.RateLimit.Enabled {
		return nil
	}

	return deps.RateLimiter.RateLimit(middleware.RateLimitRule{
		Name:       "register",
		Limit:      deps.Config.RateLimit.RegisterMaxAttempts,
		Window:     deps.Config.RateLimit.WindowDuration,
		Identifier: middleware.ClientIPIdentifier(),
	})
}
