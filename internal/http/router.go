package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/sewasanjal/internal/auth"
	"github.com/geocoder89/sewasanjal/internal/cache"
	"github.com/geocoder89/sewasanjal/internal/config"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/geocoder89/sewasanjal/internal/http/handlers"
	"github.com/geocoder89/sewasanjal/internal/http/middlewares"
	"github.com/geocoder89/sewasanjal/internal/observability"
	"github.com/geocoder89/sewasanjal/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Stores is the persistence backing the API, Postgres or in-memory.
type Stores struct {
	Users          usecase.UserRepository
	Categories     usecase.CategoryRepository
	Providers      usecase.ProviderRepository
	Services       usecase.ServiceRepository
	Availabilities usecase.AvailabilityRepository

	// Ping backs /readyz; nil means always ready.
	Ping func(ctx context.Context) error
}

type Deps struct {
	Config config.Config
	Stores Stores

	// Cache holds listing responses; nil disables caching.
	Cache cache.Store

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
}

func NewRouter(log *slog.Logger, deps Deps) *gin.Engine {
	cfg := deps.Config

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware("sewasanjal-api"))
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders(cfg.Env == "prod"))
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(middlewares.DefaultMaxBodyBytes))
	r.Use(middlewares.RequireJSON())
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	handlers.RegisterValidators()

	// health + ops
	h := handlers.NewHealthHandler(deps.Stores.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// usecases
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTWebTTL(), cfg.JWTMobileTTL())
	listing := usecase.NewListingCache(deps.Cache, deps.Prom, log)
	s := deps.Stores

	authUC := usecase.NewAuth(s.Users, tokens, deps.Prom)
	usersUC := usecase.NewUsers(s.Users, listing)
	categoriesUC := usecase.NewCategories(s.Categories, s.Providers, listing)
	providersUC := usecase.NewProviders(s.Providers, s.Users, s.Services, listing)
	servicesUC := usecase.NewServices(s.Services, s.Providers, s.Categories, listing)
	availabilitiesUC := usecase.NewAvailabilities(s.Availabilities, s.Providers)

	// handlers
	authHandler := handlers.NewAuthHandler(authUC, cfg.Env == "prod")
	usersHandler := handlers.NewUsersHandler(usersUC)
	categoriesHandler := handlers.NewCategoriesHandler(categoriesUC)
	providersHandler := handlers.NewProvidersHandler(providersUC)
	servicesHandler := handlers.NewServicesHandler(servicesUC)
	availabilitiesHandler := handlers.NewAvailabilitiesHandler(availabilitiesUC)

	// pipeline stages: authenticate, then authorize(roles...), then the handler binds and validates
	authMW := middlewares.NewAuthMiddleware(tokens)
	authenticate := authMW.RequireAuth()
	adminOnly := authMW.RequireRole(user.RoleAdmin)
	providerOnly := authMW.RequireRole(user.RoleProvider)

	// login and register count in separate buckets
	loginLimit := rateLimit(cfg.LoginRateLimit, middlewares.KeyByIP)
	registerLimit := rateLimit(cfg.LoginRateLimit, middlewares.KeyByIP)
	// writeLimit follows authenticate and keys by user id
	writeLimit := rateLimit(cfg.WriteRateLimit, middlewares.KeyByUserOrIP)

	// auth
	r.POST("/auth/register", registerLimit, authHandler.Register)
	r.POST("/auth/login", loginLimit, authHandler.LoginMobile)
	r.POST("/auth/login/web", loginLimit, authHandler.LoginWeb)
	r.POST("/auth/login/mobile", loginLimit, authHandler.LoginMobile)
	r.POST("/auth/logout", authHandler.Logout)
	r.GET("/auth/me", authenticate, authHandler.Me)

	// users
	r.GET("/users", authenticate, adminOnly, usersHandler.List)
	r.GET("/users/me", authenticate, usersHandler.Me)
	r.PATCH("/users/me", authenticate, writeLimit, usersHandler.UpdateMe)
	r.GET("/users/:id", authenticate, adminOnly, usersHandler.Get)
	r.DELETE("/users/:id", authenticate, adminOnly, writeLimit, usersHandler.Delete)

	// categories
	r.GET("/categories", categoriesHandler.List)
	r.POST("/categories", authenticate, adminOnly, writeLimit, categoriesHandler.Create)
	r.GET("/categories/:slug", categoriesHandler.GetBySlug)
	r.GET("/categories/:slug/providers", categoriesHandler.Providers)
	r.POST("/categories/:categoryId/providers/:providerId", authenticate, writeLimit, categoriesHandler.Assign)
	r.DELETE("/categories/:categoryId/providers/:providerId", authenticate, writeLimit, categoriesHandler.Remove)
	r.POST("/categories/:categoryId/providers/:providerId/remove", authenticate, writeLimit, categoriesHandler.Remove)

	// providers
	r.GET("/providers", providersHandler.List)
	r.POST("/providers", authenticate, writeLimit, providersHandler.Create)
	r.GET("/providers/:id", providersHandler.Get)
	r.PATCH("/providers/:id", authenticate, writeLimit, providersHandler.Update)
	r.POST("/providers/:id/verify", authenticate, adminOnly, writeLimit, providersHandler.Verify)

	// availabilities, nested under their provider
	r.GET("/providers/:id/availabilities", availabilitiesHandler.List)
	r.POST("/providers/:id/availabilities", authenticate, providerOnly, writeLimit, availabilitiesHandler.Create)
	r.GET("/providers/:id/availabilities/:availabilityId", availabilitiesHandler.Get)
	r.PATCH("/providers/:id/availabilities/:availabilityId", authenticate, writeLimit, availabilitiesHandler.Update)
	r.DELETE("/providers/:id/availabilities/:availabilityId", authenticate, writeLimit, availabilitiesHandler.Delete)

	// services
	r.GET("/services", servicesHandler.List)
	r.POST("/services", authenticate, providerOnly, writeLimit, servicesHandler.Create)
	r.GET("/services/:id", servicesHandler.Get)
	r.PATCH("/services/:id", authenticate, writeLimit, servicesHandler.Update)
	r.DELETE("/services/:id", authenticate, writeLimit, servicesHandler.Delete)

	return r
}

// rateLimit returns a fixed-window limiter of limit requests per minute, or a pass-through when limit <= 0.
func rateLimit(limit int, key func(*gin.Context) string) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return middlewares.NewRateLimiter(limit, time.Minute).RateLimiterMiddleware(key)
}
