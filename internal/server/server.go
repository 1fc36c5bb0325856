// Package server contains the HTTP handlers and routing for the AutoNation API.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "autonation/docs" // swagger docs
	"autonation/internal/bootstrap"
	"autonation/internal/cache"
	"autonation/internal/config"
	"autonation/internal/featureflags"
	"autonation/internal/identity"
	"autonation/internal/middleware"
	"autonation/internal/models"
	"autonation/internal/repository"
	"autonation/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	appName    = "AutoNation API"
	apiVersion = bootstrap.Version

	// createAutomationLimit bounds automation creation per subject on top of
	// the global per-IP limiter.
	createAutomationLimit  = 20
	createAutomationWindow = time.Minute
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	replica        *gorm.DB
	redis          *redis.Client
	verifier       identity.Verifier
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager
	runtime        *bootstrap.Runtime
	limiter        *middleware.Limiter

	automationService  *service.AutomationService
	userService        *service.UserService
	analyticsService   *service.AnalyticsService
	integrationService *service.IntegrationService
}

// NewServer initializes the runtime (database, optional read replica, Redis
// and tracing), builds the token verifier and wires every service.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{ApplySchema: true, Tracing: true})
	if err != nil {
		return nil, err
	}

	verifier, err := identity.NewVerifier(ctx, cfg)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("identity verifier: %w", err)
	}

	srv := NewServerWithDeps(cfg, rt.DB, rt.Redis, verifier)
	srv.runtime = rt
	if rt.Replica != nil {
		srv.replica = rt.Replica
		srv.wireServices(repository.WithReadReplica(rt.Replica))
	}
	return srv, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, verifier identity.Verifier) *Server {
	flags, err := featureflags.Parse(cfg.FeatureFlags)
	if err != nil {
		middleware.Logger.Warn("ignoring malformed feature flags", "error", err)
	}
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		verifier:       verifier,
		promMiddleware: middleware.InitMetrics("autonation-api"),
		featureFlags:   flags,
		limiter:        middleware.NewLimiter(redisClient, cfg.Env),
	}
	s.wireServices()
	return s
}

func (s *Server) wireServices(opts ...repository.Option) {
	s.automationService = service.NewAutomationService(repository.NewAutomationRepository(s.db, opts...))
	s.userService = service.NewUserService(
		repository.NewUserRepository(s.db, opts...),
		cache.NewSubjectCache(s.redis, s.config.SubjectCacheTTL()),
	)
	s.analyticsService = service.NewAnalyticsService(repository.NewAnalyticsRepository(s.db, opts...))
	s.integrationService = service.NewIntegrationService(repository.NewIntegrationRepository(s.db, opts...))
}

// NewApp returns a Fiber app with the middleware stack and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler converts errors that escape handlers into the JSON error shape.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		if fe.Code == fiber.StatusNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Route not found"})
		}
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		"path", c.Path(), "method", c.Method(), "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Server span before ContextMiddleware so the trace id reaches the logger
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting per IP
	app.Use(limiter.New(limiter.Config{
		Max:        s.config.RateLimitMax,
		Expiration: s.config.RateLimitWindow(),
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests from this IP, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api/v1")
	api.Get("/status", s.Status)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "AutoNation Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	protected := api.Group("/protected", middleware.Authenticate(s.verifier))

	protected.Get("/user", s.GetUser)
	protected.Get("/profile", s.GetProfile)
	protected.Put("/profile", s.UpdateProfile)

	// Owner-scoped routes resolve the user per route so unknown paths under
	// /protected still fall through to the 404 handler.
	owned := s.ResolveUser()

	automations := protected.Group("/automations")
	automations.Get("/", owned, s.ListAutomations)
	automations.Post("/", owned, s.limiter.Middleware(middleware.Quota{
		Resource: "create_automation",
		Limit:    createAutomationLimit,
		Window:   createAutomationWindow,
	}), s.CreateAutomation)
	automations.Get("/:id", owned, s.GetAutomation)
	automations.Put("/:id", owned, s.UpdateAutomation)
	automations.Delete("/:id", owned, s.DeleteAutomation)

	protected.Get("/integrations", owned, s.ListIntegrations)
	protected.Get("/analytics", owned, s.RequireFeature(featureflags.Analytics), s.GetAnalytics)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Route not found"})
	})
}

// ResolveUser maps the verified subject to the internal user id and stores it
// in locals and the request context. Must run after Authenticate.
func (s *Server) ResolveUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject, _ := c.Locals(middleware.LocalSubject).(string)
		if subject == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		userID, err := s.userService.ResolveUserID(ctx, subject)
		if err != nil {
			return s.respondServiceError(c, err)
		}

		c.Locals(localUserID, userID)
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, userID))
		return c.Next()
	}
}

// RequireFeature returns 404 when the named feature flag is off for the caller.
func (s *Server) RequireFeature(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(localUserID).(string)
		if !s.featureFlags.Enabled(name, userID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Route not found"})
		}
		return c.Next()
	}
}

// LivenessCheck handles liveness probe requests
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "OK",
		"message":   "AutoNation API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles readiness probe requests
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/ready [get]
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil {
		dbStatus = "unavailable"
	} else if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overallStatus,
		"version": apiVersion,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Status reports the API version and enabled features.
// @Summary API status
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /status [get]
func (s *Server) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":  "AutoNation API v1",
		"version":  apiVersion,
		"features": s.featureFlags.EnabledFeatures(),
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.runtime != nil {
		s.runtime.Close(ctx)
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
