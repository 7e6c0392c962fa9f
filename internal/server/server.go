// Package server contains the HTTP handlers for the users and posts API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"posts/internal/config"
	"posts/internal/database"
	"posts/internal/middleware"
	"posts/internal/models"
	"posts/internal/redisclient"
	"posts/internal/service"
	"posts/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const requestTimeout = 5 * time.Second

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	limiter        fiber.Handler
	userService    *service.UserService
	postService    *service.PostService
}

// NewServer connects the store and, when configured, Redis, then builds a Server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient, err := redisclient.Connect(context.Background(), cfg.RedisURL)
	if err != nil {
		middleware.Logger.Warn("Redis unavailable, falling back to in-process rate limiting",
			slog.String("error", err.Error()),
		)
		redisClient = nil
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("server: nil database handle")
	}

	sessions := session.NewManager(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("posts-api"),
		userService:    service.NewUserService(sessions),
		postService:    service.NewPostService(sessions),
	}, nil
}

// NewApp returns a Fiber app whose unhandled errors are rendered as JSON.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "posts-api",
		ErrorHandler: errorHandler,
	})
}

// App builds the Fiber app once, with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app == nil {
		app := NewApp()
		s.SetupMiddleware(app)
		s.SetupRoutes(app)
		s.app = app
	}
	return s.app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	// Tracing runs before ContextMiddleware so the trace ID reaches the logger.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		MaxAge:       86400,
	}))

	s.limiter = s.rateLimiter()
}

// rateLimiter builds the per-IP limiter for the resource routes, or nil when
// limiting is disabled. Redis backs it when configured.
func (s *Server) rateLimiter() fiber.Handler {
	limit := s.config.RateLimitPerMinute
	if limit <= 0 {
		return nil
	}
	if s.redis != nil {
		return middleware.RateLimit(s.redis, limit, time.Minute, "api")
	}
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{Error: middleware.MsgRateLimited})
		},
	})
}

// SetupRoutes configures all routes for the application. The resources are
// served both at the root and under /api.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	s.registerResources(api)
	s.registerResources(app)

	app.Get("/", s.Root)
}

// registerResources mounts the user and post routes. Only these routes are
// rate limited; probes and scrapes are not.
func (s *Server) registerResources(r fiber.Router) {
	users := r.Group("/user")
	if s.limiter != nil {
		users.Use(s.limiter)
	}
	users.Get("/", s.ListUsers)
	users.Post("/", s.CreateUser)
	users.Get("/:userId", s.GetUser)
	users.Put("/:userId", s.UpdateUser)
	users.Delete("/:userId", s.DeleteUser)

	posts := users.Group("/:userId/post")
	posts.Get("/", s.ListPosts)
	posts.Post("/", s.CreatePost)
	posts.Get("/:postId", s.GetPost)
	posts.Put("/:postId", s.UpdatePost)
	posts.Delete("/:postId", s.DeletePost)
}

// Start serves on the configured port until Shutdown is called.
func (s *Server) Start() error {
	port := s.config.Port
	if port == "" {
		port = "8080"
	}
	middleware.Logger.Info("HTTP server listening", slog.String("port", port))
	return s.App().Listen(":" + port)
}

// Shutdown drains HTTP connections, then closes Redis and the store.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if err := database.Close(s.db); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}

	return errors.Join(errs...)
}
