// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	_ "lumina/docs" // swagger docs
	"lumina/internal/config"
	"lumina/internal/editor"
	"lumina/internal/feed"
	"lumina/internal/gemini"
	"lumina/internal/middleware"
	"lumina/internal/models"
	"lumina/internal/notifications"
	"lumina/internal/session"
	"lumina/internal/store"

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
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          store.Store
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	session      *session.Manager
	feed         *feed.Service
	orchestrator *editor.Orchestrator
	suggester    gemini.PromptSuggester
	hub          *notifications.Hub
}

// NewServer creates a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	st, err := store.Open(store.Options{
		Backend:     cfg.StoreBackend,
		RedisAddr:   cfg.RedisURL,
		SQLitePath:  cfg.SQLitePath,
		PostgresDSN: cfg.PostgresDSN(),
	})
	if err != nil {
		return nil, fmt.Errorf("store initialization failed: %w", err)
	}

	gem, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		ImageModel: cfg.GeminiImgModel,
		VideoModel: cfg.GeminiVidModel,
		TextModel:  cfg.GeminiTextModel,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client initialization failed: %w", err)
	}

	return newServerWithStack(ctx, cfg, st, gem, gem, gem)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests to run against an in-memory store and fake AI backends.
func NewServerWithDeps(ctx context.Context, cfg *config.Config, st store.Store,
	imageEditor gemini.ImageEditor, videos gemini.VideoGenerator, suggester gemini.PromptSuggester) (*Server, error) {
	return newServerWithStack(ctx, cfg, st, imageEditor, videos, suggester)
}

func newServerWithStack(ctx context.Context, cfg *config.Config, st store.Store,
	imageEditor gemini.ImageEditor, videos gemini.VideoGenerator, suggester gemini.PromptSuggester) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		store:          st,
		promMiddleware: middleware.InitMetrics("lumina-api"),
		suggester:      suggester,
	}
	if rs, ok := st.(*store.RedisStore); ok {
		server.redis = rs.Client()
	}

	server.hub = notifications.NewHub()

	feedSvc, err := feed.NewService(ctx, st, server.hub)
	if err != nil {
		return nil, fmt.Errorf("feed initialization failed: %w", err)
	}
	server.feed = feedSvc

	sess, err := session.NewManager(ctx, st, feedSvc)
	if err != nil {
		return nil, fmt.Errorf("session initialization failed: %w", err)
	}
	server.session = sess

	server.orchestrator = editor.New(imageEditor, videos, sess)
	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
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
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Lumina Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", middleware.AuthRequired, s.Logout)

	// Public feed routes
	feedGroup := api.Group("/feed")
	feedGroup.Get("/", s.GetFeed)
	feedGroup.Get("/users/:userId/posts", s.GetUserPosts)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// User routes
	users := protected.Group("/users/me")
	users.Get("/", s.GetMyProfile)
	users.Put("/", s.UpdateMyProfile)
	users.Post("/avatar", s.UploadAvatar)
	users.Post("/premium", s.GoPremium)
	users.Post("/visibility", s.ToggleProfileVisibility)
	users.Get("/edits", s.GetSavedEdits)
	users.Post("/edits", s.SaveEdit)
	users.Get("/history", s.GetGenerationHistory)

	// Editor routes
	ed := protected.Group("/editor")
	ed.Get("/state", s.GetEditorState)
	ed.Post("/upload", s.UploadPhoto)
	ed.Post("/edit", middleware.RateLimit(
		s.redis, 10, time.Minute, "edit"), s.RequestEdit)
	ed.Post("/undo", s.UndoEdit)
	ed.Post("/redo", s.RedoEdit)
	ed.Post("/base", s.SetAsBase)
	ed.Post("/reset", s.ResetEditor)
	ed.Post("/video", middleware.RateLimit(
		s.redis, 2, time.Minute, "video"), s.GenerateVideo)
	ed.Get("/suggestions", s.GetPromptSuggestions)
	ed.Get("/video-suggestions", s.SuggestVideoPrompts)

	// Protected feed mutations
	posts := protected.Group("/feed/posts")
	posts.Post("/:id/like", s.LikePost)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "comment"), s.CommentOnPost)
	posts.Post("/:id/share", s.SharePost)

	// Websocket feed stream; anonymous viewers are allowed
	ws := api.Group("/ws", middleware.WebSocketAuthOptional)
	ws.Get("/feed", s.FeedWebsocketHandler())
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if _, _, err := s.store.Load(ctx, store.FeedKey); err != nil {
		storeStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storeStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"store": storeStatus,
		},
		"time": time.Now(),
	})
}

// currentUser resolves the active session and checks it belongs to the
// authenticated caller. The backend holds one session at a time, so a stale
// token from a previous login is rejected here.
func (s *Server) currentUser(c *fiber.Ctx) (*models.UserBundle, error) {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return nil, models.NewUnauthorizedError("Authorization required")
	}
	bundle, ok := s.session.Current()
	if !ok || bundle.ID != userID {
		return nil, models.NewUnauthorizedError("No active session for this user")
	}
	return bundle, nil
}

// respondError maps application errors onto their HTTP status.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithError(c, appErr.HTTPStatus(), appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Lumina AI Photo Editor API",
		BodyLimit: 32 * 1024 * 1024, // data URLs for edited images are large
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return respondError(c, err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			log.Printf("error shutting down feed hub: %v", err)
		}
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Printf("error closing store: %v", err)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
