package rest

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"study-auth/app/port"
	"study-auth/app/rest/handlers"
	custommw "study-auth/app/rest/middleware"
)

// RouterConfig holds router configuration
type RouterConfig struct {
	Logger      *slog.Logger
	Sessions    handlers.SessionController
	Profiles    port.ProfileRepository
	Checks      map[string]handlers.Checker
	GateTimeout time.Duration
	EnableDebug bool
}

// NewRouter creates and configures the Echo router
func NewRouter(config RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Debug = config.EnableDebug

	// Create handlers
	authHandler := handlers.NewAuthHandler(config.Sessions, config.Logger)
	adminHandler := handlers.NewAdminHandler(config.Profiles, config.Logger)
	healthHandler := handlers.NewHealthHandler(config.Checks, config.Logger)

	// Create middleware
	sessionGate := custommw.NewSessionGate(config.Sessions, config.GateTimeout, config.Logger)
	rateLimiter := custommw.NewRateLimiter()

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(custommw.DefaultCORS())
	e.Use(custommw.SecurityHeaders())
	e.Use(rateLimiter.RateLimit())

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}, latency=${latency_human}, error=${error}\n",
	}))

	// API versioning
	v1 := e.Group("/v1")

	// Health endpoints (no auth required)
	v1.GET("/health", healthHandler.HealthCheck)
	v1.GET("/ready", healthHandler.ReadinessCheck)
	v1.GET("/live", healthHandler.LivenessCheck)

	// Authentication endpoints
	auth := v1.Group("/auth")

	// Public auth endpoints
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.GET("/session", authHandler.GetSession)

	// Protected auth endpoints
	authProtected := auth.Group("")
	authProtected.Use(sessionGate.RequireSession())
	authProtected.POST("/logout", authHandler.Logout)

	// Admin endpoints
	admin := v1.Group("/admin")
	admin.Use(sessionGate.RequireSession())
	admin.Use(sessionGate.RequireActive())
	admin.Use(sessionGate.RequireAdmin())
	admin.GET("/users", adminHandler.ListProfiles)
	admin.GET("/users/:userId", adminHandler.GetProfile)
	admin.PATCH("/users/:userId/admin", adminHandler.SetAdmin)
	admin.PATCH("/users/:userId/active", adminHandler.SetActive)

	return e
}
