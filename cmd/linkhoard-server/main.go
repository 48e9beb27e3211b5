package main

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/auth"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/bookmarks"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/collections"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/config"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/database"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/events"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/importexport"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/logger"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/ratelimit"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/settings"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/storage"
)

// @title Linkhoard API
// @version 1.0
// @description A self-hosted personal bookmarking service with tags, folders, and backups.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	auth.SetSecret(cfg.JWTSecret)
	auth.SetTokenDuration(cfg.TokenTTL)

	// Connect to database
	if err := database.Connect(cfg.DBPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Info("Database migrations completed")

	// Optional Redis-backed logout
	if cfg.RedisAddr != "" {
		revoker, err := auth.NewRevoker(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		auth.SetRevoker(revoker)
		defer func() { _ = revoker.Close() }()
		log.Info("Token revocation enabled", logger.String("redis", cfg.RedisAddr))
	} else {
		log.Info("Redis not configured - logout is client-side only")
	}

	// Avatar blob store, served under /avatars
	avatars, err := storage.NewAvatarStore(cfg.AvatarDir, cfg.BaseURL+"/avatars")
	if err != nil {
		log.Fatalf("Failed to prepare avatar directory: %v", err)
	}

	hub := events.NewHub()

	// Set up Gin router
	if !cfg.PrettyLog {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "linkhoard",
			})
		})

		// Auth routes (public, rate limited against password guessing)
		limiter := ratelimit.New(ratelimit.Config{
			Burst:        cfg.AuthBurst,
			RefillPerMin: cfg.AuthRefillPerMin,
		})
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth", limiter.Middleware()))

		protected := api.Group("", auth.AuthMiddleware())

		// Bookmark CRUD and field mutations
		bookmarksHandler := bookmarks.NewHandler(database.GetDB(), cfg.ArchiveBase, hub)
		bookmarksHandler.RegisterRoutes(protected)

		// Derived tag/folder views
		collectionsHandler := collections.NewHandler(database.GetDB(), hub)
		collectionsHandler.RegisterRoutes(protected)

		// Import/Export
		importExportHandler := importexport.NewHandler(database.GetDB())
		importExportHandler.RegisterRoutes(protected)

		// Settings and avatar upload
		settingsHandler := settings.NewHandler(database.GetDB(), avatars)
		settingsHandler.RegisterRoutes(protected)

		// Websocket change events
		eventsHandler := events.NewHandler(hub)
		eventsHandler.RegisterRoutes(protected)
	}

	// Uploaded avatars
	r.Static("/avatars", avatars.Dir())

	// Serve static frontend files if the web build exists
	if _, err := os.Stat(cfg.WebDist); err == nil {
		r.Static("/assets", filepath.Join(cfg.WebDist, "assets"))
		r.StaticFile("/favicon.ico", filepath.Join(cfg.WebDist, "favicon.ico"))
		r.StaticFile("/robots.txt", filepath.Join(cfg.WebDist, "robots.txt"))

		// SPA fallback - the client restores its view state from query
		// parameters (mode, url, title, id, tag, folder, page, p), so every
		// route serves the same document. /popup is the narrow-viewport
		// page the browser extension embeds.
		indexHTML := filepath.Join(cfg.WebDist, "index.html")
		spaRoutes := []string{"/", "/login", "/register", "/popup", "/settings", "/about", "/terms", "/privacy"}
		for _, route := range spaRoutes {
			r.GET(route, func(c *gin.Context) {
				c.File(indexHTML)
			})
		}

		log.Info("Serving frontend", logger.String("dir", cfg.WebDist))
	} else {
		log.Info("No frontend build found - API only mode", logger.String("dir", cfg.WebDist))
	}

	log.Info("Starting linkhoard server", logger.String("addr", cfg.ListenPort))
	if err := r.Run(cfg.ListenPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
