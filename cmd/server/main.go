package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"statforge/internal/blog"
	"statforge/internal/config"
	"statforge/internal/database"
	"statforge/internal/handlers"
	"statforge/internal/logging"
	"statforge/internal/middleware"
	"statforge/internal/preflight"
	"statforge/internal/search"
	"statforge/internal/services"
	"statforge/pkg/auth"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting StatForge Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, Content: %s)", cfg.Port, cfg.ContentDir)

	// Initialize database (MySQL via mysql:// URL, SQLite file otherwise)
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Run preflight checks
	checker := preflight.NewChecker(db, cfg.ContentDir)
	if preflight.HasFailures(checker.RunAll()) {
		log.Println("\n❌ Pre-flight checks failed. Please fix the issues above before starting the server.")
		os.Exit(1)
	}
	log.Println("✅ All pre-flight checks passed")

	// Initialize services
	userService := services.NewUserService(db)
	log.Println("✅ User service initialized")

	// Initialize Prometheus metrics
	metrics := services.InitMetrics()
	log.Println("✅ Prometheus metrics initialized")

	// Initialize Redis-backed view counters (optional)
	var viewsService *services.ViewsService
	if cfg.RedisURL != "" {
		log.Println("🔗 Connecting to Redis...")
		viewsService, err = services.NewViewsService(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (view counters disabled)", err)
			viewsService = nil
		} else {
			log.Println("✅ Redis connected, view counters enabled")
		}
	} else {
		log.Println("⚠️ REDIS_URL not set - view counters disabled")
	}

	// Initialize content pipeline
	var postCache *blog.Cache
	if cfg.ContentCacheEnabled {
		postCache = blog.NewCache(cfg.ContentCacheTTL)
		log.Printf("✅ Post cache enabled (TTL: %v)", cfg.ContentCacheTTL)
	} else {
		log.Println("⚠️ Post cache disabled - every request re-parses from disk")
	}
	store := blog.NewStore(cfg.ContentDir, postCache)

	// Initialize full-text search index
	var searchIndex *search.Index
	if cfg.SearchEnabled {
		searchIndex, err = search.NewIndex()
		if err != nil {
			log.Fatalf("❌ Failed to create search index: %v", err)
		}
		if err := rebuildSearchIndex(store, searchIndex, metrics); err != nil {
			log.Printf("⚠️ Initial search indexing failed: %v", err)
		}
	} else {
		log.Println("⚠️ Search disabled (SEARCH_ENABLED=false)")
	}

	// Watch the content directory: edits flush the cache and reindex
	watcher, err := blog.WatchContent(cfg.ContentDir, func() {
		log.Println("🔄 Content changed, refreshing...")
		if postCache != nil {
			postCache.Flush()
		}
		if searchIndex != nil {
			if err := rebuildSearchIndex(store, searchIndex, metrics); err != nil {
				log.Printf("⚠️ Search reindexing failed: %v", err)
			}
		}
	})
	if err != nil {
		log.Printf("⚠️ Content watcher disabled: %v", err)
	} else {
		log.Printf("👁️  Watching %s for changes (hot-reload enabled)", cfg.ContentDir)
	}

	// Initialize authentication
	var jwtAuth *auth.JWTAuth
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		if os.Getenv("ENVIRONMENT") == "production" {
			log.Fatal("❌ CRITICAL SECURITY ERROR: JWT_SECRET is required in production. Generate with: openssl rand -hex 64")
		}
		log.Println("⚠️  JWT_SECRET not set - authentication disabled (development mode)")
	} else {
		accessTokenExpiry := 15 * time.Minute
		refreshTokenExpiry := 7 * 24 * time.Hour

		if accessExpiryStr := os.Getenv("JWT_ACCESS_TOKEN_EXPIRY"); accessExpiryStr != "" {
			if parsed, err := time.ParseDuration(accessExpiryStr); err == nil {
				accessTokenExpiry = parsed
			} else {
				log.Printf("⚠️  Invalid JWT_ACCESS_TOKEN_EXPIRY: %v, using default 15m", err)
			}
		}
		if refreshExpiryStr := os.Getenv("JWT_REFRESH_TOKEN_EXPIRY"); refreshExpiryStr != "" {
			if parsed, err := time.ParseDuration(refreshExpiryStr); err == nil {
				refreshTokenExpiry = parsed
			} else {
				log.Printf("⚠️  Invalid JWT_REFRESH_TOKEN_EXPIRY: %v, using default 7d", err)
			}
		}

		jwtAuth, err = auth.NewJWTAuth(jwtSecret, accessTokenExpiry, refreshTokenExpiry)
		if err != nil {
			log.Fatalf("❌ Failed to initialize JWT authentication: %v", err)
		}
		log.Printf("✅ JWT authentication initialized (access: %v, refresh: %v)", accessTokenExpiry, refreshTokenExpiry)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "StatForge v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB - JSON request bodies only
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("statforge")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Load rate limiting configuration
	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, PublicRead=%d/min, Auth=%d/15min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.PublicReadMax,
		rateLimitConfig.AuthMax,
	)

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}

	// Fiber's CORS middleware does not allow AllowCredentials with wildcard origins.
	allowCredentials := allowedOrigins != "*"

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowCredentials,
	}))
	log.Printf("🔒 [SECURITY] CORS allowed origins: %s", allowedOrigins)

	// Global API rate limiter - first line of DDoS defense
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))
	log.Println("🛡️  [RATE-LIMIT] Global API rate limiter enabled")

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(searchIndex)
	blogHandler := handlers.NewBlogHandler(store, searchIndex, viewsService)

	// Routes

	// Health check (public)
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")

	// Blog content (public, read-limited)
	blogRoutes := api.Group("/blog", middleware.PublicReadRateLimiter(rateLimitConfig))
	blogRoutes.Get("/posts", blogHandler.ListPosts)
	blogRoutes.Get("/posts/:slug", blogHandler.GetPost)
	blogRoutes.Get("/posts/:slug/related", blogHandler.GetRelated)
	blogRoutes.Get("/slugs", blogHandler.GetSlugs)
	blogRoutes.Get("/search", blogHandler.Search)

	// Account surface (auth, profile, admin)
	if registerAccountRoutes(api, jwtAuth, userService, store, viewsService, rateLimitConfig) {
		log.Println("✅ Account routes mounted (auth, profile, admin)")
	} else {
		log.Println("⚠️  Account routes not mounted - set JWT_SECRET to enable authentication")
	}

	log.Printf("🌐 Server starting on port %s", cfg.Port)
	log.Printf("📡 Health check: http://localhost:%s/health", cfg.Port)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if watcher != nil {
			watcher.Close()
		}
		if viewsService != nil {
			if err := viewsService.Close(); err != nil {
				log.Printf("⚠️ Error closing Redis: %v", err)
			}
		}
		if searchIndex != nil {
			if err := searchIndex.Close(); err != nil {
				log.Printf("⚠️ Error closing search index: %v", err)
			}
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// registerAccountRoutes mounts the authenticated surface: auth, profile and
// admin routes. Without a JWT authenticator the handlers can neither issue
// nor verify tokens, so nothing is mounted and the function reports false.
// Registration would otherwise insert the user row and then fail issuing
// tokens, leaving an account the client never got credentials for.
func registerAccountRoutes(api fiber.Router, jwtAuth *auth.JWTAuth, userService *services.UserService, store *blog.Store, viewsService *services.ViewsService, rateLimitConfig *middleware.RateLimitConfig) bool {
	if jwtAuth == nil {
		return false
	}

	authHandler := handlers.NewAuthHandler(jwtAuth, userService)
	profileHandler := handlers.NewProfileHandler(userService, store, viewsService)
	adminHandler := handlers.NewAdminHandler(userService)

	// Authentication routes (credential endpoints get the strict limiter)
	authLimiter := middleware.AuthRateLimiter(rateLimitConfig)
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authLimiter, authHandler.Register)
	authRoutes.Post("/login", authLimiter, authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/logout", middleware.AuthMiddleware(jwtAuth), authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(jwtAuth), authHandler.GetCurrentUser)

	// Account routes (requires authentication)
	api.Get("/profile", middleware.AuthMiddleware(jwtAuth), profileHandler.GetProfile)
	api.Put("/profile", middleware.AuthMiddleware(jwtAuth), profileHandler.UpdateProfile)
	api.Get("/dashboard", middleware.AuthMiddleware(jwtAuth), profileHandler.GetDashboard)

	// Admin routes (requires admin role)
	adminRoutes := api.Group("/admin", middleware.AuthMiddleware(jwtAuth), middleware.AdminMiddleware())
	adminRoutes.Get("/users", adminHandler.ListUsers)
	adminRoutes.Get("/users/:userID", adminHandler.GetUser)
	adminRoutes.Patch("/users/:userID", adminHandler.UpdateUser)

	return true
}

// rebuildSearchIndex loads every document body and reindexes from scratch
func rebuildSearchIndex(store *blog.Store, index *search.Index, metrics *services.Metrics) error {
	slugs, err := store.Slugs()
	if err != nil {
		return err
	}

	docs := make([]search.Document, 0, len(slugs))
	for _, slug := range slugs {
		post, body, err := store.GetBody(slug)
		if err != nil {
			log.Printf("⚠️ Skipping %s during indexing: %v", slug, err)
			continue
		}
		docs = append(docs, search.Document{
			Slug:     post.Slug,
			Title:    post.Title,
			Summary:  post.Summary,
			Group:    post.Group,
			Category: post.Category,
			Tags:     post.Tags,
			Content:  body,
		})
	}

	if err := index.Rebuild(docs); err != nil {
		return err
	}
	if metrics != nil {
		metrics.PostsIndexed.Set(float64(len(docs)))
	}
	log.Printf("🔍 Search index built (%d documents)", len(docs))
	return nil
}
