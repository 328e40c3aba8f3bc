package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"menumart/internal/caching"
	"menumart/internal/common"
	"menumart/internal/handlers"
	"menumart/internal/jobs/background"
	"menumart/internal/middleware"
	"menumart/internal/repositories"
	"menumart/internal/services"
	"menumart/pkg/database"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	jwksURL := os.Getenv("JWKS_URL")
	if jwtSecret == "" && jwksURL == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret: %s", jwtSecret)
	}

	tokenTTL := 3600
	if ttlStr := os.Getenv("TOKEN_TTL_SECONDS"); ttlStr != "" {
		if ttl, err := strconv.Atoi(ttlStr); err == nil && ttl > 0 {
			tokenTTL = ttl
		}
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	// Create repositories
	tenantRepo := repositories.NewTenantRepo(pool)

	// Create services
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)
	tenantSvc := services.NewTenantService(tenantRepo, cacheSvc)
	tokenSvc := services.NewTokenService(cacheSvc, jwtSecret, tokenTTL)

	brandingSvc, err := services.NewBrandingService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize branding service: %v", err)
	}
	if err := brandingSvc.EnsureBucketExists(ctx); err != nil {
		log.Printf("WARNING: branding bucket unavailable: %v", err)
	}

	// JWT middleware: shared secret by default, JWKS when configured
	var jwtMiddleware *middleware.JWTMiddleware
	if jwksURL != "" {
		jwtMiddleware, err = middleware.NewJWTMiddlewareWithJWKS(ctx, tokenSvc, jwksURL)
		if err != nil {
			log.Fatalf("Failed to initialize JWKS middleware: %v", err)
		}
		defer jwtMiddleware.Close()
	} else {
		jwtMiddleware = middleware.NewJWTMiddleware(tokenSvc, jwtSecret)
	}

	// Create handlers
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc, brandingSvc)
	contextHandlers := handlers.NewContextHandlers()
	authHandlers := handlers.NewAuthHandlers(tokenSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, brandingSvc)

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = common.NewHTTPErrorHandler()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", healthHandlers.GetMetrics)

	// API routes
	versionMiddleware := middleware.NewVersionMiddleware()
	v1 := versionMiddleware.VersionRoute(e, "v1")

	// Public storefront resolution
	v1.GET("/tenants/by-slug/:slug", tenantHandlers.GetTenantBySlug)

	// Protected routes
	protected := v1.Group("")
	protected.Use(jwtMiddleware.Authenticate())

	protected.GET("/me/context", contextHandlers.GetContext)

	// Tenant-scoped routes
	scoped := protected.Group("")
	scoped.Use(middleware.RequireTenant())
	scoped.GET("/tenants/:id", tenantHandlers.GetTenant)
	scoped.PUT("/tenants/:id", tenantHandlers.UpdateTenant)
	scoped.PUT("/tenants/:id/auth-config", tenantHandlers.UpdateAuthConfiguration)
	scoped.POST("/tenants/:id/logo", tenantHandlers.UploadLogo)
	scoped.GET("/tenants/:id/logo", tenantHandlers.GetLogoURL)

	// Super-user routes
	admin := protected.Group("")
	admin.Use(middleware.RequireSuperUser())
	admin.GET("/tenants", tenantHandlers.ListTenants)
	admin.POST("/tenants", tenantHandlers.CreateTenant)
	admin.DELETE("/tenants/:id", tenantHandlers.DeleteTenant)
	admin.POST("/auth/token", authHandlers.IssueToken)
	admin.POST("/auth/revoke", authHandlers.RevokeToken)

	// Background jobs
	scheduler, err := background.NewJobScheduler(tenantSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop scheduler: %v", err)
		}
	}()

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server")
		if err := e.Shutdown(context.Background()); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Menumart tenancy service v%s starting on port %d", version, port)
	if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
