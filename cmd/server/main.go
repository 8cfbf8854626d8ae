package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"leave_portal/internal/config"
	"leave_portal/internal/handler"
	"leave_portal/internal/middleware"
	"leave_portal/internal/repository"
	"leave_portal/internal/service"
	"leave_portal/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(context.Background(), cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(context.Background(), dbPool); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpirationHours)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	leaveRepo := repository.NewLeaveRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, cfg.InitialAdminEmail)
	leaveService := service.NewLeaveService(leaveRepo)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	leaveHandler := handler.NewLeaveHandler(leaveService)

	// --- Setup Gin Router ---
	// GIN_MODE is read by gin itself
	router := gin.Default()
	router.Use(middleware.RequestIDMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(authService)
	managerMW := middleware.ManagerOrAdminMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api")
	authHandler.RegisterAuthRoutes(apiGroup, jwtAuthMW)
	leaveHandler.RegisterLeaveRoutes(apiGroup, jwtAuthMW, managerMW)

	router.GET("/health", func(c *gin.Context) {
		// Check DB connection
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	if cfg.StaticDir != "" {
		serveSPA(router, cfg.StaticDir)
	} else {
		router.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"service": "leave portal API", "status": "running"})
		})
	}

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// serveSPA serves the built frontend and falls back to index.html so client
// side routes survive a reload. Unknown /api paths still get a JSON 404.
func serveSPA(router *gin.Engine, dir string) {
	log.Printf("Serving frontend from %s", dir)
	index := filepath.Join(dir, "index.html")
	router.GET("/", func(c *gin.Context) { c.File(index) })
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		file := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(index)
	})
}
