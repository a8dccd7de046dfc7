// Package bootstrap loads configuration and assembles the running application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httphandler "miniblog/internal/handler/http"
	rediscache "miniblog/internal/infra/cache/redis"
	gormpersistence "miniblog/internal/infra/persistence/gorm"
	"miniblog/internal/infra/setup"
	"miniblog/internal/middleware"
	"miniblog/internal/repository"
	"miniblog/internal/service"
)

// defaultJWTSecret keeps local setups working without a .env file. Anything
// beyond local development must set JWT_SECRET.
const defaultJWTSecret = "secretkey"

// Config holds everything read from the environment at startup.
type Config struct {
	JWTSecret     string
	SQLiteFile    string
	ServerPort    string
	CORSOrigin    string
	LogLevel      string
	AppEnv        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// LoadConfig reads configuration from a .env file (when present) and the
// environment. Every variable has a development default; only Redis stays
// off unless REDIS_ADDR is set.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // a missing .env file is fine

	cfg := &Config{
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SQLiteFile:    os.Getenv("SQLITE_FILE"),
		ServerPort:    os.Getenv("PORT"),
		CORSOrigin:    os.Getenv("CORS_ALLOWED_ORIGIN"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		AppEnv:        os.Getenv("APP_ENV"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KeyPrefix:     os.Getenv("REDIS_KEY_PREFIX"),
	}
	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
		logrus.Warn("JWT_SECRET not set, using insecure development default")
	}
	if cfg.SQLiteFile == "" {
		cfg.SQLiteFile = "./data.sqlite"
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "http://localhost:3000"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "miniblog:"
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// App bundles the components that Start and Shutdown need to reach.
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	HTTPServer  *http.Server
}

// NewApp loads configuration and wires every layer of the service.
func NewApp() (*App, error) {
	// 1. Configuration
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	// 2. Logger
	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel) // already validated
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	log.Info("Configuration loaded successfully")

	// 3. Storage
	db, err := setup.InitDB(cfg.SQLiteFile)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	log.Infof("SQLite database opened at %s", cfg.SQLiteFile)

	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database migrated")

	if err := setup.SeedDemoUsers(db, log); err != nil {
		return nil, fmt.Errorf("failed to seed demo users: %w", err)
	}

	// 4. Optional Redis list cache
	var (
		redisClient *redis.Client
		postCache   repository.PostCache
	)
	if cfg.RedisAddr != "" {
		redisClient, err = setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		postCache = rediscache.NewRedisPostCache(redisClient, cfg.KeyPrefix)
		log.Infof("Redis post cache enabled (addr: %s)", cfg.RedisAddr)
	} else {
		log.Info("REDIS_ADDR not set, post cache disabled")
	}

	// 5. Repositories
	userRepo := gormpersistence.NewGormUserRepository(db)
	postRepo := gormpersistence.NewGormPostRepository(db)

	// 6. Services
	authService, err := service.NewAuthService(userRepo, cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create AuthService: %w", err)
	}
	postService := service.NewPostService(postRepo, postCache)

	// 7. Handlers
	authHandler := httphandler.NewAuthHandler(authService)
	postHandler := httphandler.NewPostHandler(postService)

	// 8. Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(corsMiddleware(cfg.CORSOrigin))

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}
	router.GET("/posts", postHandler.List)
	router.GET("/posts/:id", postHandler.Get)
	router.POST("/posts", middleware.Auth(cfg.JWTSecret), postHandler.Create)
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Posts API running with SQLite")
	})
	log.Info("Router setup complete")

	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	return &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		RedisClient: redisClient,
		HTTPServer:  httpServer,
	}, nil
}

// Start runs the HTTP server in the background. Fatal on any listen error
// other than a clean shutdown.
func (a *App) Start() {
	go func() {
		a.Log.Infof("HTTP server listening on %s", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening")
	}()
}

// Shutdown drains in-flight requests and closes the external connections.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully")
	}

	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}

	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Log.Errorf("Error closing database: %v", err)
		}
	}

	a.Log.Info("Application shutdown complete")
}

// LoggerMiddleware records one structured line per request, leveled by
// status class.
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		switch {
		case errorMessage != "":
			entry.Error(errorMessage)
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}

// corsMiddleware allows the configured browser origin to call the API.
func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
