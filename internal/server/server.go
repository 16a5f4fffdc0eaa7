// Package server is the server-rendered notes web frontend. It keeps one
// auth session per browser, stored in SQLite, and proxies note operations
// to the notes backend with that session's bearer token.
package server

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vidysea/notes/internal/auth"
	"github.com/vidysea/notes/internal/client"
	"github.com/vidysea/notes/internal/config"
	"github.com/vidysea/notes/internal/models"
	"github.com/vidysea/notes/internal/sessions"
)

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	db        *gorm.DB
	config    *config.Config
	logger    zerolog.Logger
	validator *validator.Validate
	api       *client.Client
	sessions  *sessions.Service
	templates *template.Template
	version   string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	// Initialize database with production settings
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	// Run database migrations
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	api := client.New(cfg.API.URL)
	api.SetLogger(zlog)

	server := &Server{
		db:        db,
		config:    cfg,
		logger:    zlog,
		validator: auth.NewValidator(),
		api:       api,
		sessions:  sessions.NewService(db, zlog),
		templates: templates,
		version:   version,
	}

	// Setup router
	server.setupRouter()

	return server, nil
}

// initDatabase initializes the database connection with production settings
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns      = 8    // Reduced for SQLite efficiency
		maxIdleConns      = 4    // Reduced proportionally
		connMaxLifetime   = 300  // 5 minutes
		busyTimeout       = 5000 // 5 seconds
		cacheSize         = 2000 // 2MB
		walAutocheckpoint = 1000 // WAL auto-checkpoint pages
	)

	db, err := gorm.Open(sqlite.Open(cfg.Database.URL), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL mode must be set first for optimal concurrency
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA wal_autocheckpoint=%d", walAutocheckpoint),
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		fmt.Sprintf("PRAGMA cache_size=-%d", cacheSize),
		"PRAGMA temp_store=2",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	var walMode string
	db.Raw("PRAGMA journal_mode").Scan(&walMode)
	zlog.Debug().Str("journal_mode", walMode).Str("path", cfg.Database.URL).Msg("Session database ready")

	return db, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	s.router = gin.New()
	s.router.SetHTMLTemplate(s.templates)

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	if len(s.config.HTTP.CORSOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     s.config.HTTP.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health check endpoint (no session)
	s.router.GET("/health", s.healthCheck)

	web := s.router.Group("")
	web.Use(s.SessionMiddleware())
	{
		web.GET("/", s.home)
		web.GET("/api/session", s.sessionInfo)

		// Public auth pages
		web.GET(models.LoginPath, s.loginPage)
		web.POST(models.LoginPath, s.login)
		web.GET(models.SignupPath, s.signupPage)
		web.POST(models.SignupPath, s.signup)
		web.POST("/auth/logout", s.logout)

		// Dashboards
		web.GET(models.UserDashboardPath, GuardMiddleware(s.logger, models.RoleUser), s.userDashboard)
		web.GET(models.AdminDashboardPath, GuardMiddleware(s.logger, models.RoleAdmin), s.adminDashboard)

		// Note mutations (any authenticated role)
		notes := web.Group("/notes")
		notes.Use(GuardMiddleware(s.logger, ""))
		{
			notes.POST("", s.createNote)
			notes.POST("/:id", s.editNote)
			notes.POST("/:id/delete", s.deleteNote)
		}
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "notes-web",
		"version":   s.version,
		"backend":   s.api.BaseURL(),
	})
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	addr := s.config.HTTP.ListenAddr

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sessions.StartSweeper(ctx, s.sessions, s.config.Sessions.SweepSchedule, s.config.Sessions.MaxAge); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second, // backend calls may take up to 30s
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("backend", s.api.BaseURL()).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		s.logger.Error().Err(err).Msg("HTTP server error")
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		} else {
			s.logger.Info().Msg("Database closed successfully")
		}
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
