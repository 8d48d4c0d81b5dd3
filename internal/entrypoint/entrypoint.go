// Package entrypoint assembles the application: database, asset store,
// repositories, authentication and the HTTP server lifecycle.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"booklibrary/internal/auth"
	"booklibrary/internal/config"
	"booklibrary/internal/database"
	"booklibrary/internal/database/catalog"
	"booklibrary/internal/database/refdata"
	"booklibrary/internal/database/stats"
	"booklibrary/internal/database/userbooks"
	http_controllers "booklibrary/internal/http"
	"booklibrary/internal/storage"
	"booklibrary/internal/validation"
)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown server, waiting up to %v", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires all components together and serves.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting book library v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	store, err := storage.NewStore(cfg.Media.Root, cfg.Media.DefaultImage)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	limits := validation.NewLimits(cfg.Library)

	catalogRepo := catalog.NewRepository(db.DB, limits, cfg.Media.DefaultImage)
	refdataRepo := refdata.NewRepository(db.DB)
	userBooksRepo := userbooks.NewRepository(db.DB)
	statsRepo := stats.NewRepository(db.DB)

	authService := auth.NewService(db.DB, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	csrfSecret := resolveCSRFSecret(cfg.Auth.SessionSecret)
	loginLimiter := auth.NewRateLimiter(cfg.Auth.MaxLoginAttempts, cfg.Auth.RateLimitWindow)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:  db,
		Catalog:   catalogRepo,
		RefData:   refdataRepo,
		UserBooks: userBooksRepo,
		Stats:     statsRepo,
		Store:     store,

		Limits: limits,
		TopN:   cfg.Library.TopN,

		AuthService:    authService,
		SessionManager: sessionManager,
		LoginLimiter:   loginLimiter,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,

		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		MediaRoot:     cfg.Media.Root,
		Version:       version,
	})

	Serve(router, cfg)
}

// resolveCSRFSecret decodes the configured secret, or generates an
// ephemeral one so the server still starts without configuration.
func resolveCSRFSecret(configured string) []byte {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret
		}
		// not hex, use as raw bytes
		return []byte(configured)
	}

	generated, err := auth.GenerateSessionSecret()
	if err != nil {
		log.Fatalf("Failed to generate CSRF secret: %v", err)
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	secret, _ := hex.DecodeString(generated)
	return secret
}
