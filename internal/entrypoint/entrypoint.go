// Package entrypoint composes the application and runs the HTTP server.
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

	"github.com/pagemark/reader/internal/auth"
	"github.com/pagemark/reader/internal/config"
	"github.com/pagemark/reader/internal/database"
	"github.com/pagemark/reader/internal/database/bookmarks"
	"github.com/pagemark/reader/internal/database/books"
	"github.com/pagemark/reader/internal/database/highlights"
	streakdb "github.com/pagemark/reader/internal/database/streak"
	http_controllers "github.com/pagemark/reader/internal/http"
	"github.com/pagemark/reader/internal/scheduler"
	"github.com/pagemark/reader/internal/storage"
	"github.com/pagemark/reader/internal/streak"
	"github.com/pagemark/reader/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires config, database, repositories, streak engine, task queue, auth
// and router together, then serves HTTP.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Pagemark Reader v%s", version)

	if err := cfg.ValidateForServe(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	bookmarkRepo := bookmarks.NewRepository(db.DB)
	highlightRepo := highlights.NewRepository(db.DB)
	streakRepo := streakdb.NewRepository(db.DB)
	streakEngine := streak.NewEngine(streakRepo)

	blobs, err := storage.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize file storage at %s: %v", cfg.Storage.Dir, err)
	}

	// Task queue and the cron job that feeds it
	var taskClient *tasks.Client
	var cleanupScheduler *scheduler.CleanupScheduler
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupOrphansQueue(bookmarkRepo, highlightRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		cleanupScheduler = scheduler.NewCleanupScheduler(taskClient, cfg.Cleanup.Schedule, tasks.CleanupOrphansTask{})
		if err := cleanupScheduler.Start(); err != nil {
			log.Fatalf("Failed to start cleanup scheduler: %v", err)
		}
	}

	// Authentication
	authService := auth.NewService(db.DB, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	csrfSecret, err := hex.DecodeString(cfg.Auth.SessionSecret)
	if err != nil {
		// Not hex, use as raw bytes
		csrfSecret = []byte(cfg.Auth.SessionSecret)
	}

	hasUsers, err := authService.HasUsers()
	if err != nil {
		log.Printf("Failed to check for existing users: %v", err)
	} else if !hasUsers {
		log.Printf("No users found. POST /api/auth/register to create the account.")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		BookStore:      bookRepo,
		BookmarkStore:  bookmarkRepo,
		HighlightStore: highlightRepo,
		StreakEngine:   streakEngine,
		BlobStore:      blobs,
		AuthService:    authService,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		FrontendOrigin: cfg.HTTP.FrontendOrigin,
	})

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
