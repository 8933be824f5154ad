// Command limerick-go serves a minimal multi-user web application:
// registration, login, profile viewing, and single-file upload/download
// backed by one relational users table. This file bootstraps the process:
// configuration, database pool, migrations, services, handlers, the HTTP
// router, and graceful shutdown.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/user/limerick-go/config"
	"github.com/user/limerick-go/db"
	"github.com/user/limerick-go/logging"
	"github.com/user/limerick-go/session"
	"github.com/user/limerick-go/upload"
	"github.com/user/limerick-go/users"
	"github.com/user/limerick-go/web"
)

func main() {
	// .env loading is a development convenience; in production the variables
	// are set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	pool, err := db.NewDBPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	uploadStore, err := upload.NewStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize upload store: %v", err)
	}

	// Manual dependency injection: each layer receives its dependencies via
	// its constructor.
	userRepo := users.NewPostgresRepository(pool)
	userService := users.NewService(userRepo)
	sessionManager := session.NewManager(cfg.Session.Secret, cfg.Session.Lifetime)

	handlers, err := web.NewHandlers(userService, sessionManager, uploadStore, cfg.Upload.AcceptedFilename, logger)
	if err != nil {
		log.Fatalf("Failed to create handlers: %v", err)
	}

	router := web.NewRouter(handlers, cfg.Upload.MaxBytes)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine so the main goroutine can wait for
	// shutdown signals.
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
