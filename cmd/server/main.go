// Package main is the entry point for the BiteList API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shimizu-Technology/bitelist-api/internal/app"
	"github.com/Shimizu-Technology/bitelist-api/internal/config"
	"github.com/Shimizu-Technology/bitelist-api/internal/database"
	"github.com/Shimizu-Technology/bitelist-api/internal/handlers"
	"github.com/Shimizu-Technology/bitelist-api/internal/router"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/worker"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 BiteList API %s starting...", Version)

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	log.Printf("📋 Config loaded: port=%s, workers=%d, gin_mode=%s, llm=%s",
		cfg.Port, cfg.WorkerCount, cfg.GinMode, cfg.LanguageModelName())

	os.Setenv("GIN_MODE", cfg.GinMode)

	// Step 2: Create the extraction pipeline
	pipeline, err := app.NewPipeline(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ Failed to set up pipeline: %v", err)
	}

	info := handlers.Info{
		Version:           Version,
		YouTubeConfigured: cfg.YouTubeConfigured(),
		LanguageModel:     cfg.LanguageModelName(),
		ExtractTimeout:    cfg.ExtractTimeout,
	}

	// Step 3: Optional database, migrations and worker pool
	var h *handlers.Handler
	if cfg.DatabaseURL != "" {
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Println("✅ Database connected")

		if err := db.RunMigrations(); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}

		wp := worker.NewPool(cfg.WorkerCount, cfg.JobQueueSize, cfg.ExtractTimeout, db, pipeline.Orchestrator)
		if pipeline.YouTube != nil {
			wp.SetThumbnailFetcher(pipeline.YouTube)
		}
		wp.Start()
		defer wp.Stop()

		h = handlers.NewHandler(pipeline.Orchestrator, db, wp, info)
	} else {
		log.Println("⚠️  No DATABASE_URL set; extraction history and async jobs are disabled")
		h = handlers.NewHandler(pipeline.Orchestrator, nil, nil, info)
	}

	if cfg.APIKey != "" {
		log.Println("✅ API key required for /api/v1 routes")
	} else {
		log.Println("⚠️  No API_KEY set; the API is open")
	}

	// Step 4: Setup HTTP Router
	r := router.Setup(h, router.Options{
		APIKey:           cfg.APIKey,
		RateLimitPerHour: cfg.RateLimitPerHour,
		AllowedOrigins:   cfg.AllowedOrigins,
	})

	// Step 5: Start the HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ExtractTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 6: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("👋 Server stopped. Goodbye!")
}
