package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/construbase/invoicepipe/internal/ai"
	"github.com/construbase/invoicepipe/internal/config"
	"github.com/construbase/invoicepipe/internal/database"
	"github.com/construbase/invoicepipe/internal/drive"
	"github.com/construbase/invoicepipe/internal/handlers"
	"github.com/construbase/invoicepipe/internal/models"
	"github.com/construbase/invoicepipe/internal/pipeline"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.BcItem{},
		&models.PjProject{},
		&models.FnDocument{},
		&models.FnDocumentLn{},
		&models.IcMovement{},
		&models.IcPrice{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	ctx := context.Background()

	// 4. File store client
	fetcher, err := drive.NewClient(ctx, cfg.Drive.ServiceAccountFile)
	if err != nil {
		log.Fatalf("Failed to init Drive client: %v", err)
	}
	log.Println("✅ Drive client initialized")

	// 5. AI extractor
	extractor, err := ai.NewExtractor(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to init Gemini client: %v", err)
	}
	defer extractor.Close()
	log.Printf("✅ Gemini client initialized (model: %s)", cfg.Gemini.Model)

	// 6. Pipeline wiring
	orchestrator := pipeline.NewOrchestrator(
		pipeline.NewDuplicateGuard(db.DB),
		pipeline.NewEngine(db.DB),
		fetcher,
		extractor,
		cfg.TenantID,
		cfg.Gemini.Timeout,
	)

	// 7. HTTP router
	router := handlers.NewRouter(db, orchestrator, cfg.JWTSecret)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s (tenant: %s)\n", cfg.Port, cfg.TenantID)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Create context with timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
