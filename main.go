package main

import (
	"log"

	api "github.com/gagangborneo/chatzwa-sub002/cmd/api"
	syncdomain "github.com/gagangborneo/chatzwa-sub002/internal/sync/domain"
	syncRepo "github.com/gagangborneo/chatzwa-sub002/internal/sync/repository"
	syncSource "github.com/gagangborneo/chatzwa-sub002/internal/sync/source"
	syncUsecase "github.com/gagangborneo/chatzwa-sub002/internal/sync/usecase"
	"github.com/gagangborneo/chatzwa-sub002/pkg/chroma"
	"github.com/gagangborneo/chatzwa-sub002/pkg/config"
	"github.com/gagangborneo/chatzwa-sub002/pkg/database"
	"github.com/gagangborneo/chatzwa-sub002/pkg/ollama"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&syncdomain.SyncHistory{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	historyRepo := syncRepo.NewSyncHistoryRepository(db)

	// Runtime settings feed the embedding client through getters, so the
	// settings API can repoint it without a restart. NewHandler seeds them
	// from the static config.
	embedder := ollama.NewClientWithGetters(api.GetRuntimeOllamaBaseURL, api.GetRuntimeOllamaModel)

	vectorStore, err := chroma.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to initialize Chroma client:", err)
	}
	log.Printf("Chroma client initialized for collection %s at %s", cfg.ChromaCollection, cfg.ChromaURL)

	sources := syncSource.NewDefaultRegistry()

	// Initialize use cases (dependency injection)
	synchronizer := syncUsecase.NewSynchronizer(embedder, vectorStore, sources, historyRepo)

	// Initialize HTTP handler
	handler := api.NewHandler(synchronizer, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
