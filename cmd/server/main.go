package main

import (
	"fmt"
	"log"
	"os"

	"github.com/priceai/backend/config"
	httpDelivery "github.com/priceai/backend/internal/delivery/http"
	"github.com/priceai/backend/internal/domain"
	"github.com/priceai/backend/internal/infrastructure/auth"
	"github.com/priceai/backend/internal/infrastructure/cache"
	"github.com/priceai/backend/internal/infrastructure/serpapi"
	"github.com/priceai/backend/internal/infrastructure/sqlite"
	"github.com/priceai/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PriceAI Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	serpClient := serpapi.NewClient(serpapi.ClientConfig{
		APIKey:       cfg.SerpAPI.APIKey,
		BaseURL:      cfg.SerpAPI.BaseURL,
		GoogleDomain: cfg.SerpAPI.GoogleDomain,
		Country:      cfg.SerpAPI.Country,
		Language:     cfg.SerpAPI.Language,
		NumResults:   cfg.SerpAPI.NumResults,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		serpClient.SetDebug(true)
		log.Printf("SerpApi client debug mode enabled")
	}

	log.Printf("SerpApi configured: %s (domain: %s, gl: %s, results: %d)",
		cfg.SerpAPI.BaseURL, cfg.SerpAPI.GoogleDomain, cfg.SerpAPI.Country, cfg.SerpAPI.NumResults)

	store, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to open user store: %v", err)
	}
	defer store.Close()
	log.Printf("User store: %s", cfg.Storage.Path)

	// Initialize usecase layer
	searchService := usecase.NewSearchService(
		serpClient,
		memoryCache,
		usecase.SearchServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: cfg.Server.Environment == "development",
		},
	)
	collectionService := usecase.NewCollectionService(store)
	orderService := usecase.NewOrderService(store, nil, 0)
	authService := auth.NewService(store)

	// Prime per-user membership state on sign-in so the first toggle
	// does not race an unloaded snapshot.
	authService.Subscribe(func(user *domain.User) {
		if user != nil {
			collectionService.Prime(user.ID)
		}
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, collectionService, orderService, authService, store)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, authService)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
