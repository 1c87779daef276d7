package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tradehub-api/internal/cache"
	"tradehub-api/internal/config"
	"tradehub-api/internal/handler"
	"tradehub-api/internal/middleware"
	"tradehub-api/internal/repository"
	"tradehub-api/internal/router"
	"tradehub-api/internal/service"
	"tradehub-api/internal/steam"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting TradeHub API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize the ledger/directory store based on config
	var store repository.Store
	var err error
	switch cfg.Store.Type {
	case "mongodb", "mongo":
		store, err = repository.NewMongoStore(cfg.Store.MongoURI, cfg.Store.MongoDatabase)
		if err != nil {
			log.Fatalf("Failed to initialize MongoDB store: %v", err)
		}
		log.Println("MongoDB store initialized")
	case "postgres", "postgresql":
		store, err = repository.NewPostgresStore(cfg.Store.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL store: %v", err)
		}
		log.Println("PostgreSQL store initialized")
	default: // sqlite
		store, err = repository.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite store: %v", err)
		}
		log.Println("SQLite store initialized")
	}
	defer store.Close()

	// Session cache: Redis in production, memory fallback otherwise
	var sessionCache cache.Cache
	sessionCache, err = cache.NewRedisCache(cache.RedisOptions{
		Addr:     cfg.Cache.RedisAddress(),
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		log.Printf("Warning: Redis connection failed (%v), using memory cache", err)
		sessionCache = cache.NewMemoryCache()
	} else {
		log.Println("Redis session cache initialized")
	}
	defer sessionCache.Close()

	// Steam collaborators: one process-wide snapshot client, bound only
	// through the narrow provider interface
	inventoryClient := steam.NewInventoryClient(cfg.Steam.BotSteamID, cfg.Steam.AppID, cfg.Steam.ContextID)

	var summaries handler.SummaryFetcher
	if cfg.Steam.APIKey != "" {
		summaries = steam.NewPlayerSummaryClient(cfg.Steam.APIKey)
		log.Println("Steam player summary client initialized")
	}

	// Initialize services
	offerService := service.NewOfferService(store, store, inventoryClient, cfg.Steam.InventoryTimeout)
	accountService := service.NewAccountService(store)
	sessionService := service.NewSessionService(sessionCache, cfg.Auth.SessionTTL)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(store, sessionCache)
	offerHandler := handler.NewOfferHandler(offerService)
	accountHandler := handler.NewAccountHandler(accountService)
	authHandler := handler.NewAuthHandler(accountService, sessionService, summaries, cfg.Auth.CallbackKey)

	// Create router
	r := router.New(router.Config{
		HealthHandler:  healthHandler,
		OfferHandler:   offerHandler,
		AccountHandler: accountHandler,
		AuthHandler:    authHandler,
		AuthMiddleware: middleware.NewAuthMiddleware(sessionService),
		RateLimiter:    middleware.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateBurst),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
