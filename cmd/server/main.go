package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bhoomisetu/internal/cache"
	"bhoomisetu/internal/config"
	"bhoomisetu/internal/service"
	"bhoomisetu/internal/transport/rest"

	"github.com/redis/go-redis/v9"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Primary:   %s", aiConfig.Primary.Model)
	log.Printf("  Secondary: %s", aiConfig.Secondary.Model)
	if aiConfig.Primary.IsEnabled() {
		log.Println("  Primary key:   configured")
	} else {
		log.Println("  Primary key:   NOT SET (tier skipped)")
	}
	if aiConfig.Secondary.IsEnabled() {
		log.Println("  Secondary key: configured")
	} else {
		log.Println("  Secondary key: NOT SET (tier skipped)")
	}

	// Engine policy (ranking weights, source selection, synonyms)
	engineCfg, err := config.LoadEngineConfig(cfg.EnginePath)
	if err != nil {
		log.Fatal("Failed to load engine config:", err)
	}

	// Redis connection; place caching degrades to in-process when absent
	var placeCache cache.PlaceCache
	if cfg.RedisAddr != "" {
		redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
		rdb := redis.NewClient(&redis.Options{
			Addr: redisAddr,
		})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")
		placeCache = cache.NewPlaceCache(rdb)
	} else {
		log.Println("Warning: REDIS_URI not set, using in-process place cache")
		placeCache = cache.NewMemoryPlaceCache()
	}

	// Load bundled datasets
	soilSvc, err := service.NewSoilService()
	if err != nil {
		log.Fatal("Failed to load soil table:", err)
	}
	fallback, err := service.NewFallbackDataset(cfg.FallbackCSV, engineCfg.CommoditySynonyms)
	if err != nil {
		log.Fatal("Failed to load price snapshot:", err)
	}

	// Initialize services
	authSvc := service.NewAuthService()
	classifier := service.NewClassifierService(aiConfig, engineCfg)
	weatherSvc := service.NewWeatherService(cfg)
	if !weatherSvc.IsConfigured() {
		log.Println("Warning: OPENWEATHER_API_KEY not set, weather lookups will be degraded")
	}
	marketClient := service.NewMarketClient(cfg)
	if !marketClient.IsConfigured() {
		log.Println("Warning: DATA_GOV_API_KEY not set, serving prices from the bundled snapshot only")
	}
	priceSvc := service.NewPriceService(engineCfg, classifier, marketClient, fallback)
	pipeline := service.NewPipeline(classifier, weatherSvc, soilSvc, priceSvc, placeCache)

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		Pipeline:       pipeline,
		PriceService:   priceSvc,
		WeatherService: weatherSvc,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/query")
		log.Println("  GET  /v1/prices")
		log.Println("  GET  /v1/weather/{place}")
		log.Println("  WS   /v1/ws/chat")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
