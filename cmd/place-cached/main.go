package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tablenote/place-cache/pkg/freshness"
	"github.com/tablenote/place-cache/pkg/logging"
	"github.com/tablenote/place-cache/pkg/placecache"
	"github.com/tablenote/place-cache/pkg/provider"
	"github.com/tablenote/place-cache/pkg/store"
)

func main() {
	// Configuration from environment
	redisURL := getEnv("REDIS_URL", "localhost:6379")
	port := getEnv("PORT", "8080")
	providerBaseURL := getEnv("PROVIDER_BASE_URL", "")
	providerAPIKey := getEnv("PROVIDER_API_KEY", "")
	cacheTTL := getDurationEnv("CACHE_TTL", 0) // 0 = package default (7 days)

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "false") == "true",
		Output: os.Stderr,
	}).With().Str("component", "place-cached").Logger()

	if providerBaseURL == "" {
		logger.Fatal().Msg("PROVIDER_BASE_URL is required")
	}

	// Setup Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
	}
	logger.Info().Str("redis_url", redisURL).Msg("Connected to Redis")

	// Wire the caching layer
	placeStore := store.NewRedis(redisClient)

	adapter, err := provider.NewHTTPAdapter(provider.Config{
		BaseURL:   providerBaseURL,
		APIKey:    providerAPIKey,
		UserAgent: getEnv("USER_AGENT", "place-cache/0.1.0"),
		Timeout:   getDurationEnv("PROVIDER_TIMEOUT", 10*time.Second),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create provider adapter")
	}

	coordinator, err := placecache.New(placecache.Config{
		Store:  placeStore,
		Policy: freshness.NewPolicy(cacheTTL),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create coordinator")
	}

	refresher := placecache.NewRefresher(coordinator)
	reporter := placecache.NewReporter(placeStore)

	// HTTP Server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/places/", placesHandler(coordinator, refresher, placeStore, adapter, logger))
	mux.HandleFunc("/stats", statsHandler(reporter, logger))
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("Starting place cache server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown: stop accepting requests, then drain in-flight
	// background refreshes before exiting.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Server shutdown error")
	}
	refresher.Wait()
	redisClient.Close()
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// placesHandler serves GET /places/{externalID} and
// POST /places/{externalID}/refresh.
func placesHandler(coordinator *placecache.Coordinator, refresher *placecache.Refresher, placeStore store.Store, adapter provider.Adapter, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		externalID := strings.TrimPrefix(r.URL.Path, "/places/")

		if r.Method == http.MethodPost && strings.HasSuffix(externalID, "/refresh") {
			externalID = strings.TrimSuffix(externalID, "/refresh")
			handleRefresh(w, r, refresher, placeStore, adapter, externalID)
			return
		}

		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if externalID == "" || strings.Contains(externalID, "/") {
			http.Error(w, "external id required", http.StatusBadRequest)
			return
		}

		rec, err := coordinator.FetchOrCache(r.Context(), externalID, adapter)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if rec == nil {
			http.Error(w, "place not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, rec, logger)
	}
}

// handleRefresh fires a background refresh and returns immediately.
// Only records already in the cache can be refreshed.
func handleRefresh(w http.ResponseWriter, r *http.Request, refresher *placecache.Refresher, placeStore store.Store, adapter provider.Adapter, externalID string) {
	if externalID == "" {
		http.Error(w, "external id required", http.StatusBadRequest)
		return
	}

	rec, err := placeStore.FindByExternalID(r.Context(), externalID)
	if err != nil {
		http.Error(w, "place not cached", http.StatusNotFound)
		return
	}

	refresher.Refresh(rec.ID, externalID, adapter)
	w.WriteHeader(http.StatusAccepted)
}

func statsHandler(reporter *placecache.Reporter, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := reporter.Snapshot(r.Context())
		if err != nil {
			logger.Error().Err(err).Msg("Stats snapshot failed")
			http.Error(w, "stats unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, snap, logger)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn().Err(err).Msg("Failed to write response")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
