package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shopgrid/storefront/pkg/cache"
	"github.com/shopgrid/storefront/pkg/catalog"
	"github.com/shopgrid/storefront/pkg/ebay"
	"github.com/shopgrid/storefront/pkg/logging"
	"github.com/shopgrid/storefront/pkg/pipeline"
	"github.com/shopgrid/storefront/pkg/query"
)

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") == "true",
		Output: os.Stderr,
	})

	cfg := pipeline.Config{
		AppID:     os.Getenv("EBAY_APP_ID"),
		StoreName: os.Getenv("EBAY_STORE_NAME"),
		GlobalID:  getEnv("EBAY_GLOBAL_ID", "EBAY-US"),
		TTL:       time.Duration(getEnvInt("CACHE_TTL_SECONDS", 600)) * time.Second,
	}
	if cfg.AppID == "" || cfg.StoreName == "" {
		logger.Warn().Msg("EBAY_APP_ID or EBAY_STORE_NAME not set; item requests will fail")
	}

	store := buildStore(logger)

	// The pipeline rejects requests with ErrConfigMissing before touching the
	// upstream, so a nil client is safe while credentials are absent.
	var upstream pipeline.Searcher
	if cfg.AppID != "" {
		client, err := ebay.New(ebay.Config{AppID: cfg.AppID})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create Finding API client")
		}
		upstream = client
	}

	p := pipeline.New(cfg, upstream, store)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", healthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/items", itemsHandler(p))

	addr := ":" + getEnv("PORT", "8080")
	logger.Info().
		Str("addr", addr).
		Str("store", cfg.StoreName).
		Str("site", cfg.GlobalID).
		Msg("Starting storefront server")

	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// buildStore selects the cache backend: Redis when REDIS_URL is set, the
// in-process memory store otherwise.
func buildStore(logger zerolog.Logger) cache.Store {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return cache.NewMemory()
	}

	client := redis.NewClient(&redis.Options{Addr: redisURL})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", redisURL).Msg("Failed to connect to Redis")
	}
	logger.Info().Str("addr", redisURL).Msg("Using Redis cache backend")
	return cache.NewRedis(client)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// itemsResponse is the success payload of GET /api/items.
type itemsResponse struct {
	Items []catalog.Item `json:"items"`
}

// errorResponse is the failure payload.
type errorResponse struct {
	Error string `json:"error"`
}

func itemsHandler(p *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := query.FromValues(r.URL.Query())

		items, err := p.GetItems(r.Context(), params)
		if err != nil {
			// Only ErrConfigMissing escapes the pipeline; upstream failures
			// degrade to an empty list inside it.
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, itemsResponse{Items: items})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

