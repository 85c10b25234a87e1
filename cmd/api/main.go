package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"authorsite/internal/catalog"
	"authorsite/internal/config"
	"authorsite/internal/description"
	"authorsite/internal/gateway"
	apphttp "authorsite/internal/http"
	"authorsite/internal/httpx"
	"authorsite/internal/platform/openlibrary"
	"authorsite/internal/platform/webcache"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load(os.Getenv("AUTHORSITE_CONFIG"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	cache := webcache.New(cfg.CacheTTL)
	stopSweeper := make(chan struct{})
	defer close(stopSweeper)
	cache.StartSweeper(time.Minute, stopSweeper)

	client := openlibrary.NewClient(cfg.OpenLibraryURL, cfg.UserAgent, cfg.UpstreamRPS, cfg.UpstreamRetries, cache)
	gw := gateway.New(client, cfg.AuthorID, cfg.AuthorName)
	gw.SetDetailTimeout(cfg.DetailTimeout)

	resolver := description.NewResolver(cfg.AuthorName, descriptionStrategies(cfg)...)
	svc := catalog.NewService(gw, resolver, cfg.FetchLimit)

	// Warm the catalog before accepting traffic. A failed first fetch is not
	// fatal; /readyz stays unready and /api/refresh can retry.
	warmCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := svc.Refresh(warmCtx); err != nil {
		log.Printf("initial catalog fetch failed: %v", err)
	}
	cancel()

	router := newRouter(svc, cfg.WebRoot)

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)

	var root http.Handler = router
	root = httpx.RequestSizeLimitMiddleware(cfg.MaxRequestBytes)(root)
	root = rateLimiter.Middleware(root)
	root = httpx.CORSMiddleware(cfg.AllowedOrigins)(root)
	root = httpx.SecurityHeadersMiddleware(root)
	root = httpx.RecoveryMiddleware(root)
	root = httpx.AccessLogMiddleware(root)
	root = httpx.RequestIDMiddleware(root)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      root,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on %s (author=%s)", cfg.Addr, cfg.AuthorID)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func newRouter(svc apphttp.CatalogService, webRoot string) *http.ServeMux {
	handler := apphttp.NewCatalogHandler(svc)

	router := http.NewServeMux()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !svc.Ready() {
			http.Error(w, "catalog not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Handle("/api/books", apphttp.MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(handler.List),
	}))
	router.Handle("/api/books/", apphttp.MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(handler.Describe),
	}))
	router.Handle("/api/facets", apphttp.MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(handler.Facets),
	}))
	router.Handle("/api/refresh", apphttp.MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(handler.Refresh),
	}))

	router.Handle("/", apphttp.NewStaticHandler(webRoot))

	return router
}

// descriptionStrategies assembles the optional resolver steps from what is
// configured. Order matters: dataset lookups run before generation.
func descriptionStrategies(cfg *config.Config) []description.Strategy {
	var strategies []description.Strategy
	if cfg.DatasetURL != "" {
		strategies = append(strategies, description.NewDatasetStrategy(cfg.DatasetURL, cfg.DatasetToken))
	}
	if cfg.OpenAIKey != "" {
		strategies = append(strategies, description.NewOpenAIStrategy(cfg.OpenAIKey, cfg.OpenAIModel, cfg.AuthorName))
	}
	return strategies
}
