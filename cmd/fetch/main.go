// Command fetch pulls the author's merged catalog from Open Library once
// and prints it as JSON. Useful for inspecting what the API would serve
// without running the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"authorsite/internal/catalog"
	"authorsite/internal/config"
	"authorsite/internal/gateway"
	"authorsite/internal/platform/openlibrary"
	"authorsite/internal/platform/webcache"
)

func main() {
	_ = godotenv.Load(".env.local")

	var (
		configPath = flag.String("config", os.Getenv("AUTHORSITE_CONFIG"), "path to YAML config file")
		limit      = flag.Int("limit", 0, "max books to fetch (0 uses the configured limit)")
		raw        = flag.Bool("raw", false, "print merged records without filter-engine ingest")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *limit <= 0 {
		*limit = cfg.FetchLimit
	}

	client := openlibrary.NewClient(cfg.OpenLibraryURL, cfg.UserAgent, cfg.UpstreamRPS, cfg.UpstreamRetries, webcache.New(cfg.CacheTTL))
	gw := gateway.New(client, cfg.AuthorID, cfg.AuthorName)
	gw.SetDetailTimeout(cfg.DetailTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	records, total, err := gw.FetchMergedCatalog(ctx, *limit)
	if err != nil {
		log.Fatalf("fetch: %v", err)
	}
	log.Printf("fetched %d records (upstream total %d)", len(records), total)

	if !*raw {
		engine := catalog.NewEngine()
		engine.Ingest(records)
		records = engine.Books()
		log.Printf("kept %d records after ingest", len(records))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		log.Fatalf("encode: %v", err)
	}
}
