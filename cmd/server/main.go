// Package main - entry point for the cloudprice HTTP server
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"cloudprice/api"
	"cloudprice/clouds/pricingapi"
	"cloudprice/clouds/psdb"
	"cloudprice/core/engine"
	"cloudprice/internal/cache"
	"cloudprice/internal/config"
	"cloudprice/internal/logging"
)

const version = "0.1.0"

func main() {
	addr := flag.String("addr", ":8080", "Server address")
	cfgFile := flag.String("config", "", "Config file (JSON or HCL)")
	flag.Parse()

	cfg := config.Default()
	if *cfgFile != "" {
		loaded, err := config.Load(*cfgFile)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Printf("initializing logging: %v", err)
	}
	defer logging.Sync()

	querier := pricingapi.NewClient(
		cfg.Upstream.Endpoint,
		cfg.Upstream.APIKey,
		cache.NewMemory(),
		time.Duration(cfg.Upstream.CacheTTLSeconds)*time.Second,
		cfg.Upstream.CacheVersion,
	)
	managed := psdb.NewClient(cfg.Managed.BaseURL)
	eng := engine.New(cfg, querier, managed)

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", api.NewServer(eng, version)))

	fmt.Printf("cloudprice server v%s listening on %s\n", version, *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatal(err)
	}
}
