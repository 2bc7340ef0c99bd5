// Copyright (c) 2024 cblomart
// Licensed under the MIT License

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pulsenews/internal/api"
	"pulsenews/internal/cache"
	"pulsenews/internal/config"
	"pulsenews/internal/feed"
	"pulsenews/internal/ingest"
	"pulsenews/internal/poller"
	"pulsenews/internal/reader"
	"pulsenews/internal/storage"

	_ "pulsenews/docs"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize cache for read responses
	cacheManager := cache.NewManager(cfg.CacheTTL)

	// Initialize persistent storage
	store, err := storage.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}
	defer store.Close()

	// Build the two pipelines
	fetcher := feed.NewFetcher(cfg.FeedURL, cfg.FetchTimeout)
	ingester := ingest.New(fetcher, store, cfg.DedupPageSize)
	rdr := reader.New(store, cfg.Location(), cfg.ReadFetchRows)

	// Optional background poller keeps the store warm between requests
	var backgroundPoller *poller.Poller
	if cfg.EnablePoller {
		backgroundPoller = poller.New(ingester, cacheManager, cfg.PollInterval)
		backgroundPoller.Start()
	}

	// Initialize API server
	server := api.NewServer(ingester, rdr, store, cacheManager, backgroundPoller, cfg)

	log.Printf("Starting Pulse News server on port %d", cfg.Port)
	log.Printf("Feed URL: %s", cfg.FeedURL)
	log.Printf("Data directory: %s", cfg.DataDir)
	log.Printf("Timezone: %s", cfg.Timezone)
	log.Printf("Cache TTL: %v", cfg.CacheTTL)
	if cfg.EnablePoller {
		log.Printf("Background polling interval: %v", cfg.PollInterval)
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create a context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start signal handler in goroutine
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping services...")
		if backgroundPoller != nil {
			backgroundPoller.Stop()
		}
		cancel() // Cancel the context to stop the server
	}()

	// Start the server with context for graceful shutdown
	if err := server.StartWithContext(ctx); err != nil && err != context.Canceled {
		log.Fatal("Failed to start server:", err)
	}
}
