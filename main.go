package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"mediascout/api"
	"mediascout/config"
	"mediascout/handlers"
	"mediascout/services/availability"
	"mediascout/services/books"
	"mediascout/services/fetch"
	"mediascout/services/metadata"
	"mediascout/services/music"
	"mediascout/services/research"
	"mediascout/utils"
)

func main() {
	cfg := config.Load()

	if cfg.LogPath != "" {
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    20, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
		}))
	}

	fetcher := fetch.NewClient(nil, nil)

	// The proxy pool is fetched once; an empty pool degrades retries to
	// direct-only.
	pool := fetch.LoadProxyPool(context.Background(), cfg.ProxyListURL)
	retrier := fetch.NewRetrier(fetcher, pool)

	aggregator := availability.NewAggregator(retrier)
	regions := availability.NewRegionIterator(aggregator, cfg.Regions)

	engine := research.NewService(
		metadata.NewService(cfg.TMDBAPIKey, cfg.OMDBAPIKey, fetcher),
		music.NewService(fetcher),
		books.NewService(cfg.GoogleBooksAPIKey, fetcher),
		aggregator,
		regions,
	)

	router := utils.NewRouter()
	router.Use(api.RequestIDMiddleware())
	router.Use(api.LoggingMiddleware())

	handlers.NewResearchHandler(engine).Register(router)
	router.HandleFunc("/api/version", handlers.NewVersionHandler().GetVersion).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[main] mediascout %s listening on %s (regions=%v, proxies=%d)",
		handlers.BackendVersion(), cfg.ListenAddr, cfg.Regions, pool.Size())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[main] server exited: %v", err)
	}
}
