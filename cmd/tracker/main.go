// The tracker service polls the position feed for every known aircraft,
// persists position samples, and derives trips from each aircraft's
// trail. Each aircraft's poll chain is self-sustaining: the bootstrap
// schedules one initial poll per aircraft and every poll schedules its
// own successor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhawton/log4g"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/unklstewy/flightlog/internal/db"
	"github.com/unklstewy/flightlog/internal/scheduler"
	"github.com/unklstewy/flightlog/internal/tracker"
	"github.com/unklstewy/flightlog/pkg/config"
	"github.com/unklstewy/flightlog/pkg/feed"
)

var log = log4g.Category("main")

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log.Info("===========================================")
	log.Info("  flightlog tracker service")
	log.Info("===========================================")

	if *debug {
		log4g.SetLogLevel(log4g.DEBUG)
	}

	// Load .env if present, then configuration
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Error("Error loading .env file: " + err.Error())
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	log.Info(fmt.Sprintf("Configuration loaded from: %s", *configPath))
	log.Info(fmt.Sprintf("Feed host: %s", cfg.Feed.Host))
	log.Info(fmt.Sprintf("Poll cadence: found %dm, no-response %dm",
		cfg.Poller.FoundDelayMinutes, cfg.Poller.NoResponseDelayMinutes))

	// Connect to database
	database, err := db.ConnectWithRetry(cfg.Database, 5, time.Second)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.InitSchema(ctx); err != nil {
		log.Fatal(fmt.Sprintf("Failed to initialize schema: %v", err))
	}
	log.Info("Database schema initialized")

	// Repositories
	aircraftRepo := db.NewAircraftRepository(database)
	airportRepo := db.NewAirportRepository(database)
	positionRepo := db.NewPositionRepository(database)
	tripRepo := db.NewTripRepository(database)

	// Feed client
	feedClient := feed.NewADSBExchangeClient(feed.ClientConfig{
		BaseURL:          fmt.Sprintf("https://%s/v2", cfg.Feed.Host),
		APIKey:           cfg.Feed.APIKey,
		Timeout:          time.Duration(cfg.Feed.TimeoutSeconds) * time.Second,
		RateLimitSeconds: cfg.Feed.RateLimitSeconds,
	})
	defer feedClient.Close()

	// Scheduler and core components
	sched := scheduler.New(cfg.Scheduler.Workers)
	locks := tracker.NewAircraftLocks()
	resolver := tracker.NewAirportResolver(airportRepo)
	segmenter := tracker.NewSegmenter(positionRepo, tripRepo, locks)
	poller := tracker.NewPoller(
		aircraftRepo, positionRepo, feedClient, resolver, segmenter,
		sched, locks,
		tracker.PollerConfig{
			FoundDelay:      cfg.Poller.FoundDelay(),
			NoResponseDelay: cfg.Poller.NoResponseDelay(),
		},
	)

	// Bootstrap: one initial poll per aircraft, then chains self-sustain
	if err := poller.PollAll(ctx); err != nil {
		log.Fatal(fmt.Sprintf("Failed to schedule initial polls: %v", err))
	}

	// Periodic stats logging
	jobs := cron.New()
	jobs.AddFunc("@every 5m", func() {
		statsCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		stats, err := database.GetStats(statsCtx)
		if err != nil {
			log.Error(fmt.Sprintf("Failed to collect stats: %v", err))
			return
		}
		log.Info(fmt.Sprintf("stats: aircraft=%v positions=%v unprocessed=%v trips=%v",
			stats["aircraft"], stats["position_records"],
			stats["unprocessed_positions"], stats["trips"]))
	})
	jobs.Start()

	log.Info("===========================================")
	log.Info("  Tracker service started")
	log.Info("  Press Ctrl+C to stop")
	log.Info("===========================================")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info(fmt.Sprintf("Received signal: %v", sig))

	log.Info("Shutting down gracefully...")
	jobs.Stop()
	sched.Stop()
	log.Info("Tracker service stopped")
}
