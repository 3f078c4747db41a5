// The seed tool performs the one-time reference-data bootstrap: it
// creates the schema and loads the airport, engine, aircraft and
// people catalogs from JSON files into the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dhawton/log4g"
	"github.com/joho/godotenv"

	"github.com/unklstewy/flightlog/internal/db"
	"github.com/unklstewy/flightlog/internal/seed"
	"github.com/unklstewy/flightlog/pkg/config"
)

var log = log4g.Category("main")

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	dataDir := flag.String("data", "", "Catalog directory (overrides config)")
	flag.Parse()

	log.Info("flightlog reference-data bootstrap")

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Error("Error loading .env file: " + err.Error())
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	dir := cfg.Seed.Dir
	if *dataDir != "" {
		dir = *dataDir
	}
	log.Info(fmt.Sprintf("Catalog directory: %s", dir))

	database, err := db.ConnectWithRetry(cfg.Database, 5, time.Second)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.InitSchema(ctx); err != nil {
		log.Fatal(fmt.Sprintf("Failed to initialize schema: %v", err))
	}

	seeder := seed.New(
		db.NewAirportRepository(database),
		db.NewAircraftRepository(database),
		db.NewReferenceRepository(database),
	)

	if err := seeder.Run(ctx, dir); err != nil {
		log.Fatal(fmt.Sprintf("Bootstrap failed: %v", err))
	}

	log.Info("Bootstrap complete")
}
