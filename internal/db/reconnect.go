package db

import (
	"context"
	"fmt"
	"time"

	"github.com/dhawton/log4g"
	"github.com/unklstewy/flightlog/pkg/config"
)

var log = log4g.Category("db")

// ConnectWithRetry attempts to connect to the database with exponential backoff.
// This provides resilience against the database starting up after the service.
//
// Parameters:
//   - cfg: Database configuration
//   - maxRetries: Maximum number of connection attempts (0 = infinite)
//   - initialDelay: Initial wait time between retries
//
// Returns: Connected database or error if all retries exhausted
func ConnectWithRetry(cfg config.DatabaseConfig, maxRetries int, initialDelay time.Duration) (*DB, error) {
	delay := initialDelay
	attempt := 0

	for {
		attempt++

		log.Info(fmt.Sprintf("database connection attempt %d...", attempt))

		db, err := Connect(cfg)
		if err == nil {
			// Test the connection
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			pingErr := db.PingContext(ctx)
			cancel()

			if pingErr == nil {
				log.Info("database connected")
				return db, nil
			}

			// Close failed connection
			db.Close()
			err = pingErr
		}

		// Check if we've exceeded max retries
		if maxRetries > 0 && attempt >= maxRetries {
			log.Error(fmt.Sprintf("failed to connect after %d attempts", attempt))
			return nil, err
		}

		log.Error(fmt.Sprintf("connection failed: %v (retry in %v)", err, delay))
		time.Sleep(delay)

		// Exponential backoff with cap at 60 seconds
		delay *= 2
		if delay > 60*time.Second {
			delay = 60 * time.Second
		}
	}
}
