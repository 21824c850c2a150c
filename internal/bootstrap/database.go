package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-authgate/payapproval/internal/config"
	"github.com/go-authgate/payapproval/internal/store"
)

// initializeDatabase opens the database, retrying while it is unreachable
// (a database container usually starts slower than the API).
func initializeDatabase(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	attempts := max(cfg.DBConnectAttempts, 1)

	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := openDatabase(ctx, cfg)
		if err == nil {
			log.Printf("[Database] Connected (driver: %s)", cfg.DatabaseDriver)
			return db, nil
		}
		lastErr = err
		log.Printf("[Database] Connection attempt %d/%d failed: %v", i, attempts, err)

		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.DBConnectRetryDelay):
		}
	}
	return nil, fmt.Errorf("failed to initialize database: %w", lastErr)
}

func openDatabase(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DBInitTimeout)
	defer cancel()
	return store.New(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN, cfg)
}
