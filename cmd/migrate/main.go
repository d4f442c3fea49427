package main

import (
	"context"
	"flag"
	"log"
	"os"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/migrate"
	sessionrepo "storefront/internal/repository/session"
)

func main() {
	var down, purge bool
	flag.BoolVar(&down, "down", false, "Revert the most recent migration")
	flag.BoolVar(&purge, "purge", false, "Delete expired client sessions after migrating")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if down {
		if err := migrate.Rollback(ctx, pool); err != nil {
			logger.Fatalf("rollback migration: %v", err)
		}
		logger.Println("migration reverted")
		return
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}
	logger.Println("migrations applied")

	if purge {
		n, err := sessionrepo.PurgeExpired(ctx, pool)
		if err != nil {
			logger.Fatalf("purge expired sessions: %v", err)
		}
		logger.Printf("purged %d expired sessions", n)
	}
}
