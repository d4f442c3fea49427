package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"storefront/internal/cli"
	"storefront/internal/config"
	"storefront/internal/importer"
	"storefront/internal/remote"
	sessionrepo "storefront/internal/repository/session"
	categorysvc "storefront/internal/service/category"
	"storefront/internal/service/gate"
	productsvc "storefront/internal/service/product"
	"storefront/internal/service/session"
)

func main() {
	var filePath, email, password string
	flag.StringVar(&filePath, "file", "", "Path to product CSV file")
	flag.StringVar(&email, "email", os.Getenv("ADMIN_EMAIL"), "Admin account email")
	flag.StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "Admin account password")
	flag.Parse()

	if filePath == "" || email == "" || password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	client := remote.New(cfg.APIBaseURL, cfg.APITimeout, logger)
	store := session.New(client, sessionrepo.NewMemory(), "importer", logger)
	credential, err := cli.RequireAdmin(ctx, store, gate.New(client, nil, logger), email, password)
	if err != nil {
		logger.Fatalf("admin login: %v", err)
	}
	defer store.Logout(ctx)

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, productsvc.New(client), categorysvc.New(client), credential)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
