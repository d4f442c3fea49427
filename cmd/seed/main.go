package main

import (
	"context"
	"flag"
	"log"
	"os"

	"storefront/internal/cli"
	"storefront/internal/config"
	"storefront/internal/remote"
	sessionrepo "storefront/internal/repository/session"
	"storefront/internal/seed"
	bannersvc "storefront/internal/service/banner"
	categorysvc "storefront/internal/service/category"
	"storefront/internal/service/gate"
	productsvc "storefront/internal/service/product"
	"storefront/internal/service/session"
)

func main() {
	var email, password string
	flag.StringVar(&email, "email", os.Getenv("ADMIN_EMAIL"), "Admin account email")
	flag.StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "Admin account password")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if email == "" || password == "" {
		logger.Fatalf("admin email and password are required (-email/-password or ADMIN_EMAIL/ADMIN_PASSWORD)")
	}

	ctx := context.Background()
	client := remote.New(cfg.APIBaseURL, cfg.APITimeout, logger)
	store := session.New(client, sessionrepo.NewMemory(), "seed", logger)

	credential, err := cli.RequireAdmin(ctx, store, gate.New(client, nil, logger), email, password)
	if err != nil {
		logger.Fatalf("admin login: %v", err)
	}
	defer store.Logout(ctx)

	res, err := seed.Apply(ctx, seed.Deps{
		Categories: categorysvc.New(client),
		Products:   productsvc.New(client),
		Banners:    bannersvc.New(client),
		Logger:     logger,
	}, credential)
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied: %d categories, %d products, %d banners created", res.Categories, res.Products, res.Banners)
}
