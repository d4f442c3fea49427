package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/cli"
	"storefront/internal/config"
	"storefront/internal/remote"
	sessionrepo "storefront/internal/repository/session"
	cartsvc "storefront/internal/service/cart"
	"storefront/internal/service/gate"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
	"storefront/internal/service/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[shopctl] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if os.Getenv("SHOPCTL_DEBUG") == "" {
		logger.SetOutput(io.Discard)
	}

	repo, err := sessionrepo.NewFile(cfg.SessionDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "session storage: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := remote.New(cfg.APIBaseURL, cfg.APITimeout, logger)
	app := &cli.App{
		Store:    session.New(client, repo, cfg.Profile, logger),
		Gate:     gate.New(client, nil, logger),
		Products: productsvc.New(client),
		Carts:    cartsvc.New(client, nil, logger),
		Orders:   ordersvc.New(client),
		Out:      os.Stdout,
	}

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintf(os.Stderr, "%v\n\n%s\n", err, cli.Usage())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

