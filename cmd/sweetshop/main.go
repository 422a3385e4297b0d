// Command sweetshop is a terminal front end for the Sweet Shop API.
//
// Without arguments it starts an interactive shell; the cart lives for as
// long as the shell runs. With arguments it runs a single command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"sweet-shop/api"
	"sweet-shop/config"
	"sweet-shop/storage"
	"sweet-shop/stores"
	"sweet-shop/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.Load()
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogPretty, os.Stderr)

	if cfg.Trace {
		shutdown, err := utils.InitTracing("sweetshop", os.Stderr)
		if err != nil {
			logger.Fatal().Err(err).Msg("tracing setup failed")
		}
		defer shutdown(context.Background())
	}

	store, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Storage).Msg("cannot open session storage")
	}
	defer closeStore()

	client := api.New(cfg.APIURL, api.WithTokenStore(store))
	shell := NewShell(ctx, client, store, cfg, logger, os.Stdin, os.Stdout)

	if len(os.Args) > 1 {
		if err := shell.Exec(ctx, os.Args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}
	shell.Run(ctx)
}

// openStorage returns the configured session storage and a function
// releasing it
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func(), error) {
	noop := func() {}
	switch cfg.Storage {
	case config.StorageMemory:
		return storage.NewMemoryStorage(), noop, nil
	case config.StorageRedis:
		s, err := storage.NewRedisStorage(ctx, cfg.RedisURL, "sweetshop")
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case config.StorageMongo:
		client, err := storage.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewMongoStorage(client, cfg.MongoDB), func() { client.Disconnect(context.Background()) }, nil
	default:
		s, err := storage.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	}
}

// receiptSender returns the email service when a provider is configured
func receiptSender(cfg *config.Config, logger zerolog.Logger) stores.ReceiptSender {
	es := utils.NewEmailService(cfg.PostmarkToken, cfg.SendgridKey, cfg.EmailSender, logger)
	if !es.Enabled() {
		return nil
	}
	return es
}
