package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/sheikh-saqib/account-ledger-service/internal/config"
	"github.com/sheikh-saqib/account-ledger-service/internal/events/kafka"
	"github.com/sheikh-saqib/account-ledger-service/internal/events/noop"
	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/ledger"
	"github.com/sheikh-saqib/account-ledger-service/internal/server"
	"github.com/sheikh-saqib/account-ledger-service/internal/storage/memory"
	"github.com/sheikh-saqib/account-ledger-service/internal/storage/postgres"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open ledger store")
	}
	defer store.Close()

	for _, acc := range cfg.Accounts {
		if err := store.CreateAccount(ctx, acc.ID, acc.Limit); err != nil {
			log.Fatal().Err(err).Int64("account_id", acc.ID).Msg("seed account")
		}
	}

	var publisher interfaces.EventPublisher = noop.Publisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
	}

	engine := ledger.NewEngine(store, publisher, log)
	statements := ledger.NewStatements(store)
	handler := server.NewHandler(engine, statements, store, log)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.NewRouter(handler, log),
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (interfaces.LedgerStore, error) {
	if cfg.DatabaseURL == "" {
		log.Info().Msg("no DATABASE_URL set, using in-memory store")
		return memory.NewStore(), nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	store := postgres.NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
