package main

import (
	"fmt"
	"log/slog"

	"github.com/LucasAniceto/PaulsenIF/infra/repository/gormstore"
	"github.com/LucasAniceto/PaulsenIF/infra/repository/memory"
	"github.com/LucasAniceto/PaulsenIF/pkg/config"
	"github.com/LucasAniceto/PaulsenIF/pkg/logging"
	"github.com/LucasAniceto/PaulsenIF/pkg/repository"
	"github.com/LucasAniceto/PaulsenIF/pkg/sequence"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/consents"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/directory"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/ledger"
	"github.com/LucasAniceto/PaulsenIF/webapi"
	"github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env", slog.Default())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.TimeFormat, cfg.Log.Prefix)

	var store repository.UnitOfWork
	if cfg.DB.URL == "" {
		logger.Warn("DATABASE_URL not set, running on the in-memory store")
		store = memory.New()
	} else {
		gs, err := gormstore.Open(cfg.DB.URL, cfg.Env)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		store = gs
	}

	ids := sequence.NewGenerator(store.Counters())
	app := webapi.New(webapi.Deps{
		Directory: directory.NewService(store, ids, logger),
		Consents:  consents.NewService(store, logger),
		Ledger:    ledger.NewService(store, ids, logger),
		Logger:    logger,
	})

	logger.Info("starting server", "env", cfg.Env, "address", cfg.Server.Addr())
	return app.Listen(cfg.Server.Addr())
}
