package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"pocketledger/internal/auth"
	"pocketledger/internal/config"
	pocketHttp "pocketledger/internal/http"
	authHandler "pocketledger/internal/http/auth"
	ledgerHandler "pocketledger/internal/http/ledger"
	"pocketledger/internal/kv/sqlite"
	"pocketledger/internal/ledger"
	ledgerStore "pocketledger/internal/ledger/store"
	"pocketledger/internal/user"
	userStore "pocketledger/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open store", "error", err, "path", cfg.Store.Path)
		os.Exit(1)
	}
	defer store.Close()

	var (
		engine    = ledger.NewService(ledgerStore.New(store))
		directory = user.NewDirectory(userStore.New(store))
		tokens    = auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	)

	var (
		authH   = authHandler.NewHandler(directory, engine, tokens)
		ledgerH = ledgerHandler.NewHandler(engine)
	)

	router := pocketHttp.New(authH, ledgerH)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
