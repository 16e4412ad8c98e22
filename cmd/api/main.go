package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/norma43/internal/config"
	"github.com/MrJamesThe3rd/norma43/internal/database"
	n43Http "github.com/MrJamesThe3rd/norma43/internal/http"
	statementHandler "github.com/MrJamesThe3rd/norma43/internal/http/statement"
	"github.com/MrJamesThe3rd/norma43/internal/importer"
	"github.com/MrJamesThe3rd/norma43/internal/statement"
	statementStore "github.com/MrJamesThe3rd/norma43/internal/statement/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var (
		importService    = importer.NewService()
		statementService = statement.NewService(statementStore.New(db))
	)

	statementH := statementHandler.NewHandler(importService, statementService, cfg.Import.MaxUploadBytes)

	router := n43Http.New(cfg.CORS.AllowedOrigins, statementH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
