package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/database"
	"trade-journal-go/internal/logger"
	"trade-journal-go/internal/service"
	"trade-journal-go/internal/storage"
)

func main() {
	// A local .env can override config values during development.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	repo := storage.NewGormTradeRepository(db)
	svc := service.New(log, repo, cfg.Import.DefaultAccount, cfg.Import.MaxFileSizeMB)
	apiHandler := NewAPIHandler(log, svc)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/import", apiHandler.StartImport)
		r.Post("/import/{id}/mapping", apiHandler.ConfirmMapping)
		r.Post("/import/{id}/confirm", apiHandler.ConfirmImport)
		r.Delete("/import/{id}", apiHandler.CancelImport)

		r.Get("/trades", apiHandler.ListTrades)
		r.Post("/trades", apiHandler.CreateTrade)
		r.Put("/trades/{id}", apiHandler.UpdateTrade)
		r.Delete("/trades/{id}", apiHandler.DeleteTrade)

		r.Get("/stats", apiHandler.Stats)
		r.Get("/export/trades.csv", apiHandler.ExportTrades)
		r.Get("/export/report.csv", apiHandler.ExportReport)
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting journal server", zap.String("address", addr))

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}
