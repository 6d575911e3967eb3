package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ordergrid/internal/config"
	"ordergrid/internal/database"
	"ordergrid/internal/handler"
	"ordergrid/internal/mw"
	"ordergrid/internal/service"
	"ordergrid/internal/worker"
)

func main() {
	cfg := config.New()

	db, err := database.NewDB(cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(context.Background(), db)

	if err := database.InitSchema(db); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	// Services
	sessions := service.NewSessionStore(cfg.HistoryDepth)
	directory := service.NewDirectoryService(db)
	lookupClient := service.NewLookupClient(cfg.LookupAddress)
	estimateClient := service.NewEstimateClient(cfg.EstimationAddress)
	saveClient := service.NewSaveClient(cfg.OrderSaveAddress)

	// Worker
	estimateWorker := worker.NewEstimateWorker(sessions, estimateClient)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.JWTSecret))

		r.Post("/api/grid", handler.CreateSessionHandler(sessions))
		r.Get("/api/grid/{sessionID}", handler.GetSessionHandler(sessions))

		r.Post("/api/grid/{sessionID}/rows", handler.AddRowHandler(sessions))
		r.Delete("/api/grid/{sessionID}/rows/{rowID}", handler.DeleteRowHandler(sessions))
		r.Post("/api/grid/{sessionID}/cell", handler.SetCellHandler(sessions))
		r.Post("/api/grid/{sessionID}/bulk", handler.BulkUpdateHandler(sessions))

		r.Post("/api/grid/{sessionID}/selection", handler.SelectHandler(sessions))
		r.Post("/api/grid/{sessionID}/copy", handler.CopyHandler(sessions))
		r.Post("/api/grid/{sessionID}/paste", handler.PasteHandler(sessions))

		r.Post("/api/grid/{sessionID}/undo", handler.UndoHandler(sessions))
		r.Post("/api/grid/{sessionID}/redo", handler.RedoHandler(sessions))

		r.Get("/api/grid/{sessionID}/export", handler.ExportCSVHandler(sessions))
		r.Post("/api/grid/{sessionID}/import", handler.ImportCSVHandler(sessions))

		r.Post("/api/grid/{sessionID}/save", handler.SaveHandler(sessions, saveClient, directory))
		r.Post("/api/grid/{sessionID}/estimate", handler.EstimateHandler(sessions, estimateWorker))
		r.Post("/api/grid/{sessionID}/apply-item", handler.ApplyItemHandler(sessions))

		r.Get("/api/lookup", handler.LookupHandler(lookupClient))

		r.Get("/api/directory/suppliers", handler.SuppliersHandler(directory))
		r.Get("/api/directory/payment-types", handler.PaymentTypesHandler())
		r.Get("/api/directory/carrying-bases", handler.CarryingBasesHandler())
	})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go estimateWorker.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
