package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"github.com/kasonde-dev/stockpilot-backend/internal/cache"
	"github.com/kasonde-dev/stockpilot-backend/internal/config"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/analytics"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/assistant"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/auth"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/inventory"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/order"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/user"
)

func main() {
	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Successfully connected to the database!")

	reportCache := cache.New(context.Background(), cfg.RedisAddr)
	if reportCache != nil {
		fmt.Println("Analytics cache enabled")
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	authService := auth.NewService(userRepo, tokens)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Catalog & Inventory ─────────────────────────────────
	productRepo := inventory.NewPostgresRepository(db)
	inventoryService := inventory.NewService(productRepo)
	inventory.NewHandler(inventoryService, tokens).RegisterRoutes(router)

	// ── Orders ──────────────────────────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, userRepo)
	order.NewHandler(orderService, tokens).RegisterRoutes(router)

	// ── Analytics ───────────────────────────────────────────
	analyticsRepo := analytics.NewPostgresRepository(db)
	analyticsService := analytics.NewService(analyticsRepo, productRepo, userRepo, reportCache)
	analytics.NewHandler(analyticsService, tokens).RegisterRoutes(router)

	// ── AI Assistant ────────────────────────────────────────
	completions := assistant.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	assistantService := assistant.NewService(completions, productRepo, orderRepo)
	assistant.NewHandler(assistantService, tokens).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	fmt.Printf("StockPilot API server starting on :%s\n", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
