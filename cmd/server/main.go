package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.temporal.io/sdk/client"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/database"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/dataset"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/engine"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/handlers"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/router"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/service"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/websocket"
)

const (
	DefaultPort          = "8080"
	DefaultGeneratedSize = 300
)

func main() {
	ctx := context.Background()

	port := getEnv("API_PORT", DefaultPort)
	datasetPath := os.Getenv("DATASET_PATH")
	dbURL := os.Getenv("DATABASE_URL")
	temporalHost := os.Getenv("TEMPORAL_HOST")

	// Optional Postgres mirror
	var repo *database.Repository
	if dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		repo = database.NewRepository(pool)
		log.Println("Connected to database")
	}

	// Optional Temporal client for grab sessions
	var temporalClient client.Client
	if temporalHost != "" {
		c, err := client.Dial(client.Options{
			HostPort: temporalHost,
		})
		if err != nil {
			log.Fatalf("Failed to create Temporal client: %v", err)
		}
		defer c.Close()
		temporalClient = c
		log.Printf("Connected to Temporal server at %s", temporalHost)
	}

	// Build the in-memory system: database first, then dataset file, then a
	// generated schedule.
	sys := engine.New()
	flights, source, err := loadFlights(ctx, repo, datasetPath)
	if err != nil {
		log.Fatalf("Failed to load flights: %v", err)
	}
	added := sys.LoadRecords(flights)
	log.Printf("Loaded %d flights from %s", added, source)

	// WebSocket hub for flight events
	hub := websocket.NewHub()
	go hub.Run()

	flightService := service.NewFlightService(sys, hub, repo, temporalClient)
	h := handlers.NewHandler(flightService)
	r := router.SetupRouter(h, hub)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("API Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func loadFlights(ctx context.Context, repo *database.Repository, datasetPath string) ([]models.Flight, string, error) {
	if repo != nil {
		flights, err := repo.LoadAll(ctx)
		if err != nil {
			return nil, "", err
		}
		if len(flights) > 0 {
			return flights, "database", nil
		}
	}

	if datasetPath != "" {
		flights, skipped, err := dataset.LoadFile(datasetPath)
		if err != nil {
			return nil, "", err
		}
		if skipped > 0 {
			log.Printf("Skipped %d malformed dataset rows", skipped)
		}
		return flights, datasetPath, nil
	}

	return dataset.Generate(DefaultGeneratedSize, time.Now().UnixNano()), "generated schedule", nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
