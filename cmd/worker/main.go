package main

import (
	"log"
	"os"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/activities"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/workflows"
)

func main() {
	temporalHost := getEnv("TEMPORAL_HOST", "localhost:7233")
	apiBaseURL := getEnv("API_BASE_URL", "http://localhost:8080")

	log.Printf("Connecting to Temporal at %s...", temporalHost)
	c, err := client.Dial(client.Options{
		HostPort: temporalHost,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Temporal: %v", err)
	}
	defer c.Close()
	log.Println("Connected to Temporal")

	w := worker.New(c, models.GrabTaskQueue, worker.Options{})

	// Register workflows
	w.RegisterWorkflow(workflows.GrabWorkflow)

	// Create and register activities
	acts := activities.NewActivities(apiBaseURL)
	w.RegisterActivityWithOptions(acts.EnqueueReservations, activity.RegisterOptions{Name: "EnqueueReservations"})
	w.RegisterActivityWithOptions(acts.DrainReservations, activity.RegisterOptions{Name: "DrainReservations"})

	log.Println("Starting Temporal worker...")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
