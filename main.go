package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/quizforge/trivia-api/db"
	"github.com/quizforge/trivia-api/handlers"
	"github.com/quizforge/trivia-api/jobs"
	"github.com/quizforge/trivia-api/utils"
)

func main() {
	// Set up logging with timestamps
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	utils.LogStartup("Trivia API starting...")

	if err := godotenv.Load(); err != nil {
		utils.LogStartup("No .env file found, using system environment variables")
	}

	port := utils.GetEnvInt("PORT", 8080)
	dbPath := utils.GetEnvOrDefault("DB_PATH", "./trivia.db")
	redisURL := utils.GetEnvOrDefault("REDIS_URL", "")

	utils.LogStartup("Using port %d, database path %s", port, dbPath)

	database, err := db.InitDB(dbPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize database: %v", err)
	}

	// Background maintenance is optional: without Redis the API runs with
	// only the inline referential checks.
	var jobManager *jobs.JobManager
	if redisURL != "" {
		utils.LogStartup("Redis configured at %s, enabling background maintenance", redisURL)
		jobManager = jobs.NewJobManager(redisURL, database)
		if err := jobManager.Start(); err != nil {
			log.Fatalf("[FATAL] Failed to start job manager: %v", err)
		}
		if err := jobManager.EnqueueIntegritySweep(); err != nil {
			utils.LogError("Failed to queue startup integrity sweep: %v", err)
		}
	} else {
		utils.LogStartup("REDIS_URL not set, background maintenance disabled")
	}

	// Set up graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		utils.LogShutdown("Received shutdown signal")
		if jobManager != nil {
			jobManager.Stop()
		}
		if err := database.Close(); err != nil {
			utils.LogError("Error closing database: %v", err)
		} else {
			utils.LogShutdown("Database connection closed successfully")
		}
		os.Exit(0)
	}()

	utils.LogStartup("Setting up API routes...")
	router := handlers.NewRouter(database)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.LogStartup("Server ready to accept connections at http://localhost:%d", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[FATAL] Server failed to start: %v", err)
	}
}
