package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"ghdash/clients/socketio"
	"ghdash/config"
	"ghdash/db"
	"ghdash/handlers"
	"ghdash/middleware"
	"ghdash/pubsub"
	"ghdash/services/workflows"
	"ghdash/usecases/webhook"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.AlertConfig{
		WebhookURL:  cfg.AlertingConfig.WebhookURL,
		Environment: cfg.Environment,
		AppName:     "ghdash",
		LogsURL:     cfg.AlertingConfig.LogsURL,
	})

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	repositoriesRepo := db.NewPostgresRepositoriesRepository(dbConn, cfg.DatabaseSchema)
	runsRepo := db.NewPostgresWorkflowRunsRepository(dbConn, cfg.DatabaseSchema)
	jobsRepo := db.NewPostgresWorkflowJobsRepository(dbConn, cfg.DatabaseSchema)

	workflowsService := workflows.NewWorkflowsService(repositoriesRepo, runsRepo, jobsRepo)

	// In-process change notifications feed the dashboard stream
	broker := pubsub.NewBroker()

	webhookUseCase := webhook.NewWebhookUseCase(workflowsService, broker)
	githubHandler := handlers.NewGitHubWebhooksHandler(cfg.GitHubConfig.WebhookSecret, webhookUseCase)
	dashboardHandler := handlers.NewDashboardAPIHandler(workflowsService)
	streamer := socketio.NewDashboardStreamer(broker)

	// Create a new router
	router := mux.NewRouter()

	// Setup endpoints with the new router
	streamer.RegisterWithRouter(router)
	githubHandler.SetupEndpoints(router)
	dashboardHandler.SetupEndpoints(router)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	streamer.Start()
	defer streamer.Stop()

	// Periodic report of connected dashboard viewers
	statsTicker := time.NewTicker(1 * time.Minute)
	go func() {
		for range statsTicker.C {
			_ = alertMiddleware.WrapBackgroundTask("ReportDashboardStats", func() error {
				log.Printf("📊 Dashboard viewers connected: %d", streamer.ViewerCount())
				return nil
			})()
		}
	}()
	defer statsTicker.Stop()

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Hub-Signature-256", "X-GitHub-Event"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
