package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/agents"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/config"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/hub"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/policy"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/repository"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/service"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/state"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/tools"
	transport "github.com/ishann-vaidya/AG-UI-research-spike/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting orchestrator...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)

	// Initialize persistence
	repo, err := repository.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer repo.Close()

	// Shared state store
	states := state.NewStore(repo)

	// Policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Tool registry and dispatcher
	registry := tools.NewRegistry()
	registry.MustRegister(tools.NewMeetingTimePicker())
	registry.MustRegister(tools.NewUpdateTodoList(states))
	registry.MustRegister(tools.NewBarChart())
	registry.MustRegister(tools.NewPieChart())
	dispatcher := tools.NewDispatcher(registry, policyEngine)

	// Service
	svc := service.New(cfg, agents.Default(), dispatcher, states)

	// State watch hub
	stateHub := hub.New(states)

	// HTTP server
	server := transport.NewServer(svc, stateHub)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down orchestrator...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Orchestrator stopped")
}
