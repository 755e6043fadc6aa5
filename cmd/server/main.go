/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the compliance engine server: SQLite store,
  validation service with its anomaly scorer, chi router, graceful
  shutdown.

COMMAND-LINE FLAGS:
  -port            HTTP server port (default: 8080)
  -db              SQLite database path (default: compliance.db)
                   Use ":memory:" for an in-memory database
  -seed            Load the demo dataset on startup
  -scorer-url      Remote anomaly-scoring service URL. Empty uses the
                   local heuristic scorer.
  -scorer-timeout  Bound on remote scoring calls (default: 5s)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with the local heuristic scorer
  ./server -db="./data/compliance.db" -seed

  # Run against a remote scoring service
  ./server -scorer-url="http://scorer.internal/score" -scorer-timeout=2s

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/compliance-engine/api"
	"github.com/warp/compliance-engine/scoring"
	"github.com/warp/compliance-engine/store/sqlite"
	"github.com/warp/compliance-engine/timesheet"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "compliance.db", "SQLite database path")
	seed := flag.Bool("seed", false, "load demo data on startup")
	scorerURL := flag.String("scorer-url", "", "remote anomaly scorer URL (empty = local heuristic)")
	scorerTimeout := flag.Duration("scorer-timeout", 5*time.Second, "remote scorer timeout")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	if *seed {
		if err := store.Seed(context.Background()); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
		log.Println("Demo data loaded")
	}

	// Pick the anomaly scorer
	var scorer timesheet.Scorer = scoring.NewHeuristic()
	if *scorerURL != "" {
		scorer = scoring.NewRemote(*scorerURL, *scorerTimeout)
		log.Printf("Using remote anomaly scorer at %s", *scorerURL)
	}

	validator := timesheet.NewService(scorer, store)
	handler := api.NewHandler(store, validator)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
