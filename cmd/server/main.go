/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the ED roster engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and load the YAML config
  2. Load the shift catalog (built-in or catalog_file)
  3. Initialize SQLite store
  4. Create the roster Generator and API handler
  5. Configure HTTP router and the draft scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file (default: roster.yaml, missing file = defaults)
  -port    HTTP server port, overrides config and ROSTER_PORT
  -db      SQLite database path, overrides config and ROSTER_DB
           Use ":memory:" for in-memory database
  -print-config  Print the default config and exit

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  ./server -db="./data/roster.db"
  ./server -db=":memory:" -port=3000
  ROSTER_PORT=9090 ./server -config=/etc/roster.yaml

SEE ALSO:
  - config/config.go: Configuration keys
  - api/server.go: Router configuration
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

	"github.com/warp/roster-engine/api"
	"github.com/warp/roster-engine/config"
	"github.com/warp/roster-engine/factory"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "roster.yaml", "YAML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	printConfig := flag.Bool("print-config", false, "Print the default config and exit")
	flag.Parse()

	if *printConfig {
		fmt.Print(config.DefaultYAML)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Shift catalog
	catalog := roster.DefaultCatalog()
	var coverage roster.Coverage
	if cfg.Generation.CatalogFile != "" {
		def, err := factory.NewCatalogFactory().LoadFile(cfg.Generation.CatalogFile)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
		catalog, coverage = def.Catalog, def.Coverage
		log.Printf("Loaded %d shift types from %s", len(catalog.Types()), cfg.Generation.CatalogFile)
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	generator := roster.NewGenerator(store, roster.NewBuilder(catalog), roster.GeneratorOptions{
		SuppressLeave: cfg.Generation.SuppressLeave(),
		Coverage:      coverage,
	})

	handler := api.NewHandler(store, generator, cfg.Generation.DefaultEnvironment)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	scheduler := api.NewDraftScheduler(store, generator)
	scheduler.Enabled = cfg.Scheduler.Enabled
	scheduler.CheckInterval = cfg.Scheduler.Interval
	scheduler.LookaheadMonths = cfg.Scheduler.LookaheadMonths
	scheduler.Start()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Server.Port)
		log.Printf("API available at http://localhost:%d/api", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
