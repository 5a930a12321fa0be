/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the finance calculator API server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load the config file (YAML or TOML), or defaults
  3. Apply flag overrides
  4. Build store, cache, rate limiter and retention scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Config file (.yaml, .yml or .toml)
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: finance.db)
           Use ":memory:" for an in-memory SQLite database
           Use "memory" for the plain in-memory store
  -redis   Redis address; enables the Redis result cache

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the retention scheduler
  4. Close database and cache connections
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/finance.db"

  # Run from a config file, overriding the port
  ./server -config=server.yaml -port=3000

  # Share a cache between instances
  ./server -redis=localhost:6379

ENVIRONMENT:
  The -config path may reference environment variables ($HOME/...).

SEE ALSO:
  - api/app.go: Wiring
  - api/server.go: Router configuration
  - config/config.go: Config file format
*/
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/finance-engine/api"
	"github.com/warp/finance-engine/config"
)

func main() {
	// Flags
	cfgPath := flag.String("config", "", "Config file (.yaml, .yml or .toml)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path, or \"memory\" (overrides config)")
	redisAddr := flag.String("redis", "", "Redis address for the result cache (overrides config)")
	flag.Parse()

	cfg, err := config.LoadWithOverrides(*cfgPath, config.Overrides{
		Port:  *port,
		DB:    *dbPath,
		Redis: *redisAddr,
	})
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app, err := api.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	errs := app.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errs:
		if err != nil {
			app.Close()
			log.Fatalf("Server failed: %v", err)
		}
	}

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
