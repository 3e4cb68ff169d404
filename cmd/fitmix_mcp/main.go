// Package main runs the fitmix MCP server over stdio (for local MCP clients).
// The same tools are mounted on the main backend at /mcp over HTTP, bound to
// the signed in user; over stdio every tool call names the user.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/fitmix/backend/internal/config"
	"github.com/fitmix/backend/internal/db"
	fitmixmcp "github.com/fitmix/backend/internal/mcp"
	"github.com/fitmix/backend/internal/progress"
	"github.com/fitmix/backend/internal/telemetry/metrics"
	"github.com/fitmix/backend/internal/workouts"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout belongs to the MCP protocol
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     os.Getenv("FITMIX_POSTGRES_PASS"),
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	workoutsRepo := workouts.NewRepo(dbPool)
	progressService := progress.NewService(workoutsRepo, metrics.NewManager("fitmix", "mcp", prometheus.NewRegistry()))
	server := fitmixmcp.NewServer(fitmixmcp.NewContextService(progressService, workoutsRepo), "")

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
