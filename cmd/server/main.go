package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"fleet-transition-service/internal/adapters/csvdata"
	"fleet-transition-service/internal/adapters/memory"
	"fleet-transition-service/internal/adapters/repositories"
	"fleet-transition-service/internal/api"
	"fleet-transition-service/internal/config"
	"fleet-transition-service/internal/platform/db"
	"fleet-transition-service/internal/platform/obs"
	"fleet-transition-service/internal/ports"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (CSV files, SQL) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	env := config.LoadEnv()
	logger, err := obs.NewLogger(env.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	obs.SetLogger(logger)

	if envErr != nil {
		logger.Info("no .env file found (using environment variables)")
	}

	if err := run(env, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(env config.Env, logger *zap.Logger) error {
	ctx := context.Background()

	defaults, err := config.LoadScenario(env.ScenarioPath)
	if err != nil {
		return err
	}

	var conn *sql.DB
	if env.DBDriver != "" {
		conn, err = db.Open(ctx, env.DBDriver, env.DSN())
		if err != nil {
			return err
		}
		defer conn.Close()

		// SQLite files are created on demand for local runs.
		if env.DBDriver == db.DriverSQLite {
			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}
		}
	}

	var source ports.ReferenceSource
	switch env.ReferenceSource {
	case "csv":
		source = csvdata.NewSource(env.DataDir, csvdata.DefaultFiles())
	case "db":
		if conn == nil {
			return fmt.Errorf("server: REFERENCE_SOURCE=db requires DB_DRIVER")
		}
		source = repositories.NewSQLReferenceRepository(conn)
	default:
		return fmt.Errorf("server: unknown REFERENCE_SOURCE %q", env.ReferenceSource)
	}

	var store ports.RunStore = memory.NewRunStore()
	var ping func(context.Context) error
	if conn != nil {
		store = repositories.NewSQLRunRepository(conn, env.DBDriver)
		ping = conn.PingContext
	}

	router := api.NewRouter(api.Deps{
		Source:   source,
		Store:    store,
		Defaults: defaults,
		Ping:     ping,
		Logger:   logger,
	})

	// Large fleets take a while to solve, so the write timeout is generous.
	logger.Info("server listening",
		zap.String("addr", ":"+env.Port),
		zap.String("reference_source", env.ReferenceSource),
		zap.String("db_driver", env.DBDriver),
	)
	srv := &http.Server{
		Addr:              ":" + env.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}
