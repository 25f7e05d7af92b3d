package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fleet-transition-service/internal/adapters/csvdata"
	"fleet-transition-service/internal/adapters/repositories"
	"fleet-transition-service/internal/config"
	"fleet-transition-service/internal/platform/db"
	"fleet-transition-service/internal/platform/obs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// dbtool creates the schema and imports the reference tables of a CSV data
// directory into the configured database.
func main() {
	envErr := godotenv.Load()
	env := config.LoadEnv()

	dataDir := flag.String("data", env.DataDir, "directory holding the reference CSV tables")
	schemaOnly := flag.Bool("schema-only", false, "create the schema without importing data")
	flag.Parse()

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

	if env.DBDriver == "" {
		logger.Fatal("DB_DRIVER is required (sqlite or pgx)")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, env.DBDriver, env.DSN())
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	logger.Info("initializing database schema", zap.String("driver", env.DBDriver))
	if err := repositories.InitSchema(ctx, conn); err != nil {
		logger.Fatal("schema initialization failed", zap.Error(err))
	}
	if *schemaOnly {
		return
	}

	logger.Info("importing reference data", zap.String("dir", *dataDir))
	ref, err := csvdata.NewSource(*dataDir, csvdata.DefaultFiles()).LoadReferenceData(ctx)
	if err != nil {
		logger.Fatal("read reference data failed", zap.Error(err))
	}
	if err := repositories.ImportReferenceData(ctx, conn, env.DBDriver, ref); err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
	logger.Info("import complete",
		zap.Int("ships", len(ref.Ships)),
		zap.Int("fuel_quotes", len(ref.Fuels)),
		zap.Int("retrofits", len(ref.Retrofits)),
		zap.Int("newbuilds", len(ref.Newbuilds)),
	)
}
