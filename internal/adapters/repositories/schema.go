package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the reference and run tables. The DDL is portable
// between SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createShipsQuery := `
	CREATE TABLE IF NOT EXISTS ships (
		class TEXT PRIMARY KEY,
		voyages DOUBLE PRECISION NOT NULL,
		power_kw DOUBLE PRECISION NOT NULL,
		energy_per_km_mj DOUBLE PRECISION NOT NULL,
		voyage_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		voyage_energy_mj DOUBLE PRECISION NOT NULL DEFAULT 0,
		eca_energy_mj DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`

	createFuelQuotesQuery := `
	CREATE TABLE IF NOT EXISTS fuel_quotes (
		year INTEGER NOT NULL,
		fuel TEXT NOT NULL,
		energy_mj_per_kg DOUBLE PRECISION NOT NULL,
		price_usd_per_kg DOUBLE PRECISION NOT NULL,
		co2_g_per_mj DOUBLE PRECISION NOT NULL,
		maintenance_usd_per_kw DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (year, fuel)
	);
	`

	createCO2PricesQuery := `
	CREATE TABLE IF NOT EXISTS co2_prices (
		year INTEGER PRIMARY KEY,
		usd_per_tonne DOUBLE PRECISION NOT NULL
	);
	`

	createRetrofitsQuery := `
	CREATE TABLE IF NOT EXISTS retrofit_options (
		class TEXT NOT NULL,
		year INTEGER NOT NULL,
		capex_usd DOUBLE PRECISION NOT NULL,
		saving_pct DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (class, year)
	);
	`

	createNewbuildsQuery := `
	CREATE TABLE IF NOT EXISTS newbuild_options (
		class TEXT NOT NULL,
		fuel TEXT NOT NULL,
		year INTEGER NOT NULL,
		capex_usd DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (class, fuel, year)
	);
	`

	createNewbuildSpecsQuery := `
	CREATE TABLE IF NOT EXISTS newbuild_specs (
		class TEXT PRIMARY KEY,
		energy_per_km_mj DOUBLE PRECISION NOT NULL,
		power_kw DOUBLE PRECISION NOT NULL
	);
	`

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS optimization_runs (
		run_id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		scenario TEXT NOT NULL,
		optimized_npv DOUBLE PRECISION NOT NULL,
		baseline_npv DOUBLE PRECISION NOT NULL,
		savings_usd DOUBLE PRECISION NOT NULL,
		savings_pct DOUBLE PRECISION NOT NULL,
		optimized_tonnes DOUBLE PRECISION,
		baseline_tonnes DOUBLE PRECISION,
		solver_status TEXT NOT NULL
	);
	`

	createRunDecisionsQuery := `
	CREATE TABLE IF NOT EXISTS run_decisions (
		run_id TEXT NOT NULL REFERENCES optimization_runs(run_id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		ship TEXT NOT NULL,
		retrofit_year INTEGER,
		newbuild_year INTEGER,
		newbuild_fuel TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, seq)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_optimization_runs_created_at
	ON optimization_runs(created_at);
	`

	statements := []string{
		createShipsQuery,
		createFuelQuotesQuery,
		createCO2PricesQuery,
		createRetrofitsQuery,
		createNewbuildsQuery,
		createNewbuildSpecsQuery,
		createRunsQuery,
		createRunDecisionsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
