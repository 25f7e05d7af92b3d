package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"fleet-transition-service/internal/domain"
	"fleet-transition-service/internal/platform/db"
)

// ImportReferenceData replaces the stored reference tables with ref in a
// single transaction. Names are normalized before they are written.
func ImportReferenceData(ctx context.Context, conn *sql.DB, driver string, ref *domain.ReferenceData) error {
	if conn == nil {
		return errors.New("import reference data: DB is nil")
	}
	if ref == nil {
		return fmt.Errorf("import reference data: %w: reference data is nil", domain.ErrInvalidInput)
	}
	if err := ref.Validate(); err != nil {
		return fmt.Errorf("import reference data: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("import reference data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{
		"ships", "fuel_quotes", "co2_prices", "retrofit_options", "newbuild_options", "newbuild_specs",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("import reference data: clear %s: %w", table, err)
		}
	}

	insert := func(query string, rows int, args func(i int) []any) error {
		if rows == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, db.Rebind(driver, query))
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		defer stmt.Close()
		for i := 0; i < rows; i++ {
			if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
				return fmt.Errorf("row #%d: %w", i+1, err)
			}
		}
		return nil
	}

	err = insert(`
	INSERT INTO ships (
		class, voyages, power_kw, energy_per_km_mj, voyage_distance_km, voyage_energy_mj, eca_energy_mj
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`, len(ref.Ships), func(i int) []any {
		s := ref.Ships[i]
		return []any{
			domain.NormalizeName(s.Class), s.Voyages, s.PowerKW, s.EnergyPerKmMJ, s.VoyageDistanceKm,
			s.Route.VoyageEnergyMJ, s.Route.ECAEnergyMJ,
		}
	})
	if err != nil {
		return fmt.Errorf("import reference data: ships: %w", err)
	}

	err = insert(`
	INSERT INTO fuel_quotes (
		year, fuel, energy_mj_per_kg, price_usd_per_kg, co2_g_per_mj, maintenance_usd_per_kw
	)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (year, fuel) DO UPDATE
	SET energy_mj_per_kg = EXCLUDED.energy_mj_per_kg,
		price_usd_per_kg = EXCLUDED.price_usd_per_kg,
		co2_g_per_mj = EXCLUDED.co2_g_per_mj,
		maintenance_usd_per_kw = EXCLUDED.maintenance_usd_per_kw;
	`, len(ref.Fuels), func(i int) []any {
		q := ref.Fuels[i]
		return []any{
			q.Year, string(domain.NormalizeFuel(string(q.Fuel))), q.EnergyMJPerKg, q.PriceUSDPerKg,
			q.CO2GramsPerMJ, q.MaintenanceUSDPerKW,
		}
	})
	if err != nil {
		return fmt.Errorf("import reference data: fuel quotes: %w", err)
	}

	co2Years := make([]int, 0, len(ref.CO2Prices))
	for y := range ref.CO2Prices {
		co2Years = append(co2Years, y)
	}
	sort.Ints(co2Years)
	err = insert(`
	INSERT INTO co2_prices (year, usd_per_tonne)
	VALUES (?, ?);
	`, len(co2Years), func(i int) []any {
		return []any{co2Years[i], ref.CO2Prices[co2Years[i]]}
	})
	if err != nil {
		return fmt.Errorf("import reference data: co2 prices: %w", err)
	}

	err = insert(`
	INSERT INTO retrofit_options (class, year, capex_usd, saving_pct)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (class, year) DO UPDATE
	SET capex_usd = EXCLUDED.capex_usd,
		saving_pct = EXCLUDED.saving_pct;
	`, len(ref.Retrofits), func(i int) []any {
		o := ref.Retrofits[i]
		return []any{domain.NormalizeName(o.Class), o.Year, o.CapexUSD, o.SavingPct}
	})
	if err != nil {
		return fmt.Errorf("import reference data: retrofit options: %w", err)
	}

	err = insert(`
	INSERT INTO newbuild_options (class, fuel, year, capex_usd)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (class, fuel, year) DO UPDATE
	SET capex_usd = EXCLUDED.capex_usd;
	`, len(ref.Newbuilds), func(i int) []any {
		o := ref.Newbuilds[i]
		return []any{domain.NormalizeName(o.Class), string(domain.NormalizeFuel(string(o.Fuel))), o.Year, o.CapexUSD}
	})
	if err != nil {
		return fmt.Errorf("import reference data: newbuild options: %w", err)
	}

	err = insert(`
	INSERT INTO newbuild_specs (class, energy_per_km_mj, power_kw)
	VALUES (?, ?, ?)
	ON CONFLICT (class) DO UPDATE
	SET energy_per_km_mj = EXCLUDED.energy_per_km_mj,
		power_kw = EXCLUDED.power_kw;
	`, len(ref.NewbuildSpecs), func(i int) []any {
		s := ref.NewbuildSpecs[i]
		return []any{domain.NormalizeName(s.Class), s.EnergyPerKmMJ, s.PowerKW}
	})
	if err != nil {
		return fmt.Errorf("import reference data: newbuild specs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("import reference data: commit tx: %w", err)
	}

	return nil
}
