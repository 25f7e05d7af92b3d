package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleet-transition-service/internal/domain"
	"fleet-transition-service/internal/platform/obs"
)

// SQL-backed implementation of the ReferenceSource port.
type SQLReferenceRepository struct {
	DB *sql.DB
}

func NewSQLReferenceRepository(db *sql.DB) *SQLReferenceRepository {
	return &SQLReferenceRepository{DB: db}
}

// Return all reference tables. Ships carry their stored route aggregate.
func (s *SQLReferenceRepository) LoadReferenceData(ctx context.Context) (_ *domain.ReferenceData, err error) {
	defer obs.Time(ctx, "reference.sql.Load")(&err)

	if s.DB == nil {
		return nil, errors.New("sql reference repository: DB is nil")
	}

	ref := &domain.ReferenceData{CO2Prices: make(map[int]float64)}

	err = s.query(ctx, `
	SELECT class, voyages, power_kw, energy_per_km_mj, voyage_distance_km, voyage_energy_mj, eca_energy_mj
	FROM ships
	ORDER BY class;
	`, func(rows *sql.Rows) error {
		var sh domain.Ship
		if err := rows.Scan(
			&sh.Class, &sh.Voyages, &sh.PowerKW, &sh.EnergyPerKmMJ, &sh.VoyageDistanceKm,
			&sh.Route.VoyageEnergyMJ, &sh.Route.ECAEnergyMJ,
		); err != nil {
			return err
		}
		ref.Ships = append(ref.Ships, sh)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load reference data: ships: %w", err)
	}

	err = s.query(ctx, `
	SELECT year, fuel, energy_mj_per_kg, price_usd_per_kg, co2_g_per_mj, maintenance_usd_per_kw
	FROM fuel_quotes
	ORDER BY year, fuel;
	`, func(rows *sql.Rows) error {
		var q domain.FuelQuote
		var fuel string
		if err := rows.Scan(
			&q.Year, &fuel, &q.EnergyMJPerKg, &q.PriceUSDPerKg, &q.CO2GramsPerMJ, &q.MaintenanceUSDPerKW,
		); err != nil {
			return err
		}
		q.Fuel = domain.FuelKind(fuel)
		ref.Fuels = append(ref.Fuels, q)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load reference data: fuel quotes: %w", err)
	}

	err = s.query(ctx, `
	SELECT year, usd_per_tonne
	FROM co2_prices
	ORDER BY year;
	`, func(rows *sql.Rows) error {
		var year int
		var price float64
		if err := rows.Scan(&year, &price); err != nil {
			return err
		}
		ref.CO2Prices[year] = price
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load reference data: co2 prices: %w", err)
	}

	err = s.query(ctx, `
	SELECT class, year, capex_usd, saving_pct
	FROM retrofit_options
	ORDER BY class, year;
	`, func(rows *sql.Rows) error {
		var o domain.RetrofitOption
		if err := rows.Scan(&o.Class, &o.Year, &o.CapexUSD, &o.SavingPct); err != nil {
			return err
		}
		ref.Retrofits = append(ref.Retrofits, o)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load reference data: retrofit options: %w", err)
	}

	err = s.query(ctx, `
	SELECT class, fuel, year, capex_usd
	FROM newbuild_options
	ORDER BY class, fuel, year;
	`, func(rows *sql.Rows) error {
		var o domain.NewbuildOption
		var fuel string
		if err := rows.Scan(&o.Class, &fuel, &o.Year, &o.CapexUSD); err != nil {
			return err
		}
		o.Fuel = domain.FuelKind(fuel)
		ref.Newbuilds = append(ref.Newbuilds, o)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load reference data: newbuild options: %w", err)
	}

	err = s.query(ctx, `
	SELECT class, energy_per_km_mj, power_kw
	FROM newbuild_specs
	ORDER BY class;
	`, func(rows *sql.Rows) error {
		var sp domain.NewbuildSpec
		if err := rows.Scan(&sp.Class, &sp.EnergyPerKmMJ, &sp.PowerKW); err != nil {
			return err
		}
		ref.NewbuildSpecs = append(ref.NewbuildSpecs, sp)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load reference data: newbuild specs: %w", err)
	}

	return ref, nil
}

func (s *SQLReferenceRepository) query(ctx context.Context, q string, scan func(*sql.Rows) error) error {
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration: %w", err)
	}
	return nil
}
