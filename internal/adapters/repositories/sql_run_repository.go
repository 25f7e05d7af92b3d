package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleet-transition-service/internal/domain"
	"fleet-transition-service/internal/platform/db"
	"fleet-transition-service/internal/platform/obs"
	"fleet-transition-service/internal/ports"
)

// SQL-backed implementation of the RunStore port.
type SQLRunRepository struct {
	DB     *sql.DB
	Driver string
}

func NewSQLRunRepository(conn *sql.DB, driver string) *SQLRunRepository {
	return &SQLRunRepository{DB: conn, Driver: driver}
}

type scenarioRecord struct {
	BaseYear     int      `json:"base_year"`
	FirstYear    int      `json:"first_year"`
	LastYear     int      `json:"last_year"`
	DecisionStep int      `json:"decision_step"`
	DiscountRate float64  `json:"discount_rate"`
	Primary      string   `json:"primary"`
	Secondary    string   `json:"secondary"`
	Alternatives []string `json:"alternatives"`
}

func toScenarioRecord(s domain.Scenario) scenarioRecord {
	rec := scenarioRecord{
		BaseYear:     s.Horizon.BaseYear,
		FirstYear:    s.Horizon.FirstYear,
		LastYear:     s.Horizon.LastYear,
		DecisionStep: s.Horizon.DecisionStep,
		DiscountRate: s.DiscountRate,
		Primary:      string(s.Primary),
		Secondary:    string(s.Secondary),
		Alternatives: make([]string, 0, len(s.Alternatives)),
	}
	for _, f := range s.Alternatives {
		rec.Alternatives = append(rec.Alternatives, string(f))
	}
	return rec
}

func (r scenarioRecord) scenario() domain.Scenario {
	s := domain.Scenario{
		Horizon: domain.Horizon{
			BaseYear:     r.BaseYear,
			FirstYear:    r.FirstYear,
			LastYear:     r.LastYear,
			DecisionStep: r.DecisionStep,
		},
		DiscountRate: r.DiscountRate,
		Primary:      domain.FuelKind(r.Primary),
		Secondary:    domain.FuelKind(r.Secondary),
		Alternatives: make([]domain.FuelKind, 0, len(r.Alternatives)),
	}
	for _, f := range r.Alternatives {
		s.Alternatives = append(s.Alternatives, domain.FuelKind(f))
	}
	return s
}

// Store a finished run and its per-ship decisions.
func (s *SQLRunRepository) SaveRun(ctx context.Context, report *domain.FleetReport) (err error) {
	defer obs.Time(ctx, "runs.sql.Save")(&err)

	if s.DB == nil {
		return errors.New("sql run repository: DB is nil")
	}
	if report == nil || report.RunID == "" {
		return fmt.Errorf("save run: %w: run id is required", domain.ErrInvalidInput)
	}

	scenario, err := json.Marshal(toScenarioRecord(report.Scenario))
	if err != nil {
		return fmt.Errorf("save run: encode scenario: %w", err)
	}

	var optimizedTonnes, baselineTonnes sql.NullFloat64
	if report.Emissions != nil {
		optimizedTonnes = sql.NullFloat64{Float64: report.Emissions.OptimizedTonnes, Valid: true}
		baselineTonnes = sql.NullFloat64{Float64: report.Emissions.BaselineTonnes, Valid: true}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, db.Rebind(s.Driver, `
	INSERT INTO optimization_runs (
		run_id, created_at, scenario, optimized_npv, baseline_npv,
		savings_usd, savings_pct, optimized_tonnes, baseline_tonnes, solver_status
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`),
		report.RunID,
		report.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(scenario),
		report.Costs.OptimizedNPV,
		report.Costs.BaselineNPV,
		report.Savings.AbsoluteUSD,
		report.Savings.Percent,
		optimizedTonnes,
		baselineTonnes,
		report.SolverStatus,
	)
	if err != nil {
		return fmt.Errorf("save run %s: insert run: %w", report.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, db.Rebind(s.Driver, `
	INSERT INTO run_decisions (run_id, seq, ship, retrofit_year, newbuild_year, newbuild_fuel)
	VALUES (?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save run %s: prepare decisions: %w", report.RunID, err)
	}
	defer stmt.Close()

	for i, d := range report.Decisions {
		if _, err := stmt.ExecContext(ctx,
			report.RunID, i, d.Ship, nullYear(d.RetrofitYear), nullYear(d.NewbuildYear), string(d.NewbuildFuel),
		); err != nil {
			return fmt.Errorf("save run %s: insert decision ship=%q: %w", report.RunID, d.Ship, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run %s: commit tx: %w", report.RunID, err)
	}
	return nil
}

// Return a stored run or ports.ErrRunNotFound.
func (s *SQLRunRepository) GetRun(ctx context.Context, runID string) (_ *domain.FleetReport, err error) {
	defer obs.Time(ctx, "runs.sql.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("sql run repository: DB is nil")
	}

	var (
		report          domain.FleetReport
		createdAt       string
		scenario        string
		optimizedTonnes sql.NullFloat64
		baselineTonnes  sql.NullFloat64
	)
	err = s.DB.QueryRowContext(ctx, db.Rebind(s.Driver, `
	SELECT run_id, created_at, scenario, optimized_npv, baseline_npv,
		savings_usd, savings_pct, optimized_tonnes, baseline_tonnes, solver_status
	FROM optimization_runs
	WHERE run_id = ?;
	`), runID).Scan(
		&report.RunID, &createdAt, &scenario,
		&report.Costs.OptimizedNPV, &report.Costs.BaselineNPV,
		&report.Savings.AbsoluteUSD, &report.Savings.Percent,
		&optimizedTonnes, &baselineTonnes, &report.SolverStatus,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %q: %w", runID, ports.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %q: query run: %w", runID, err)
	}

	if report.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("get run %q: parse created_at: %w", runID, err)
	}
	var rec scenarioRecord
	if err := json.Unmarshal([]byte(scenario), &rec); err != nil {
		return nil, fmt.Errorf("get run %q: decode scenario: %w", runID, err)
	}
	report.Scenario = rec.scenario()
	if optimizedTonnes.Valid && baselineTonnes.Valid {
		report.Emissions = &domain.EmissionsComparison{
			OptimizedTonnes: optimizedTonnes.Float64,
			BaselineTonnes:  baselineTonnes.Float64,
		}
	}

	rows, err := s.DB.QueryContext(ctx, db.Rebind(s.Driver, `
	SELECT ship, retrofit_year, newbuild_year, newbuild_fuel
	FROM run_decisions
	WHERE run_id = ?
	ORDER BY seq;
	`), runID)
	if err != nil {
		return nil, fmt.Errorf("get run %q: query decisions: %w", runID, err)
	}
	defer rows.Close()

	report.Decisions = make([]domain.ShipDecision, 0, 16)
	for rows.Next() {
		var d domain.ShipDecision
		var retrofit, newbuild sql.NullInt64
		var fuel string
		if err := rows.Scan(&d.Ship, &retrofit, &newbuild, &fuel); err != nil {
			return nil, fmt.Errorf("get run %q: scan decision: %w", runID, err)
		}
		d.RetrofitYear = yearPtr(retrofit)
		d.NewbuildYear = yearPtr(newbuild)
		d.NewbuildFuel = domain.FuelKind(fuel)
		report.Decisions = append(report.Decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run %q: row iteration: %w", runID, err)
	}

	return &report, nil
}

func nullYear(y *int) sql.NullInt64 {
	if y == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*y), Valid: true}
}

func yearPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	y := int(v.Int64)
	return &y
}
