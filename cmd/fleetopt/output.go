package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"fleet-transition-service/internal/api/dto"
	"fleet-transition-service/internal/domain"
)

func writeJSONReport(w io.Writer, report *domain.FleetReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dto.NewOptimizationResponse(report)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeTextReport(w io.Writer, report *domain.FleetReport) error {
	h := report.Scenario.Horizon
	fmt.Fprintf(w, "run %s (%s)\n", report.RunID, report.SolverStatus)
	fmt.Fprintf(w, "horizon %d-%d, decisions every %d years, discount rate %.2f%%\n\n",
		h.FirstYear, h.LastYear, h.DecisionStep, report.Scenario.DiscountRate*100)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SHIP\tRETROFIT\tNEWBUILD\tFUEL")
	for _, d := range report.Decisions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Ship, yearOrDash(d.RetrofitYear), yearOrDash(d.NewbuildYear), fuelOrDash(d.NewbuildFuel))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "baseline NPV (USD)\t%s\t\n", dto.Cents(report.Costs.BaselineNPV).StringFixed(2))
	fmt.Fprintf(tw, "optimized NPV (USD)\t%s\t\n", dto.Cents(report.Costs.OptimizedNPV).StringFixed(2))
	fmt.Fprintf(tw, "savings (USD)\t%s\t\n", dto.Cents(report.Savings.AbsoluteUSD).StringFixed(2))
	fmt.Fprintf(tw, "savings (%%)\t%s\t\n", dto.Cents(report.Savings.Percent).StringFixed(2))
	if e := report.Emissions; e != nil {
		fmt.Fprintf(tw, "baseline CO2 (t)\t%.1f\t\n", e.BaselineTonnes)
		fmt.Fprintf(tw, "optimized CO2 (t)\t%.1f\t\n", e.OptimizedTonnes)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func yearOrDash(y *int) string {
	if y == nil {
		return "-"
	}
	return fmt.Sprint(*y)
}

func fuelOrDash(f domain.FuelKind) string {
	if f == "" {
		return "-"
	}
	return string(f)
}
