// Command fleetopt runs one fleet transition optimization over a directory of
// reference tables and prints the resulting plan.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"fleet-transition-service/internal/adapters/csvdata"
	"fleet-transition-service/internal/config"
	"fleet-transition-service/internal/domain"
	"fleet-transition-service/internal/milp"
	"fleet-transition-service/internal/platform/obs"
	"fleet-transition-service/internal/services"

	"github.com/joho/godotenv"
)

// Exit codes.
const (
	exitOK        = 0
	exitInput     = 1
	exitReference = 2
	exitSolver    = 3
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	env := config.LoadEnv()

	fs := flag.NewFlagSet("fleetopt", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dataDir := fs.String("data", env.DataDir, "directory holding the reference tables")
	scenarioPath := fs.String("scenario", env.ScenarioPath, "YAML scenario file (defaults when empty)")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	emissions := fs.Bool("emissions", false, "include CO2 emissions in the report")
	referencePrices := fs.Bool("reference-prices", false, "price curves without anchor flags from the reference tables")
	maxNodes := fs.Int("max-nodes", 0, "branch-and-bound node limit (0 keeps the scenario value)")
	logLevel := fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	co2 := anchorFlag{}
	primary := anchorFlag{}
	secondary := anchorFlag{}
	fs.Var(co2, "co2", "CO2 price anchors in USD/t, e.g. 2025:100,2035:150")
	fs.Var(primary, "primary", "primary fuel price anchors in USD/kg")
	fs.Var(secondary, "secondary", "secondary fuel price anchors in USD/kg")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitInput
	}

	logger, err := obs.NewLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInput
	}
	defer func() { _ = logger.Sync() }()
	ctx = obs.WithLogger(ctx, logger)

	defaults, err := config.LoadScenario(*scenarioPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInput
	}

	override := config.PricesConfig{CO2: co2, Primary: primary, Secondary: secondary}
	if *referencePrices {
		override.Source = config.PriceSourceReference
	}
	prices, err := defaults.Prices.Resolve(override)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInput
	}

	req := services.OptimizeFleetRequest{
		Scenario:         defaults.Scenario(),
		CO2:              prices.CO2,
		Primary:          prices.Primary,
		Secondary:        prices.Secondary,
		IncludeEmissions: *emissions || defaults.IncludeEmissions,
		Solver:           milp.Options{MaxNodes: defaults.Solver.MaxNodes},
	}
	if *maxNodes > 0 {
		req.Solver.MaxNodes = *maxNodes
	}

	source := csvdata.NewSource(*dataDir, csvdata.DefaultFiles())
	report, err := services.OptimizeFleet(ctx, req, source, nil)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}

	if *asJSON {
		err = writeJSONReport(stdout, report)
	} else {
		err = writeTextReport(stdout, report)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInput
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrMissingPrice):
		return exitInput
	case errors.Is(err, domain.ErrMissingReference), errors.Is(err, domain.ErrInvalidReference):
		return exitReference
	default:
		return exitSolver
	}
}
