package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"fleet-transition-service/internal/domain"

	"gopkg.in/yaml.v3"
)

type HorizonConfig struct {
	BaseYear     int `yaml:"base_year"`
	FirstYear    int `yaml:"first_year"`
	LastYear     int `yaml:"last_year"`
	DecisionStep int `yaml:"decision_step"`
}

type FuelsConfig struct {
	Primary      string   `yaml:"primary"`
	Secondary    string   `yaml:"secondary"`
	Alternatives []string `yaml:"alternatives"`
}

// Price sources. With "reference" curves without explicit anchors are priced
// from the reference tables (CO2 price table, quoted fuel prices).
const (
	PriceSourceScenario  = "scenario"
	PriceSourceReference = "reference"
)

// Year -> price anchors; each horizon year takes the latest anchor at or before it.
type PricesConfig struct {
	Source    string          `yaml:"source"`
	CO2       map[int]float64 `yaml:"co2"`
	Primary   map[int]float64 `yaml:"primary"`
	Secondary map[int]float64 `yaml:"secondary"`
}

type SolverConfig struct {
	MaxNodes int `yaml:"max_nodes"`
}

// Scenario file layout. Zero values are replaced by defaults.
type ScenarioConfig struct {
	Horizon          HorizonConfig `yaml:"horizon"`
	DiscountRate     *float64      `yaml:"discount_rate"`
	Fuels            FuelsConfig   `yaml:"fuels"`
	Prices           PricesConfig  `yaml:"prices"`
	IncludeEmissions bool          `yaml:"include_emissions"`
	Solver           SolverConfig  `yaml:"solver"`
}

const defaultMaxNodes = 200000

// DefaultScenarioConfig matches the interactive defaults: CO2 at 100 USD/t,
// diesel and HFO at 1 USD/kg for the whole horizon.
func DefaultScenarioConfig() ScenarioConfig {
	s := domain.DefaultScenario()
	rate := s.DiscountRate
	alts := make([]string, 0, len(s.Alternatives))
	for _, f := range s.Alternatives {
		alts = append(alts, string(f))
	}
	return ScenarioConfig{
		Horizon: HorizonConfig{
			BaseYear:     s.Horizon.BaseYear,
			FirstYear:    s.Horizon.FirstYear,
			LastYear:     s.Horizon.LastYear,
			DecisionStep: s.Horizon.DecisionStep,
		},
		DiscountRate: &rate,
		Fuels: FuelsConfig{
			Primary:      string(s.Primary),
			Secondary:    string(s.Secondary),
			Alternatives: alts,
		},
		Prices: PricesConfig{
			Source:    PriceSourceScenario,
			CO2:       map[int]float64{s.Horizon.FirstYear: 100},
			Primary:   map[int]float64{s.Horizon.FirstYear: 1},
			Secondary: map[int]float64{s.Horizon.FirstYear: 1},
		},
		Solver: SolverConfig{MaxNodes: defaultMaxNodes},
	}
}

// LoadScenario reads a YAML scenario file on top of the defaults. An empty
// path or a missing file yields the defaults.
func LoadScenario(path string) (ScenarioConfig, error) {
	cfg := DefaultScenarioConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return ScenarioConfig{}, fmt.Errorf("load scenario: read %q: %w", path, err)
	}

	var file ScenarioConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return ScenarioConfig{}, fmt.Errorf("load scenario: parse %q: %w", path, err)
	}
	cfg.merge(file)

	if cfg.Prices.Source, err = ParsePriceSource(cfg.Prices.Source); err != nil {
		return ScenarioConfig{}, fmt.Errorf("load scenario: %q: %w", path, err)
	}
	if err := cfg.Scenario().Validate(); err != nil {
		return ScenarioConfig{}, fmt.Errorf("load scenario: %q: %w", path, err)
	}
	return cfg, nil
}

func (c *ScenarioConfig) merge(o ScenarioConfig) {
	if o.Horizon.FirstYear != 0 {
		c.Horizon.FirstYear = o.Horizon.FirstYear
		// the base year follows the first year unless set explicitly
		c.Horizon.BaseYear = o.Horizon.FirstYear
	}
	if o.Horizon.BaseYear != 0 {
		c.Horizon.BaseYear = o.Horizon.BaseYear
	}
	if o.Horizon.LastYear != 0 {
		c.Horizon.LastYear = o.Horizon.LastYear
	}
	if o.Horizon.DecisionStep != 0 {
		c.Horizon.DecisionStep = o.Horizon.DecisionStep
	}
	if o.DiscountRate != nil {
		rate := *o.DiscountRate
		c.DiscountRate = &rate
	}
	if o.Fuels.Primary != "" {
		c.Fuels.Primary = o.Fuels.Primary
	}
	if o.Fuels.Secondary != "" {
		c.Fuels.Secondary = o.Fuels.Secondary
	}
	if o.Fuels.Alternatives != nil {
		c.Fuels.Alternatives = o.Fuels.Alternatives
	}
	if o.Prices.Source != "" {
		c.Prices.Source = o.Prices.Source
	}
	if len(o.Prices.CO2) > 0 {
		c.Prices.CO2 = o.Prices.CO2
	}
	if len(o.Prices.Primary) > 0 {
		c.Prices.Primary = o.Prices.Primary
	}
	if len(o.Prices.Secondary) > 0 {
		c.Prices.Secondary = o.Prices.Secondary
	}
	c.IncludeEmissions = c.IncludeEmissions || o.IncludeEmissions
	if o.Solver.MaxNodes != 0 {
		c.Solver.MaxNodes = o.Solver.MaxNodes
	}
}

// Scenario converts the file layout to the domain scenario.
func (c ScenarioConfig) Scenario() domain.Scenario {
	rate := domain.DefaultDiscountRate
	if c.DiscountRate != nil {
		rate = *c.DiscountRate
	}
	s := domain.Scenario{
		Horizon: domain.Horizon{
			BaseYear:     c.Horizon.BaseYear,
			FirstYear:    c.Horizon.FirstYear,
			LastYear:     c.Horizon.LastYear,
			DecisionStep: c.Horizon.DecisionStep,
		},
		DiscountRate: rate,
		Primary:      domain.NormalizeFuel(c.Fuels.Primary),
		Secondary:    domain.NormalizeFuel(c.Fuels.Secondary),
		Alternatives: make([]domain.FuelKind, 0, len(c.Fuels.Alternatives)),
	}
	for _, f := range c.Fuels.Alternatives {
		s.Alternatives = append(s.Alternatives, domain.NormalizeFuel(f))
	}
	return s
}

// ParsePriceSource normalizes a price source name; empty means scenario.
func ParsePriceSource(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", PriceSourceScenario:
		return PriceSourceScenario, nil
	case PriceSourceReference:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown price source %q", domain.ErrInvalidInput, s)
	}
}

// Resolve overlays the anchors of one run on the configured prices. A
// non-empty o.Source replaces the configured source. Curves without an
// override keep the configured anchors, or get none when prices come from
// the reference tables.
func (p PricesConfig) Resolve(o PricesConfig) (PricesConfig, error) {
	source := p.Source
	if strings.TrimSpace(o.Source) != "" {
		source = o.Source
	}
	source, err := ParsePriceSource(source)
	if err != nil {
		return PricesConfig{}, fmt.Errorf("resolve prices: %w", err)
	}

	out := PricesConfig{Source: source}
	if source == PriceSourceScenario {
		out.CO2, out.Primary, out.Secondary = p.CO2, p.Primary, p.Secondary
	}
	if len(o.CO2) > 0 {
		out.CO2 = o.CO2
	}
	if len(o.Primary) > 0 {
		out.Primary = o.Primary
	}
	if len(o.Secondary) > 0 {
		out.Secondary = o.Secondary
	}
	return out, nil
}
