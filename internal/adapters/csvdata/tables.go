package csvdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"fleet-transition-service/internal/domain"

	"github.com/jszwec/csvutil"
)

type fleetRow struct {
	ShipType       string `csv:"Ship_Type"`
	Voyages        number `csv:"Voyages"`
	Power          number `csv:"Power"`
	EnergyPerKm    number `csv:"Energy_per_km (MJ/km)"`
	EnergyPerKmAlt number `csv:"Energy_per_km"`
	DistanceKm     number `csv:"Voyage_Distance_km"`
}

type fuelRow struct {
	Year          year   `csv:"Year"`
	FuelType      string `csv:"Fuel_Type"`
	EnergyMJPerKg number `csv:"Energy_MJ_per_kg"`
	PriceUSDPerKg number `csv:"Price_USD_per_kg"`
	CO2GPerMJ     number `csv:"CO2_g_per_MJ"`
	MaintPerKW    number `csv:"Maintenance_USD_per_kW"`
}

type co2Row struct {
	Year  year   `csv:"Year"`
	Price number `csv:"CO2_Price_EUR_per_ton"`
}

type retrofitRow struct {
	ShipType  string `csv:"Ship_Type"`
	Year      year   `csv:"Year"`
	CostUSD   number `csv:"Retrofit_Cost_USD"`
	SavingPct number `csv:"Energy_Saving_%"`
}

type newbuildCostRow struct {
	ShipType string `csv:"Ship_Type"`
	Fuel     string `csv:"Fuel"`
	Year     year   `csv:"Year"`
	CapexUSD number `csv:"Capex_USD"`
}

type newbuildSpecRow struct {
	ShipType    string `csv:"Ship_Type"`
	EnergyPerKm number `csv:"Energy_per_km (MJ/km)_new"`
	PowerNew    number `csv:"Power_kw_new"`
	Power       number `csv:"Power"`
}

type routeRow struct {
	Ship          string `csv:"Ship"`
	NauticalMiles number `csv:"Nautical Miles"`
	ECAShare      number `csv:"Share of ERA"`
	EnergyMJ      number `csv:"Energy Consumption [MJ] WtW"`
}

// decodeTable decodes a semicolon separated table with a header row into
// rows. Every column in required must be present; any of the columns in
// oneOf groups satisfies that group.
func decodeTable[T any](r io.Reader, required []string, oneOf ...[]string) ([]T, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty table", domain.ErrInvalidReference)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	dec, err := csvutil.NewDecoder(cr, cleanHeader(first)...)
	if err != nil {
		return nil, fmt.Errorf("new decoder: %w", err)
	}

	header := make(map[string]struct{}, len(dec.Header()))
	for _, h := range dec.Header() {
		header[h] = struct{}{}
	}
	for _, col := range required {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrInvalidReference, col)
		}
	}
	for _, group := range oneOf {
		found := false
		for _, col := range group {
			if _, ok := header[col]; ok {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: missing one of columns %s", domain.ErrInvalidReference, strings.Join(group, ", "))
		}
	}

	var rows []T
	for {
		var row T
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidReference, len(rows)+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// trims header cells; spreadsheet exports often carry a BOM or padding
func cleanHeader(h []string) []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
	}
	return out
}

func ReadFleet(r io.Reader) ([]domain.Ship, error) {
	rows, err := decodeTable[fleetRow](r,
		[]string{"Ship_Type", "Voyages", "Power"},
		[]string{"Energy_per_km (MJ/km)", "Energy_per_km"},
	)
	if err != nil {
		return nil, fmt.Errorf("read fleet: %w", err)
	}
	ships := make([]domain.Ship, 0, len(rows))
	for _, row := range rows {
		intensity := float64(row.EnergyPerKm)
		if intensity == 0 {
			intensity = float64(row.EnergyPerKmAlt)
		}
		ships = append(ships, domain.Ship{
			Class:            domain.NormalizeName(row.ShipType),
			Voyages:          float64(row.Voyages),
			PowerKW:          float64(row.Power),
			EnergyPerKmMJ:    intensity,
			VoyageDistanceKm: float64(row.DistanceKm),
		})
	}
	return ships, nil
}

func ReadFuels(r io.Reader) ([]domain.FuelQuote, error) {
	rows, err := decodeTable[fuelRow](r, []string{
		"Year", "Fuel_Type", "Energy_MJ_per_kg", "Price_USD_per_kg", "CO2_g_per_MJ", "Maintenance_USD_per_kW",
	})
	if err != nil {
		return nil, fmt.Errorf("read fuels: %w", err)
	}
	out := make([]domain.FuelQuote, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.FuelQuote{
			Year:                int(row.Year),
			Fuel:                domain.NormalizeFuel(row.FuelType),
			EnergyMJPerKg:       float64(row.EnergyMJPerKg),
			PriceUSDPerKg:       float64(row.PriceUSDPerKg),
			CO2GramsPerMJ:       float64(row.CO2GPerMJ),
			MaintenanceUSDPerKW: float64(row.MaintPerKW),
		})
	}
	return out, nil
}

func ReadCO2Prices(r io.Reader) (map[int]float64, error) {
	rows, err := decodeTable[co2Row](r, []string{"Year", "CO2_Price_EUR_per_ton"})
	if err != nil {
		return nil, fmt.Errorf("read co2 prices: %w", err)
	}
	out := make(map[int]float64, len(rows))
	for _, row := range rows {
		out[int(row.Year)] = float64(row.Price)
	}
	return out, nil
}

func ReadRetrofits(r io.Reader) ([]domain.RetrofitOption, error) {
	rows, err := decodeTable[retrofitRow](r, []string{"Ship_Type", "Year", "Retrofit_Cost_USD", "Energy_Saving_%"})
	if err != nil {
		return nil, fmt.Errorf("read retrofits: %w", err)
	}
	out := make([]domain.RetrofitOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.RetrofitOption{
			Class:     domain.NormalizeName(row.ShipType),
			Year:      int(row.Year),
			CapexUSD:  float64(row.CostUSD),
			SavingPct: float64(row.SavingPct),
		})
	}
	return out, nil
}

func ReadNewbuildCosts(r io.Reader) ([]domain.NewbuildOption, error) {
	rows, err := decodeTable[newbuildCostRow](r, []string{"Ship_Type", "Fuel", "Year", "Capex_USD"})
	if err != nil {
		return nil, fmt.Errorf("read newbuild costs: %w", err)
	}
	out := make([]domain.NewbuildOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.NewbuildOption{
			Class:    domain.NormalizeName(row.ShipType),
			Fuel:     domain.NormalizeFuel(row.Fuel),
			Year:     int(row.Year),
			CapexUSD: float64(row.CapexUSD),
		})
	}
	return out, nil
}

// ReadNewbuildSpecs reads new hull specs; Power_kw_new wins over Power.
func ReadNewbuildSpecs(r io.Reader) ([]domain.NewbuildSpec, error) {
	rows, err := decodeTable[newbuildSpecRow](r,
		[]string{"Ship_Type", "Energy_per_km (MJ/km)_new"},
		[]string{"Power_kw_new", "Power"},
	)
	if err != nil {
		return nil, fmt.Errorf("read newbuild specs: %w", err)
	}
	out := make([]domain.NewbuildSpec, 0, len(rows))
	for _, row := range rows {
		power := float64(row.PowerNew)
		if power == 0 {
			power = float64(row.Power)
		}
		out = append(out, domain.NewbuildSpec{
			Class:         domain.NormalizeName(row.ShipType),
			EnergyPerKmMJ: float64(row.EnergyPerKm),
			PowerKW:       power,
		})
	}
	return out, nil
}

// ReadRouteLegs reads the route table exported as CSV. Rows without a ship
// name are skipped.
func ReadRouteLegs(r io.Reader) ([]domain.RouteLeg, error) {
	rows, err := decodeTable[routeRow](r, []string{"Ship", "Share of ERA", "Energy Consumption [MJ] WtW"})
	if err != nil {
		return nil, fmt.Errorf("read route legs: %w", err)
	}
	return routeLegs(rows), nil
}

func routeLegs(rows []routeRow) []domain.RouteLeg {
	out := make([]domain.RouteLeg, 0, len(rows))
	for _, row := range rows {
		ship := domain.NormalizeName(row.Ship)
		if ship == "" {
			continue
		}
		out = append(out, domain.RouteLeg{
			Ship:          ship,
			NauticalMiles: float64(row.NauticalMiles),
			ECAShare:      float64(row.ECAShare),
			EnergyMJ:      float64(row.EnergyMJ),
		})
	}
	return out
}
