package csvdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"fleet-transition-service/internal/domain"
)

// Files names the tables inside a data directory. Optional tables may be
// missing from disk.
type Files struct {
	Fleet         string
	Fuels         string
	CO2Prices     string // optional
	Retrofits     string // optional
	NewbuildCosts string // optional
	NewbuildSpecs string
	RoutesXLSX    string // optional, preferred over RoutesCSV
	RoutesCSV     string // optional
}

func DefaultFiles() Files {
	return Files{
		Fleet:         "fleet_data.csv",
		Fuels:         "tech_fuel_data.csv",
		CO2Prices:     "co2_price.csv",
		Retrofits:     "turbo_retrofit.csv",
		NewbuildCosts: "new_ship_cost.csv",
		NewbuildSpecs: "new_fleet_data.csv",
		RoutesXLSX:    "shipping_routes.xlsx",
		RoutesCSV:     "shipping_routes.csv",
	}
}

// Source loads reference data from a directory of semicolon separated
// tables and a route workbook. Files are re-read on every load.
type Source struct {
	dir   string
	files Files
}

func NewSource(dir string, files Files) *Source {
	return &Source{dir: dir, files: files}
}

func (s *Source) LoadReferenceData(ctx context.Context) (*domain.ReferenceData, error) {
	ref := &domain.ReferenceData{}
	var err error

	steps := []struct {
		name     string
		optional bool
		read     func(io.Reader) error
	}{
		{s.files.Fleet, false, func(r io.Reader) error { ref.Ships, err = ReadFleet(r); return err }},
		{s.files.Fuels, false, func(r io.Reader) error { ref.Fuels, err = ReadFuels(r); return err }},
		{s.files.CO2Prices, true, func(r io.Reader) error { ref.CO2Prices, err = ReadCO2Prices(r); return err }},
		{s.files.Retrofits, true, func(r io.Reader) error { ref.Retrofits, err = ReadRetrofits(r); return err }},
		{s.files.NewbuildCosts, true, func(r io.Reader) error { ref.Newbuilds, err = ReadNewbuildCosts(r); return err }},
		{s.files.NewbuildSpecs, false, func(r io.Reader) error { ref.NewbuildSpecs, err = ReadNewbuildSpecs(r); return err }},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.readFile(step.name, step.optional, step.read); err != nil {
			return nil, fmt.Errorf("csv reference source: %w", err)
		}
	}

	legs, err := s.readRoutes()
	if err != nil {
		return nil, fmt.Errorf("csv reference source: %w", err)
	}
	ref.AttachRoutes(legs)

	return ref, nil
}

func (s *Source) readRoutes() ([]domain.RouteLeg, error) {
	var legs []domain.RouteLeg
	var err error

	found, rerr := s.tryRead(s.files.RoutesXLSX, func(r io.Reader) error { legs, err = ReadRouteWorkbook(r); return err })
	if rerr != nil || found {
		return legs, rerr
	}
	_, rerr = s.tryRead(s.files.RoutesCSV, func(r io.Reader) error { legs, err = ReadRouteLegs(r); return err })
	return legs, rerr
}

func (s *Source) readFile(name string, optional bool, read func(io.Reader) error) error {
	found, err := s.tryRead(name, read)
	if err != nil {
		return err
	}
	if !found && !optional {
		return fmt.Errorf("%w: %s not found in %s", domain.ErrMissingReference, name, s.dir)
	}
	return nil
}

// tryRead reports found=false when the file name is empty or absent.
func (s *Source) tryRead(name string, read func(io.Reader) error) (bool, error) {
	if name == "" {
		return false, nil
	}
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := read(f); err != nil {
		return true, fmt.Errorf("%s: %w", name, err)
	}
	return true, nil
}
