package csvdata

import (
	"fmt"
	"io"
	"strings"

	"fleet-transition-service/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ReadRouteWorkbook reads route legs from the first sheet of an xlsx
// workbook whose first row is the header. Cells are read as stored values,
// ignoring number formats ("35%" or "1,500" display text).
func ReadRouteWorkbook(r io.Reader) ([]domain.RouteLeg, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read route workbook: open: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("read route workbook: %w: no sheets", domain.ErrInvalidReference)
	}
	cells, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read route workbook: rows of %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("read route workbook: %w: empty sheet %q", domain.ErrInvalidReference, sheets[0])
	}

	col := make(map[string]int)
	for i, h := range cleanHeader(cells[0]) {
		col[h] = i
	}
	for _, name := range []string{"Ship", "Share of ERA", "Energy Consumption [MJ] WtW"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("read route workbook: %w: missing column %q", domain.ErrInvalidReference, name)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rows := make([]routeRow, 0, len(cells)-1)
	for n, row := range cells[1:] {
		ship := strings.TrimSpace(cell(row, "Ship"))
		if ship == "" {
			continue
		}
		var rr routeRow
		rr.Ship = ship
		for name, dst := range map[string]*number{
			"Nautical Miles":              &rr.NauticalMiles,
			"Share of ERA":                &rr.ECAShare,
			"Energy Consumption [MJ] WtW": &rr.EnergyMJ,
		} {
			if err := dst.UnmarshalText([]byte(cell(row, name))); err != nil {
				return nil, fmt.Errorf("read route workbook: %w: row %d column %q: %v", domain.ErrInvalidReference, n+2, name, err)
			}
		}
		rows = append(rows, rr)
	}
	return routeLegs(rows), nil
}
