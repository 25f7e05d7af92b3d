package memory

import (
	"context"
	"fleet-transition-service/internal/domain"
)

// StaticReferenceSource serves fixed reference tables, for tests and demos.
type StaticReferenceSource struct {
	data domain.ReferenceData
}

func NewStaticReferenceSource(data domain.ReferenceData) *StaticReferenceSource {
	return &StaticReferenceSource{data: clone(data)}
}

// LoadReferenceData returns a copy so callers cannot mutate the source.
func (s *StaticReferenceSource) LoadReferenceData(ctx context.Context) (*domain.ReferenceData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := clone(s.data)
	return &out, nil
}

func clone(d domain.ReferenceData) domain.ReferenceData {
	var co2 map[int]float64
	if d.CO2Prices != nil {
		co2 = make(map[int]float64, len(d.CO2Prices))
		for y, v := range d.CO2Prices {
			co2[y] = v
		}
	}
	return domain.ReferenceData{
		Ships:         append([]domain.Ship(nil), d.Ships...),
		Fuels:         append([]domain.FuelQuote(nil), d.Fuels...),
		Retrofits:     append([]domain.RetrofitOption(nil), d.Retrofits...),
		Newbuilds:     append([]domain.NewbuildOption(nil), d.Newbuilds...),
		NewbuildSpecs: append([]domain.NewbuildSpec(nil), d.NewbuildSpecs...),
		CO2Prices:     co2,
	}
}
