package ports

import (
	"context"
	"fleet-transition-service/internal/domain"
)

// Port: a boundary for loading the reference tables of one optimization run.
type ReferenceSource interface {
	// Return ships (with route aggregates attached), fuel quotes, retrofit
	// and newbuild options.
	LoadReferenceData(ctx context.Context) (*domain.ReferenceData, error)
}
