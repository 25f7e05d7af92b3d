package ports

import (
	"context"
	"errors"
	"fleet-transition-service/internal/domain"
)

// ErrRunNotFound is returned by RunStore.GetRun for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

// Port: persistence of finished optimization runs.
type RunStore interface {
	SaveRun(ctx context.Context, report *domain.FleetReport) error
	// Return a previously saved run or ErrRunNotFound.
	GetRun(ctx context.Context, runID string) (*domain.FleetReport, error)
}
