package memory

import (
	"context"
	"fleet-transition-service/internal/domain"
	"fleet-transition-service/internal/ports"
	"fmt"
	"sync"
)

// RunStore keeps finished runs in process memory.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.FleetReport
}

func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]domain.FleetReport)}
}

func (s *RunStore) SaveRun(ctx context.Context, report *domain.FleetReport) error {
	if report == nil || report.RunID == "" {
		return fmt.Errorf("memory save run: %w: run id is required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[report.RunID] = copyReport(*report)
	return nil
}

func (s *RunStore) GetRun(ctx context.Context, runID string) (*domain.FleetReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("memory get run %q: %w", runID, ports.ErrRunNotFound)
	}
	out := copyReport(r)
	return &out, nil
}

func copyReport(r domain.FleetReport) domain.FleetReport {
	r.Decisions = append([]domain.ShipDecision(nil), r.Decisions...)
	r.Scenario.Alternatives = append([]domain.FuelKind(nil), r.Scenario.Alternatives...)
	if r.Emissions != nil {
		em := *r.Emissions
		r.Emissions = &em
	}
	return r
}
