package memory

import (
	"context"
	"testing"

	"fleet-transition-service/internal/domain"
	"fleet-transition-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticReferenceSourceReturnsCopies(t *testing.T) {
	src := NewStaticReferenceSource(domain.ReferenceData{
		Ships: []domain.Ship{{Class: "Feeder", Voyages: 10}},
	})

	first, err := src.LoadReferenceData(context.Background())
	require.NoError(t, err)
	first.Ships[0].Voyages = 99

	second, err := src.LoadReferenceData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, second.Ships[0].Voyages)
}

func TestStaticReferenceSourceHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStaticReferenceSource(domain.ReferenceData{}).LoadReferenceData(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunStoreRoundTrip(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	year := 2030

	err := store.SaveRun(ctx, &domain.FleetReport{
		RunID:     "run-1",
		Decisions: []domain.ShipDecision{{Ship: "Feeder", RetrofitYear: &year}},
		Emissions: &domain.EmissionsComparison{OptimizedTonnes: 1, BaselineTonnes: 2},
	})
	require.NoError(t, err)

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got.Decisions, 1)
	assert.Equal(t, 2030, *got.Decisions[0].RetrofitYear)
	assert.Equal(t, 2.0, got.Emissions.BaselineTonnes)

	_, err = store.GetRun(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrRunNotFound)

	require.ErrorIs(t, store.SaveRun(ctx, &domain.FleetReport{}), domain.ErrInvalidInput)
}
