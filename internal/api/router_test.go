package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fleet-transition-service/internal/adapters/memory"
	"fleet-transition-service/internal/api/dto"
	"fleet-transition-service/internal/config"
	"fleet-transition-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReference() domain.ReferenceData {
	ref := domain.ReferenceData{
		Ships: []domain.Ship{{
			Class:         "Feeder",
			Voyages:       10,
			PowerKW:       1000,
			EnergyPerKmMJ: 100,
		}},
		NewbuildSpecs: []domain.NewbuildSpec{{Class: "Feeder", EnergyPerKmMJ: 80, PowerKW: 900}},
		Retrofits: []domain.RetrofitOption{
			{Class: "Feeder", Year: 2025, CapexUSD: 1e5, SavingPct: 10},
			{Class: "Feeder", Year: 2030, CapexUSD: 1e5, SavingPct: 10},
		},
		Newbuilds: []domain.NewbuildOption{
			{Class: "Feeder", Fuel: domain.FuelLPG, Year: 2025, CapexUSD: 5e7},
			{Class: "Feeder", Fuel: domain.FuelLPG, Year: 2030, CapexUSD: 5e7},
		},
		CO2Prices: map[int]float64{2025: 250},
	}
	ref.AttachRoutes([]domain.RouteLeg{{Ship: "Feeder", EnergyMJ: 1e6, ECAShare: 0.25}})
	for y := 2025; y <= 2030; y++ {
		ref.Fuels = append(ref.Fuels,
			domain.FuelQuote{Year: y, Fuel: domain.FuelDiesel, EnergyMJPerKg: 42.7, PriceUSDPerKg: 0.8, CO2GramsPerMJ: 74, MaintenanceUSDPerKW: 2},
			domain.FuelQuote{Year: y, Fuel: domain.FuelHFO, EnergyMJPerKg: 40.2, PriceUSDPerKg: 0.6, CO2GramsPerMJ: 77, MaintenanceUSDPerKW: 1.5},
			domain.FuelQuote{Year: y, Fuel: domain.FuelLPG, EnergyMJPerKg: 46, PriceUSDPerKg: 0.7, CO2GramsPerMJ: 65, MaintenanceUSDPerKW: 2.5},
		)
	}
	return ref
}

func testDefaults() config.ScenarioConfig {
	cfg := config.DefaultScenarioConfig()
	cfg.Horizon = config.HorizonConfig{BaseYear: 2025, FirstYear: 2025, LastYear: 2030, DecisionStep: 5}
	cfg.Fuels.Alternatives = []string{"Lpg"}
	cfg.Prices = config.PricesConfig{
		CO2:       map[int]float64{2025: 100},
		Primary:   map[int]float64{2025: 0.8},
		Secondary: map[int]float64{2025: 0.6},
	}
	return cfg
}

func newTestServer(t *testing.T, deps Deps) *httptest.Server {
	t.Helper()
	if deps.Source == nil {
		deps.Source = memory.NewStaticReferenceSource(testReference())
	}
	if deps.Defaults.Horizon.FirstYear == 0 {
		deps.Defaults = testDefaults()
	}
	srv := httptest.NewServer(NewRouter(deps))
	t.Cleanup(srv.Close)
	return srv
}

func decodeBody(t *testing.T, res *http.Response, v any) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Deps{})

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get(requestIDHeader))

	var body map[string]string
	decodeBody(t, res, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestHealthReportsStorageFailure(t *testing.T) {
	srv := newTestServer(t, Deps{Ping: func(context.Context) error { return errors.New("down") }})

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := newTestServer(t, Deps{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "abc-123", res.Header.Get(requestIDHeader))
}

func TestListShips(t *testing.T) {
	srv := newTestServer(t, Deps{})

	res, err := http.Get(srv.URL + "/ships")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body dto.ListShipsResponse
	decodeBody(t, res, &body)
	require.Len(t, body.Ships, 1)
	assert.Equal(t, "Feeder", body.Ships[0].Class)
	assert.InDelta(t, 1e6, body.Ships[0].VoyageEnergyMJ, 1e-6)
	assert.InDelta(t, 0.25, body.Ships[0].ECAShare, 1e-9)
}

func TestCreateAndGetOptimization(t *testing.T) {
	store := memory.NewRunStore()
	srv := newTestServer(t, Deps{Store: store})

	res, err := http.Post(srv.URL+"/optimizations", "application/json",
		strings.NewReader(`{"co2_prices":{"2025":120},"include_emissions":true}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created dto.OptimizationResponse
	decodeBody(t, res, &created)
	require.NotEmpty(t, created.RunID)
	assert.Equal(t, "optimal", created.SolverStatus)
	require.Len(t, created.Decisions, 1)
	assert.Equal(t, "Feeder", created.Decisions[0].Ship)
	require.NotNil(t, created.Emissions)
	assert.True(t, created.Costs.OptimizedNPV.LessThanOrEqual(created.Costs.BaselineNPV))
	assert.Equal(t, []string{"Lpg"}, created.Scenario.Alternatives)

	res, err = http.Get(srv.URL + "/optimizations/" + created.RunID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var fetched dto.OptimizationResponse
	decodeBody(t, res, &fetched)
	assert.Equal(t, created.RunID, fetched.RunID)
	assert.True(t, created.Costs.OptimizedNPV.Equal(fetched.Costs.OptimizedNPV))
}

func TestCreateOptimizationWithEmptyBodyUsesDefaults(t *testing.T) {
	srv := newTestServer(t, Deps{})

	res, err := http.Post(srv.URL+"/optimizations", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var body dto.OptimizationResponse
	decodeBody(t, res, &body)
	assert.Equal(t, 2025, body.Scenario.FirstYear)
	assert.Equal(t, 2030, body.Scenario.LastYear)
	assert.Nil(t, body.Emissions)
}

func TestCreateOptimizationErrors(t *testing.T) {
	srv := newTestServer(t, Deps{})

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"co2_prices":`, http.StatusBadRequest},
		{"unknown field", `{"budget":1}`, http.StatusBadRequest},
		{"trailing object", `{} {}`, http.StatusBadRequest},
		{"bad discount rate", `{"discount_rate":-1}`, http.StatusBadRequest},
		{"inverted horizon", `{"horizon":{"first_year":2030,"last_year":2025}}`, http.StatusBadRequest},
		{"horizon too long", `{"horizon":{"last_year":10000000}}`, http.StatusBadRequest},
		{"anchors after horizon start", `{"co2_prices":{"2028":10}}`, http.StatusBadRequest},
		{"fuel without quotes", `{"alternatives":["Green Ammonia"]}`, http.StatusUnprocessableEntity},
		{"unknown price source", `{"price_source":"market"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := http.Post(srv.URL+"/optimizations", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)

			var body map[string]string
			decodeBody(t, res, &body)
			assert.Equal(t, tc.status, res.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func postOptimization(t *testing.T, srv *httptest.Server, body string) dto.OptimizationResponse {
	t.Helper()
	res, err := http.Post(srv.URL+"/optimizations", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var out dto.OptimizationResponse
	decodeBody(t, res, &out)
	return out
}

func TestCreateOptimizationWithReferencePrices(t *testing.T) {
	srv := newTestServer(t, Deps{})

	// the CO2 table says 250, the quotes 0.8 (diesel) and 0.6 (HFO)
	fromReference := postOptimization(t, srv, `{"price_source":"reference"}`)
	explicit := postOptimization(t, srv,
		`{"co2_prices":{"2025":250},"primary_prices":{"2025":0.8},"secondary_prices":{"2025":0.6}}`)
	configured := postOptimization(t, srv, `{}`)

	assert.True(t, fromReference.Costs.BaselineNPV.Equal(explicit.Costs.BaselineNPV))
	assert.True(t, fromReference.Costs.OptimizedNPV.Equal(explicit.Costs.OptimizedNPV))
	assert.True(t, configured.Costs.BaselineNPV.LessThan(fromReference.Costs.BaselineNPV))

	// explicit anchors still win over the reference tables
	mixed := postOptimization(t, srv, `{"price_source":"reference","co2_prices":{"2025":100}}`)
	assert.True(t, mixed.Costs.BaselineNPV.Equal(configured.Costs.BaselineNPV))
}

func TestReferenceDataDefectsAreUnprocessable(t *testing.T) {
	srv := newTestServer(t, Deps{Source: memory.NewStaticReferenceSource(domain.ReferenceData{})})

	res, err := http.Post(srv.URL+"/optimizations", "application/json", nil)
	require.NoError(t, err)

	var body map[string]string
	decodeBody(t, res, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, body["error"], "invalid reference data")
}

func TestOptimizationMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, Deps{})

	res, err := http.Get(srv.URL + "/optimizations")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	assert.Equal(t, http.MethodPost, res.Header.Get("Allow"))
}

func TestGetOptimization(t *testing.T) {
	t.Run("unknown run", func(t *testing.T) {
		srv := newTestServer(t, Deps{Store: memory.NewRunStore()})
		res, err := http.Get(srv.URL + "/optimizations/nope")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("storage disabled", func(t *testing.T) {
		srv := newTestServer(t, Deps{})
		res, err := http.Get(srv.URL + "/optimizations/any")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotImplemented, res.StatusCode)
	})
}
