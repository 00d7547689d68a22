package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/application/usecase"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/retry"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/types"
)

type fakeCostRepo struct {
	queryCalls int
	queryErr   error
	lotsErr    error
}

func (f *fakeCostRepo) Query(ctx context.Context, payload *entity.QueryTemplate) (*entity.QueryResult, error) {
	f.queryCalls++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &entity.QueryResult{
		Columns: []entity.QueryColumn{{Name: "MeterCategory"}, {Name: "PreTaxCost"}},
		Rows:    [][]interface{}{{"Compute", 1234.5}},
		Raw:     []byte(`{"properties": {"rows": [["Compute", 1234.5]]}}`),
	}, nil
}

func (f *fakeCostRepo) Forecast(ctx context.Context, payload *entity.QueryTemplate) (*entity.QueryResult, error) {
	return &entity.QueryResult{Raw: []byte(`{"properties": {"forecast": true}}`)}, nil
}

func (f *fakeCostRepo) ConsumptionLots(ctx context.Context) ([]json.RawMessage, error) {
	if f.lotsErr != nil {
		return nil, f.lotsErr
	}
	return []json.RawMessage{json.RawMessage(`{"name": "lot-1"}`)}, nil
}

type fakeDefsRepo struct{}

func (f *fakeDefsRepo) Load(name string) (*entity.QueryTemplate, error) {
	switch name {
	case "daily_cost_by_service", "forecast":
		return &entity.QueryTemplate{ExportType: "ActualCost"}, nil
	}
	return nil, types.ErrReportNotFound
}

func (f *fakeDefsRepo) List() (entity.CategorizedReports, error) {
	return entity.CategorizeReports([]string{"daily_cost_by_service", "ytd_cost_by_service"}), nil
}

type noopExportRepo struct{}

func (noopExportRepo) ExportToCSV(*entity.ReportTable, string, string) (string, error) {
	return "", nil
}
func (noopExportRepo) ExportToJSON(*entity.ReportTable, string, string) (string, error) {
	return "", nil
}
func (noopExportRepo) ExportToPDF(*entity.ReportTable, string, string) (string, error) {
	return "", nil
}

func newTestServer(t *testing.T, costRepo *fakeCostRepo, cfg *types.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = types.DefaultConfig()
	}
	uc := usecase.NewReportUseCase(
		costRepo,
		&fakeDefsRepo{},
		noopExportRepo{},
		retry.Policy{MaxAttempts: 1, Delay: 0, Classify: retry.RetryAll},
		zap.NewNop(),
	)
	server, err := NewServer(uc, cfg, gocache.New(time.Minute, time.Minute), zap.NewNop())
	require.NoError(t, err)
	return server
}

func get(server *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIndexListsReportsByCategory(t *testing.T) {
	server := newTestServer(t, &fakeCostRepo{}, nil)

	rec := get(server, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `href="/daily_cost_by_service"`)
	assert.Contains(t, body, `href="/ytd_cost_by_service"`)
}

func TestReportRendersNormalizedTable(t *testing.T) {
	server := newTestServer(t, &fakeCostRepo{}, nil)

	rec := get(server, "/daily_cost_by_service")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Category:")
	assert.Contains(t, body, "Cost:")
	assert.Contains(t, body, "$1,234.50")
	assert.Contains(t, body, "Last updated:")
}

func TestUnknownReportIs404(t *testing.T) {
	server := newTestServer(t, &fakeCostRepo{}, nil)

	assert.Equal(t, http.StatusNotFound, get(server, "/nope").Code)
	assert.Equal(t, http.StatusNotFound, get(server, "/api/nope").Code)
}

func TestAPIReturnsRawResponse(t *testing.T) {
	server := newTestServer(t, &fakeCostRepo{}, nil)

	rec := get(server, "/api/daily_cost_by_service")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"properties": {"rows": [["Compute", 1234.5]]}}`, rec.Body.String())
}

func TestAPIAcceptsJSONSuffix(t *testing.T) {
	server := newTestServer(t, &fakeCostRepo{}, nil)

	rec := get(server, "/api/daily_cost_by_service.json")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"properties": {"rows": [["Compute", 1234.5]]}}`, rec.Body.String())
}

func TestForecastEndpoint(t *testing.T) {
	server := newTestServer(t, &fakeCostRepo{}, nil)

	rec := get(server, "/api/forecast")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"properties": {"forecast": true}}`, rec.Body.String())
}

func TestUpstreamErrorStatusIsPropagated(t *testing.T) {
	costRepo := &fakeCostRepo{queryErr: &types.UpstreamError{Status: 429, Reason: "throttled", Retryable: true}}
	server := newTestServer(t, costRepo, nil)

	rec := get(server, "/api/daily_cost_by_service")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "throttled")
}

func TestConsumptionDisabledByDefault(t *testing.T) {
	server := newTestServer(t, &fakeCostRepo{}, nil)

	rec := get(server, "/api/consumption")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "macc_status: fetch_data"}`, rec.Body.String())
}

func TestConsumptionEnabled(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.FetchConsumption = true
	server := newTestServer(t, &fakeCostRepo{}, cfg)

	rec := get(server, "/api/consumption")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name": "lot-1"}]`, rec.Body.String())
}

func TestConsumptionErrorBody(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.FetchConsumption = true
	costRepo := &fakeCostRepo{lotsErr: &types.UpstreamError{Status: 502, Reason: "bad gateway", Retryable: true}}
	server := newTestServer(t, costRepo, cfg)

	rec := get(server, "/api/consumption")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error": "Failed to fetch consumption data"}`, rec.Body.String())
}

func TestSuccessfulResponsesAreCached(t *testing.T) {
	costRepo := &fakeCostRepo{}
	server := newTestServer(t, costRepo, nil)

	first := get(server, "/api/daily_cost_by_service")
	second := get(server, "/api/daily_cost_by_service")

	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, costRepo.queryCalls, "second request must be served from cache")
}

func TestErrorResponsesAreNotCached(t *testing.T) {
	costRepo := &fakeCostRepo{queryErr: &types.UpstreamError{Status: 500, Reason: "boom", Retryable: true}}
	server := newTestServer(t, costRepo, nil)

	get(server, "/api/daily_cost_by_service")
	get(server, "/api/daily_cost_by_service")

	assert.Equal(t, 2, costRepo.queryCalls)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t, &fakeCostRepo{}, nil)

	rec := get(server, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t, &fakeCostRepo{}, nil)

	rec := get(server, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
}
