package azure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/types"
)

// fakeCredential devolve um token fixo sem falar com o Azure.
type fakeCredential struct {
	err error
}

func (c *fakeCredential) GetToken(ctx context.Context, options policy.TokenRequestOptions) (azcore.AccessToken, error) {
	if c.err != nil {
		return azcore.AccessToken{}, c.err
	}
	return azcore.AccessToken{Token: "test-token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func newTestRepository(serverURL string, cred azcore.TokenCredential) *CostRepositoryImpl {
	cfg := types.DefaultConfig()
	cfg.ManagementBase = serverURL
	cfg.Scope = "subscriptions/00000000-0000-0000-0000-000000000000"
	return NewCostRepository(cred, cfg, zap.NewNop()).(*CostRepositoryImpl)
}

func sampleQueryBody() string {
	return `{
		"properties": {
			"columns": [{"name": "MeterCategory", "type": "String"}, {"name": "PreTaxCost", "type": "Number"}],
			"rows": [["Compute", 1234.5]]
		}
	}`
}

func TestQuerySendsExpectedRequest(t *testing.T) {
	var captured *http.Request
	var capturedBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&capturedBody))
		w.Write([]byte(sampleQueryBody()))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL, &fakeCredential{})
	payload := &entity.QueryTemplate{
		ExportType: "ActualCost",
		Timeframe:  "Custom",
		TimePeriod: &entity.TimePeriod{From: "2024-01-01T00:00:00Z", To: "2024-01-31T23:59:59Z"},
	}

	result, err := repo.Query(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t,
		"/subscriptions/00000000-0000-0000-0000-000000000000/providers/Microsoft.CostManagement/query",
		captured.URL.Path)
	assert.Equal(t, "2023-11-01", captured.URL.Query().Get("api-version"))
	assert.Equal(t, "Bearer test-token", captured.Header.Get("Authorization"))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.Equal(t, "CostAnalysis", captured.Header.Get("x-ms-command-name"))
	assert.Equal(t, "sxt-costs-app", captured.Header.Get("ClientType"))
	assert.Equal(t, "ActualCost", capturedBody["type"])

	require.Len(t, result.Columns, 2)
	assert.Equal(t, "MeterCategory", result.Columns[0].Name)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Compute", result.Rows[0][0])
	assert.JSONEq(t, sampleQueryBody(), string(result.Raw))
}

func TestForecastUsesForecastEndpoint(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(sampleQueryBody()))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL, &fakeCredential{})
	_, err := repo.Forecast(context.Background(), &entity.QueryTemplate{ExportType: "ActualCost"})

	require.NoError(t, err)
	assert.Equal(t,
		"/subscriptions/00000000-0000-0000-0000-000000000000/providers/Microsoft.CostManagement/forecast",
		path)
}

func TestConsumptionLots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t,
			"/subscriptions/00000000-0000-0000-0000-000000000000/providers/Microsoft.Consumption/lots",
			r.URL.Path)
		assert.Equal(t, "2021-05-01", r.URL.Query().Get("api-version"))
		assert.Equal(t, "source eq 'ConsumptionCommitment'", r.URL.Query().Get("$filter"))
		w.Write([]byte(`{"value": [{"name": "lot-1"}, {"name": "lot-2"}]}`))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL, &fakeCredential{})
	lots, err := repo.ConsumptionLots(context.Background())

	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.JSONEq(t, `{"name": "lot-1"}`, string(lots[0]))
}

func TestQueryUpstreamErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		retryable bool
		reason    string
	}{
		{"throttled", http.StatusTooManyRequests, `{"error": {"message": "Too many requests"}}`, true, "Too many requests"},
		{"server error", http.StatusBadGateway, `oops`, true, "Unknown error"},
		{"bad request", http.StatusBadRequest, `{"error": {"message": "Invalid query"}}`, false, "Invalid query"},
		{"forbidden", http.StatusForbidden, `{}`, false, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			repo := newTestRepository(server.URL, &fakeCredential{})
			_, err := repo.Query(context.Background(), &entity.QueryTemplate{})

			var ue *types.UpstreamError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.status, ue.Status)
			assert.Equal(t, tt.retryable, ue.Retryable)
			assert.Equal(t, tt.reason, ue.Reason)
			assert.Equal(t, tt.status, types.StatusOf(err))
		})
	}
}

func TestQueryMalformedBodyIsNotRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL, &fakeCredential{})
	_, err := repo.Query(context.Background(), &entity.QueryTemplate{})

	var ue *types.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.False(t, ue.Retryable)
	assert.Equal(t, 500, ue.Status)
}

func TestQueryJaggedRowsAreMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"properties": {
				"columns": [{"name": "MeterCategory", "type": "String"}, {"name": "PreTaxCost", "type": "Number"}],
				"rows": [["Compute"]]
			}
		}`))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL, &fakeCredential{})
	_, err := repo.Query(context.Background(), &entity.QueryTemplate{})

	var ue *types.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.False(t, ue.Retryable)
	assert.Equal(t, 500, ue.Status)
	assert.Contains(t, ue.Reason, "row length")
}

func TestQueryNetworkErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // derruba o servidor antes da chamada

	repo := newTestRepository(server.URL, &fakeCredential{})
	_, err := repo.Query(context.Background(), &entity.QueryTemplate{})

	var ue *types.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.True(t, ue.Retryable)
	assert.Equal(t, 500, ue.Status)
}

func TestQueryTokenFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach upstream without a token")
	}))
	defer server.Close()

	repo := newTestRepository(server.URL, &fakeCredential{err: errors.New("identity unavailable")})
	_, err := repo.Query(context.Background(), &entity.QueryTemplate{})

	var authErr *types.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 500, types.StatusOf(err))
}
