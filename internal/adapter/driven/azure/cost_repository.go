package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"go.uber.org/zap"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/repository"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/metrics"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/types"
)

const consumptionAPIVersion = "2021-05-01"

// CostRepositoryImpl implements CostRepository against the Azure management
// plane. A fresh bearer token is acquired for every call, since consecutive
// attempts of the retry loop can be minutes apart.
type CostRepositoryImpl struct {
	cred       azcore.TokenCredential
	httpClient *http.Client
	base       string
	scope      string
	apiVersion string
	logger     *zap.Logger
}

// NewCostRepository cria uma nova implementação do CostRepository.
func NewCostRepository(cred azcore.TokenCredential, cfg *types.Config, logger *zap.Logger) repository.CostRepository {
	return &CostRepositoryImpl{
		cred:       cred,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		base:       cfg.ManagementBase,
		scope:      cfg.Scope,
		apiVersion: cfg.APIVersion,
		logger:     logger,
	}
}

// NewCredential monta a credencial: Managed Identity quando um client ID é
// configurado, credencial padrão caso contrário.
func NewCredential(managedIdentityClientID string) (azcore.TokenCredential, error) {
	if managedIdentityClientID != "" {
		return azidentity.NewManagedIdentityCredential(&azidentity.ManagedIdentityCredentialOptions{
			ID: azidentity.ClientID(managedIdentityClientID),
		})
	}
	return azidentity.NewDefaultAzureCredential(nil)
}

func (r *CostRepositoryImpl) Query(ctx context.Context, payload *entity.QueryTemplate) (*entity.QueryResult, error) {
	endpoint := fmt.Sprintf("%s/%s/providers/Microsoft.CostManagement/query?api-version=%s", r.base, r.scope, r.apiVersion)
	return r.postQuery(ctx, "query", endpoint, payload)
}

func (r *CostRepositoryImpl) Forecast(ctx context.Context, payload *entity.QueryTemplate) (*entity.QueryResult, error) {
	endpoint := fmt.Sprintf("%s/%s/providers/Microsoft.CostManagement/forecast?api-version=%s", r.base, r.scope, r.apiVersion)
	return r.postQuery(ctx, "forecast", endpoint, payload)
}

func (r *CostRepositoryImpl) ConsumptionLots(ctx context.Context) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/%s/providers/Microsoft.Consumption/lots?api-version=%s&$filter=%s",
		r.base, r.scope, consumptionAPIVersion, url.QueryEscape("source eq 'ConsumptionCommitment'"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	body, err := r.do(req, "lots")
	if err != nil {
		return nil, err
	}

	var envelope entity.ConsumptionResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &types.UpstreamError{Status: 500, Reason: fmt.Sprintf("malformed consumption response: %v", err)}
	}
	return envelope.Value, nil
}

func (r *CostRepositoryImpl) postQuery(ctx context.Context, endpointName, endpoint string, payload *entity.QueryTemplate) (*entity.QueryResult, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}

	body, err := r.do(req, endpointName)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Properties struct {
			Columns []entity.QueryColumn `json:"columns"`
			Rows    [][]interface{}      `json:"rows"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		// 200 com corpo inválido: falha que uma nova tentativa não resolve
		return nil, &types.UpstreamError{Status: 500, Reason: fmt.Sprintf("malformed response body: %v", err)}
	}
	for _, row := range envelope.Properties.Rows {
		if len(row) != len(envelope.Properties.Columns) {
			return nil, &types.UpstreamError{Status: 500, Reason: "malformed response body: row length does not match column count"}
		}
	}

	return &entity.QueryResult{
		Columns: envelope.Properties.Columns,
		Rows:    envelope.Properties.Rows,
		Raw:     body,
	}, nil
}

// do acquires a token, sends the request with the product headers and returns
// the body on HTTP 200. Upstream and network failures come back as
// *types.UpstreamError; token failures as *types.AuthError.
func (r *CostRepositoryImpl) do(req *http.Request, endpointName string) ([]byte, error) {
	token, err := r.cred.GetToken(req.Context(), policy.TokenRequestOptions{
		Scopes: []string{r.base + "/.default"},
	})
	if err != nil {
		metrics.UpstreamAttempts.WithLabelValues(endpointName, "auth_error").Inc()
		return nil, &types.AuthError{Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+token.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-ms-command-name", "CostAnalysis")
	req.Header.Set("ClientType", "sxt-costs-app")

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	metrics.UpstreamDuration.WithLabelValues(endpointName).Observe(time.Since(start).Seconds())
	if err != nil {
		// Erros de rede não são propagados como pânico: viram um resultado
		// com status 500.
		metrics.UpstreamAttempts.WithLabelValues(endpointName, "network_error").Inc()
		return nil, &types.UpstreamError{Status: 500, Reason: err.Error(), Retryable: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamAttempts.WithLabelValues(endpointName, "network_error").Inc()
		return nil, &types.UpstreamError{Status: 500, Reason: err.Error(), Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamAttempts.WithLabelValues(endpointName, "upstream_error").Inc()
		r.logger.Warn("cost management request failed",
			zap.String("endpoint", endpointName),
			zap.Int("status", resp.StatusCode))
		return nil, &types.UpstreamError{
			Status:    resp.StatusCode,
			Reason:    errorMessage(body),
			Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	metrics.UpstreamAttempts.WithLabelValues(endpointName, "success").Inc()
	return body, nil
}

// errorMessage extrai error.message do corpo de erro da API, com fallback.
func errorMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return "Unknown error"
}
