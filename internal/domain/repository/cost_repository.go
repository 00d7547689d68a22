package repository

import (
	"context"
	"encoding/json"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
)

// CostRepository defines the interface for Azure Cost Management API calls.
// Every call acquires a fresh bearer token; failures come back as
// *types.AuthError or *types.UpstreamError for the retry policy to classify.
type CostRepository interface {
	// Query posts a payload to the cost-query endpoint.
	Query(ctx context.Context, payload *entity.QueryTemplate) (*entity.QueryResult, error)

	// Forecast posts a payload to the forecast endpoint.
	Forecast(ctx context.Context, payload *entity.QueryTemplate) (*entity.QueryResult, error)

	// ConsumptionLots lists the consumption-commitment (MACC) lots.
	ConsumptionLots(ctx context.Context) ([]json.RawMessage, error)
}
