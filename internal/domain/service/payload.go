package service

import (
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
)

// BuildPayload merges a resolved window into a query template, producing the
// request payload. Only timePeriod is rewritten; grouping, filters and the
// dataset type pass through unchanged, and the original template is never
// mutated.
func BuildPayload(template *entity.QueryTemplate, window entity.TimeWindow) *entity.QueryTemplate {
	payload := template.Clone()

	if window.From == "" && window.To == "" {
		return payload
	}

	if payload.TimePeriod == nil {
		payload.TimePeriod = &entity.TimePeriod{}
	}
	if window.From != "" {
		payload.TimePeriod.From = window.From
	}
	if window.To != "" {
		payload.TimePeriod.To = window.To
	}
	return payload
}
