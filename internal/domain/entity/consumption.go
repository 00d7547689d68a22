package entity

import "encoding/json"

// ConsumptionResponse is the envelope of the Microsoft.Consumption lots
// listing. Each lot is kept as raw JSON and returned to API callers unchanged.
type ConsumptionResponse struct {
	Value []json.RawMessage `json:"value"`
}
