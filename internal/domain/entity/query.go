package entity

import "encoding/json"

// TimePeriod is the absolute window injected into a query payload.
type TimePeriod struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Aggregation describes one aggregated measure of a dataset.
type Aggregation struct {
	Name     string `json:"name"`
	Function string `json:"function"`
}

// Grouping describes one grouping dimension or tag of a dataset.
type Grouping struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Dataset descreve o dataset consultado: granularidade, agregações e
// agrupamentos. O filtro é mantido opaco e repassado byte a byte.
type Dataset struct {
	Granularity string                 `json:"granularity,omitempty"`
	Aggregation map[string]Aggregation `json:"aggregation,omitempty"`
	Grouping    []Grouping             `json:"grouping,omitempty"`
	Filter      json.RawMessage        `json:"filter,omitempty"`
}

// QueryTemplate is a named cost-management query definition as loaded from a
// report file. Only TimePeriod is ever rewritten by the payload builder; every
// other field passes through untouched.
type QueryTemplate struct {
	ExportType string      `json:"type"`
	Timeframe  string      `json:"timeframe,omitempty"`
	TimePeriod *TimePeriod `json:"timePeriod,omitempty"`
	Dataset    Dataset     `json:"dataset"`
}

// Clone returns a copy deep enough that mutating the result's TimePeriod,
// Aggregation, Grouping or Filter never touches the receiver.
func (t *QueryTemplate) Clone() *QueryTemplate {
	out := *t
	if t.TimePeriod != nil {
		tp := *t.TimePeriod
		out.TimePeriod = &tp
	}
	if t.Dataset.Aggregation != nil {
		agg := make(map[string]Aggregation, len(t.Dataset.Aggregation))
		for k, v := range t.Dataset.Aggregation {
			agg[k] = v
		}
		out.Dataset.Aggregation = agg
	}
	if t.Dataset.Grouping != nil {
		out.Dataset.Grouping = append([]Grouping(nil), t.Dataset.Grouping...)
	}
	if t.Dataset.Filter != nil {
		out.Dataset.Filter = append(json.RawMessage(nil), t.Dataset.Filter...)
	}
	return &out
}
