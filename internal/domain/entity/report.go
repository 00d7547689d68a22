package entity

// QueryColumn is a column descriptor as returned by the cost-query endpoints.
type QueryColumn struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// QueryResult carries the parsed columnar payload of a successful cost query
// together with the raw body, which the JSON API surface returns unchanged.
type QueryResult struct {
	Columns []QueryColumn
	Rows    [][]interface{}
	Raw     []byte
}

// Column is a normalized report column. Name keeps the canonical upstream key
// (UsageDate, PreTaxCost, ...); Display is the presentation header computed by
// the rename table and consumed only by the display layers.
type Column struct {
	Name    string `json:"name"`
	Display string `json:"display"`
}

// ReportTable é a tabela pronta para apresentação produzida pelo normalizador:
// colunas ordenadas e células já formatadas como strings.
type ReportTable struct {
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ColumnIndex returns the position of the named column, or -1.
func (t *ReportTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// DisplayHeaders returns the presentation headers in column order.
func (t *ReportTable) DisplayHeaders() []string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Display
	}
	return headers
}
