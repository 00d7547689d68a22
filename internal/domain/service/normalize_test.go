package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
)

func cols(names ...string) []entity.QueryColumn {
	out := make([]entity.QueryColumn, len(names))
	for i, n := range names {
		out[i] = entity.QueryColumn{Name: n}
	}
	return out
}

func columnNames(table *entity.ReportTable) []string {
	names := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		names[i] = c.Name
	}
	return names
}

func TestNormalizeTableDropsCurrencyAndMovesCostLast(t *testing.T) {
	table := NormalizeTable(
		cols("PreTaxCost", "UsageDate", "MeterCategory", "Currency"),
		[][]interface{}{
			{1234.5, float64(20240102), "Compute", "USD"},
		},
	)

	assert.Equal(t, []string{"UsageDate", "MeterCategory", "PreTaxCost"}, columnNames(table))
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"January 02, 2024", "Compute", "$1,234.50"}, table.Rows[0])
}

func TestNormalizeTableDisplayHeaders(t *testing.T) {
	table := NormalizeTable(
		cols("SubscriptionName", "ResourceGroup", "ResourceType", "MeterCategory", "TagValue", "PreTaxCost"),
		[][]interface{}{
			{"prod", "rg-app", "virtualMachines", "Compute", "platform", 10.0},
		},
	)

	// As chaves canônicas ficam intactas; só os cabeçalhos mudam.
	assert.Equal(t,
		[]string{"SubscriptionName", "ResourceGroup", "ResourceType", "MeterCategory", "TagValue", "PreTaxCost"},
		columnNames(table))
	assert.Equal(t,
		[]string{"Subscription:", "Resource Group:", "Resource Type:", "Category:", "Owner:", "Cost:"},
		table.DisplayHeaders())
}

func TestNormalizeTableDropsTagKeyColumns(t *testing.T) {
	table := NormalizeTable(
		cols("TagKey", "TagValue", "PreTaxCost"),
		[][]interface{}{
			{"owner", "platform", 42.0},
		},
	)

	assert.Equal(t, []string{"TagValue", "PreTaxCost"}, columnNames(table))
	assert.Equal(t, []string{"platform", "$42.00"}, table.Rows[0])
}

func TestNormalizeTableDropsDashNumberRows(t *testing.T) {
	table := NormalizeTable(
		cols("MeterCategory", "PreTaxCost"),
		[][]interface{}{
			{"Compute", 100.0},
			{"Refund-123", 50.0},
			{"Storage", -7.5},
		},
	)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"Compute", "$100.00"}, table.Rows[0])
}

func TestNormalizeTableDropsZeroAndEmptyCostRows(t *testing.T) {
	table := NormalizeTable(
		cols("MeterCategory", "PreTaxCost"),
		[][]interface{}{
			{"Compute", 100.0},
			{"Storage", 0.0},
			{"Network", "not a number"},
			{"", 12.0},
		},
	)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"Compute", "$100.00"}, table.Rows[0])
}

func TestNormalizeTableUsageDateLeavesNonDatesAlone(t *testing.T) {
	table := NormalizeTable(
		cols("UsageDate", "PreTaxCost"),
		[][]interface{}{
			{float64(20240229), 5.0},
			{"total", 6.0},
		},
	)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "February 29, 2024", table.Rows[0][0])
	assert.Equal(t, "total", table.Rows[1][0])
}

func TestNormalizeTableCurrencyFormattingIsIdempotent(t *testing.T) {
	// A segunda passada de formatação reprocessa células já formatadas na
	// primeira; o resultado tem de ser o mesmo.
	table := NormalizeTable(
		cols("MeterCategory", "PreTaxCost"),
		[][]interface{}{
			{"Compute", 1234567.891},
		},
	)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "$1,234,567.89", table.Rows[0][1])
}

func TestNormalizeTableFormatsEveryCostColumn(t *testing.T) {
	table := NormalizeTable(
		cols("MeterCategory", "ForecastCost", "PreTaxCost"),
		[][]interface{}{
			{"Compute", 10.5, 20.0},
		},
	)

	assert.Equal(t, []string{"MeterCategory", "ForecastCost", "PreTaxCost"}, columnNames(table))
	assert.Equal(t, []string{"Compute", "$10.50", "$20.00"}, table.Rows[0])
}

func TestNormalizeTableFormatsNumericColumnsWithoutCostName(t *testing.T) {
	table := NormalizeTable(
		cols("Quantity", "PreTaxCost"),
		[][]interface{}{
			{3.0, 10.0},
		},
	)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"$3.00", "$10.00"}, table.Rows[0])
}

func TestNormalizeTableLeavesMixedColumnsUnformatted(t *testing.T) {
	// Coluna com texto e número misturados não conta como numérica.
	table := NormalizeTable(
		cols("ResourceGroup", "PreTaxCost"),
		[][]interface{}{
			{"rg-app", 10.0},
			{"42", 20.0},
		},
	)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "rg-app", table.Rows[0][0])
	assert.Equal(t, "42", table.Rows[1][0])
}

func TestNormalizeTableToleratesShortRows(t *testing.T) {
	table := NormalizeTable(
		cols("MeterCategory", "PreTaxCost"),
		[][]interface{}{
			{"Compute"},
			{"Storage", 12.5},
		},
	)

	// A linha curta perde a célula de custo e cai no filtro de vazios.
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"Storage", "$12.50"}, table.Rows[0])
}

func TestNormalizeTableEmptyInput(t *testing.T) {
	table := NormalizeTable(nil, nil)

	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"0", "$0.00"},
		{"1", "$1.00"},
		{"1234.5", "$1,234.50"},
		{"1234567.891", "$1,234,567.89"},
		{"0.004", "$0.00"},
	}

	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.amount)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, FormatCurrency(d), "amount %s", tt.amount)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		cell     interface{}
		expected string
		ok       bool
	}{
		{"float", 12.5, "12.5", true},
		{"int", 7, "7", true},
		{"plain string", "19.99", "19.99", true},
		{"formatted currency", "$1,234.50", "1234.5", true},
		{"empty string", "", "", false},
		{"text", "total", "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := parseAmount(tt.cell)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, d.String())
			}
		})
	}
}
