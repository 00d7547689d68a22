package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
)

// dashNumberPattern marca linhas malformadas / de ajuste negativo.
var dashNumberPattern = regexp.MustCompile(`-\d+`)

// displayRenames is the keyword substitution table for presentation headers,
// applied in order on the canonical column name.
var displayRenames = []struct {
	keyword string
	name    string
}{
	{"TagValue", "Owner:"},
	{"UsageDate", "Usage Date:"},
	{"SubscriptionName", "Subscription:"},
	{"ResourceGroup", "Resource Group:"},
	{"ResourceType", "Resource Type:"},
	{"MeterCategory", "Category:"},
	{"PreTaxCost", "Cost:"},
}

// NormalizeTable converts a raw columnar query result into the display-ready
// table. The steps run in a fixed order; the currency formatting runs twice,
// before and after the row filters. The second pass covers every numeric
// column and coerces non-numeric cost cells to empty instead of failing
// the row.
func NormalizeTable(columns []entity.QueryColumn, rows [][]interface{}) *entity.ReportTable {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	// Linhas mais curtas que o cabeçalho são completadas com células vazias;
	// células excedentes são descartadas.
	cells := make([][]interface{}, len(rows))
	for i, row := range rows {
		padded := make([]interface{}, len(columns))
		copy(padded, row)
		cells[i] = padded
	}

	// Remove a coluna Currency
	names, cells = dropColumn(names, cells, func(name string) bool { return name == "Currency" })

	// Move PreTaxCost para a última posição
	names, cells = movePreTaxCostLast(names, cells)

	// Formata números das colunas de custo
	for col, name := range names {
		if !strings.Contains(name, "Cost") {
			continue
		}
		for _, row := range cells {
			if amount, ok := parseAmount(row[col]); ok {
				row[col] = FormatCurrency(amount)
			}
		}
	}

	// Converte UsageDate de YYYYMMDD para "Month DD, YYYY"
	for col, name := range names {
		if name != "UsageDate" {
			continue
		}
		for _, row := range cells {
			row[col] = formatUsageDate(row[col])
		}
	}

	// Remove linhas contendo '-' seguido de número
	cells = dropRows(cells, func(row []interface{}) bool {
		for _, cell := range row {
			if dashNumberPattern.MatchString(stringify(cell)) {
				return true
			}
		}
		return false
	})

	// Remove colunas TagKey
	names, cells = dropColumn(names, cells, func(name string) bool { return strings.Contains(name, "TagKey") })

	// Cabeçalhos de apresentação; as chaves canônicas são preservadas
	outColumns := make([]entity.Column, len(names))
	for i, name := range names {
		outColumns[i] = entity.Column{Name: name, Display: displayName(name)}
	}

	// Segunda passada de formatação: cobre todas as colunas numéricas,
	// com ou sem "Cost" no nome; células não numéricas viram vazio
	for col, name := range names {
		if !strings.Contains(name, "Cost") && !numericColumn(cells, col) {
			continue
		}
		for _, row := range cells {
			if amount, ok := parseAmount(row[col]); ok {
				row[col] = FormatCurrency(amount)
			} else {
				row[col] = ""
			}
		}
	}

	// Remove linhas com $0.00 e linhas com células vazias
	cells = dropRows(cells, func(row []interface{}) bool {
		for _, cell := range row {
			s := strings.TrimSpace(stringify(cell))
			if s == "" || s == "$0.00" {
				return true
			}
		}
		return false
	})

	outRows := make([][]string, len(cells))
	for i, row := range cells {
		out := make([]string, len(row))
		for j, cell := range row {
			out[j] = stringify(cell)
		}
		outRows[i] = out
	}

	return &entity.ReportTable{Columns: outColumns, Rows: outRows}
}

// FormatCurrency renders an amount as $X,XXX.XX. Formatting an already
// formatted value parses back to the same string.
func FormatCurrency(amount decimal.Decimal) string {
	f, _ := amount.Float64()
	return "$" + humanize.FormatFloat("#,###.##", f)
}

// numericColumn reporta se todas as células da coluna contêm valores
// monetários. Colunas de texto e colunas mistas ficam de fora.
func numericColumn(cells [][]interface{}, col int) bool {
	if len(cells) == 0 {
		return false
	}
	for _, row := range cells {
		if _, ok := parseAmount(row[col]); !ok {
			return false
		}
	}
	return true
}

// parseAmount interpreta uma célula como valor monetário, aceitando números
// do JSON e strings já formatadas ("$1,234.50").
func parseAmount(cell interface{}) (decimal.Decimal, bool) {
	switch v := cell.(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case string:
		s := strings.TrimSpace(v)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

// formatUsageDate converte YYYYMMDD para "Month DD, YYYY"; valores fora do
// formato são mantidos como estão.
func formatUsageDate(cell interface{}) interface{} {
	s := stringify(cell)
	if len(s) != 8 {
		return cell
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return cell
	}
	return t.Format("January 02, 2006")
}

func displayName(name string) string {
	display := name
	for _, r := range displayRenames {
		display = strings.Replace(display, r.keyword, r.name, 1)
	}
	return display
}

func dropColumn(names []string, cells [][]interface{}, match func(string) bool) ([]string, [][]interface{}) {
	keep := make([]int, 0, len(names))
	for i, name := range names {
		if !match(name) {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(names) {
		return names, cells
	}
	return projectColumns(names, cells, keep)
}

func movePreTaxCostLast(names []string, cells [][]interface{}) ([]string, [][]interface{}) {
	idx := -1
	for i, name := range names {
		if name == "PreTaxCost" {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(names)-1 {
		return names, cells
	}
	order := make([]int, 0, len(names))
	for i := range names {
		if i != idx {
			order = append(order, i)
		}
	}
	order = append(order, idx)
	return projectColumns(names, cells, order)
}

func projectColumns(names []string, cells [][]interface{}, order []int) ([]string, [][]interface{}) {
	outNames := make([]string, len(order))
	for i, idx := range order {
		outNames[i] = names[idx]
	}
	outCells := make([][]interface{}, len(cells))
	for i, row := range cells {
		out := make([]interface{}, len(order))
		for j, idx := range order {
			if idx < len(row) {
				out[j] = row[idx]
			}
		}
		outCells[i] = out
	}
	return outNames, outCells
}

func dropRows(cells [][]interface{}, match func([]interface{}) bool) [][]interface{} {
	out := cells[:0]
	for _, row := range cells {
		if !match(row) {
			out = append(out, row)
		}
	}
	return out
}

// stringify renderiza uma célula como string; números inteiros do JSON
// (float64) não ganham casa decimal.
func stringify(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
