package entity

// Period identifies a named reporting window.
type Period string

const (
	// PeriodNone deixa o timePeriod do template intocado (relatórios daily/last).
	PeriodNone Period = ""
	// PeriodYesterday covers the full previous calendar day.
	PeriodYesterday Period = "yesterday"
	// PeriodMonthToDate runs from the first of the current month until now.
	PeriodMonthToDate Period = "mtd"
	// PeriodYearToDate only pins the upper bound to now; the lower bound
	// stays whatever the template provides.
	PeriodYearToDate Period = "ytd"
	// PeriodForecast covers the whole current calendar month.
	PeriodForecast Period = "forecast"
)

// TimeWindow holds the resolved, already-formatted UTC bounds for a period.
// From is empty for year-to-date, where the template keeps its own lower bound.
type TimeWindow struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
}
