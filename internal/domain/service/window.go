// Package service holds the pure domain logic of the dashboard: time-window
// resolution, payload building and table normalization.
package service

import (
	"strings"
	"time"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
)

const (
	// timeLayout é o formato dos limites de janela enviados à API.
	timeLayout = "2006-01-02T15:04:05Z"
	// timeLayoutMillis is used for the forecast upper bound, which keeps
	// millisecond precision.
	timeLayoutMillis = "2006-01-02T15:04:05.000Z"
)

// PeriodForReport derives the reporting period from a report name, mirroring
// the substring matching applied to definition file names.
func PeriodForReport(name string) entity.Period {
	switch {
	case strings.Contains(name, "yesterday"):
		return entity.PeriodYesterday
	case strings.Contains(name, "ytd"):
		return entity.PeriodYearToDate
	case strings.Contains(name, "forecast"):
		return entity.PeriodForecast
	case strings.Contains(name, "mtd"):
		return entity.PeriodMonthToDate
	default:
		return entity.PeriodNone
	}
}

// ResolveWindow computes the absolute UTC bounds for a period relative to the
// reference instant. PeriodNone yields an empty window (template untouched).
func ResolveWindow(period entity.Period, now time.Time) entity.TimeWindow {
	now = now.UTC()

	switch period {
	case entity.PeriodYesterday:
		yesterday := now.AddDate(0, 0, -1)
		start := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC)
		end := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 23, 59, 59, 999999000, time.UTC)
		return entity.TimeWindow{
			From: start.Format(timeLayout),
			To:   end.Format(timeLayout),
		}

	case entity.PeriodYearToDate:
		// Somente o limite superior é fixado em "agora"; o inferior fica
		// a cargo do template.
		return entity.TimeWindow{To: now.Format(timeLayout)}

	case entity.PeriodMonthToDate:
		return entity.TimeWindow{
			From: startOfMonth(now).Format(timeLayout),
			To:   now.Format(timeLayout),
		}

	case entity.PeriodForecast:
		start := startOfMonth(now)
		return entity.TimeWindow{
			From: start.Format(timeLayout),
			To:   endOfMonth(start).Format(timeLayoutMillis),
		}

	default:
		return entity.TimeWindow{}
	}
}

func startOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// endOfMonth retorna o último instante do mês: início do mês seguinte menos
// 1µs. AddDate trata a virada dezembro→janeiro avançando o ano.
func endOfMonth(startOfMonth time.Time) time.Time {
	nextMonth := startOfMonth.AddDate(0, 1, 0)
	return nextMonth.Add(-time.Microsecond)
}
