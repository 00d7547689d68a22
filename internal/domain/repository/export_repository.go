package repository

import (
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
)

// ExportRepository defines the interface for writing report files.
type ExportRepository interface {
	ExportToCSV(table *entity.ReportTable, reportName, outputDir string) (string, error)
	ExportToJSON(table *entity.ReportTable, reportName, outputDir string) (string, error)
	ExportToPDF(table *entity.ReportTable, reportName, outputDir string) (string, error)
}
