package repository

import (
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
)

// ReportDefinitionRepository defines the interface for the on-disk JSON query
// definitions.
type ReportDefinitionRepository interface {
	// Load returns the template for a report name; the ".json" suffix is
	// optional. Unknown names yield types.ErrReportNotFound.
	Load(name string) (*entity.QueryTemplate, error)

	// List returns the available report names grouped by category.
	List() (entity.CategorizedReports, error)
}
