package reportdef

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/repository"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/types"
)

// ReportDefinitionRepositoryImpl serve os arquivos JSON de definição de
// relatório de um diretório (por padrão "body").
type ReportDefinitionRepositoryImpl struct {
	dir string
}

// NewReportDefinitionRepository cria uma nova implementação do ReportDefinitionRepository.
func NewReportDefinitionRepository(dir string) repository.ReportDefinitionRepository {
	return &ReportDefinitionRepositoryImpl{dir: dir}
}

// Load reads and parses the definition for a report name. The ".json" suffix
// is optional; path separators in the name are rejected via filepath.Base.
func (r *ReportDefinitionRepositoryImpl) Load(name string) (*entity.QueryTemplate, error) {
	name = strings.TrimSuffix(name, ".json")
	name = filepath.Base(name)

	data, err := os.ReadFile(filepath.Join(r.dir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrReportNotFound, name)
		}
		return nil, fmt.Errorf("error reading report definition %s: %w", name, err)
	}

	var template entity.QueryTemplate
	if err := json.Unmarshal(data, &template); err != nil {
		return nil, fmt.Errorf("error parsing report definition %s: %w", name, err)
	}
	return &template, nil
}

// List retorna os nomes de relatório disponíveis, agrupados por categoria.
func (r *ReportDefinitionRepositoryImpl) List() (entity.CategorizedReports, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("error listing report definitions: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)

	return entity.CategorizeReports(names), nil
}
