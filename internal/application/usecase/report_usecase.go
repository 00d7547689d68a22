package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/repository"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/service"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/retry"
)

// ReportUseCase orquestra o pipeline de um relatório: resolução da janela de
// tempo, montagem do payload, tentativas contra a API e normalização.
type ReportUseCase struct {
	costRepo   repository.CostRepository
	defsRepo   repository.ReportDefinitionRepository
	exportRepo repository.ExportRepository
	policy     retry.Policy
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportUseCase creates a new report use case.
func NewReportUseCase(
	costRepo repository.CostRepository,
	defsRepo repository.ReportDefinitionRepository,
	exportRepo repository.ExportRepository,
	policy retry.Policy,
	logger *zap.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		costRepo:   costRepo,
		defsRepo:   defsRepo,
		exportRepo: exportRepo,
		policy:     policy,
		logger:     logger,
		now:        time.Now,
	}
}

// buildPayload carrega o template do relatório e injeta a janela resolvida
// para o instante atual.
func (uc *ReportUseCase) buildPayload(name string) (*entity.QueryTemplate, error) {
	template, err := uc.defsRepo.Load(name)
	if err != nil {
		return nil, err
	}
	window := service.ResolveWindow(service.PeriodForReport(name), uc.now())
	return service.BuildPayload(template, window), nil
}

// FetchTable returns the normalized, display-ready table for a report.
func (uc *ReportUseCase) FetchTable(ctx context.Context, name string) (*entity.ReportTable, error) {
	result, err := uc.fetchResult(ctx, name)
	if err != nil {
		return nil, err
	}
	return service.NormalizeTable(result.Columns, result.Rows), nil
}

// FetchRaw returns the raw structured response for a report; the JSON API
// path skips normalization.
func (uc *ReportUseCase) FetchRaw(ctx context.Context, name string) ([]byte, error) {
	result, err := uc.fetchResult(ctx, name)
	if err != nil {
		return nil, err
	}
	return result.Raw, nil
}

func (uc *ReportUseCase) fetchResult(ctx context.Context, name string) (*entity.QueryResult, error) {
	payload, err := uc.buildPayload(name)
	if err != nil {
		return nil, err
	}

	var result *entity.QueryResult
	err = retry.Run(ctx, uc.policy, uc.logger.With(zap.String("report", name)), func() error {
		var opErr error
		result, opErr = uc.costRepo.Query(ctx, payload)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FetchForecast returns the raw forecast response for the current month.
func (uc *ReportUseCase) FetchForecast(ctx context.Context) ([]byte, error) {
	template, err := uc.defsRepo.Load("forecast")
	if err != nil {
		return nil, err
	}
	window := service.ResolveWindow(entity.PeriodForecast, uc.now())
	payload := service.BuildPayload(template, window)

	var result *entity.QueryResult
	err = retry.Run(ctx, uc.policy, uc.logger.With(zap.String("report", "forecast")), func() error {
		var opErr error
		result, opErr = uc.costRepo.Forecast(ctx, payload)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return result.Raw, nil
}

// FetchConsumption returns the consumption-commitment lots.
func (uc *ReportUseCase) FetchConsumption(ctx context.Context) ([]json.RawMessage, error) {
	var lots []json.RawMessage
	err := retry.Run(ctx, uc.policy, uc.logger.With(zap.String("report", "consumption")), func() error {
		var opErr error
		lots, opErr = uc.costRepo.ConsumptionLots(ctx)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return lots, nil
}

// ListReports returns the available report names grouped by category.
func (uc *ReportUseCase) ListReports() (entity.CategorizedReports, error) {
	return uc.defsRepo.List()
}

// ExportTable busca um relatório e o exporta nos formatos pedidos, retornando
// os caminhos dos arquivos gerados.
func (uc *ReportUseCase) ExportTable(ctx context.Context, name string, formats []string, outputDir string) ([]string, error) {
	table, err := uc.FetchTable(ctx, name)
	if err != nil {
		return nil, err
	}
	return uc.Export(table, name, formats, outputDir)
}

// Export grava uma tabela já buscada nos formatos pedidos.
func (uc *ReportUseCase) Export(table *entity.ReportTable, name string, formats []string, outputDir string) ([]string, error) {
	var err error
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		var path string
		switch format {
		case "csv":
			path, err = uc.exportRepo.ExportToCSV(table, name, outputDir)
		case "json":
			path, err = uc.exportRepo.ExportToJSON(table, name, outputDir)
		case "pdf":
			path, err = uc.exportRepo.ExportToPDF(table, name, outputDir)
		default:
			return nil, fmt.Errorf("unsupported report type: %s", format)
		}
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
