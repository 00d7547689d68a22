package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/domain/entity"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/types"
)

// categoryView agrupa relatórios de uma categoria para o índice.
type categoryView struct {
	Name    string
	Reports []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	categorized, err := s.useCase.ListReports()
	if err != nil {
		s.logger.Error("failed to list reports", zap.Error(err))
		http.Error(w, "failed to list reports", http.StatusInternalServerError)
		return
	}

	categories := make([]categoryView, 0, len(entity.ReportCategories))
	for _, name := range entity.ReportCategories {
		categories = append(categories, categoryView{Name: name, Reports: categorized[name]})
	}

	s.render(w, "index.html.tmpl", map[string]interface{}{
		"Categories":      categories,
		"ReservationCost": s.cfg.ReservationCost,
	})
}

// handleReport renderiza a tabela normalizada de um relatório como HTML.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(chi.URLParam(r, "name"), ".json")

	table, err := s.useCase.FetchTable(r.Context(), name)
	if err != nil {
		s.reportError(w, name, err)
		return
	}

	lastUpdate := time.Now().In(s.location).Format("January 02, 2006 15:04:05")
	s.render(w, "result.html.tmpl", map[string]interface{}{
		"Name":       name,
		"Headers":    table.DisplayHeaders(),
		"Rows":       table.Rows,
		"LastUpdate": lastUpdate,
	})
}

// handleRawReport devolve a resposta estruturada sem normalização.
func (s *Server) handleRawReport(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(chi.URLParam(r, "name"), ".json")

	raw, err := s.useCase.FetchRaw(r.Context(), name)
	if err != nil {
		s.reportError(w, name, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	raw, err := s.useCase.FetchForecast(r.Context())
	if err != nil {
		s.reportError(w, "forecast", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

func (s *Server) handleConsumption(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.FetchConsumption {
		s.writeJSON(w, http.StatusOK, map[string]string{"message": "macc_status: fetch_data"})
		return
	}

	lots, err := s.useCase.FetchConsumption(r.Context())
	if err != nil {
		s.writeJSON(w, types.StatusOf(err), map[string]string{"error": "Failed to fetch consumption data"})
		return
	}
	if lots == nil {
		lots = []json.RawMessage{}
	}
	s.writeJSON(w, http.StatusOK, lots)
}

// reportError converte um erro do pipeline na resposta HTTP adequada:
// 404 para relatório desconhecido, status do upstream nos demais casos.
func (s *Server) reportError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, types.ErrReportNotFound) {
		http.Error(w, "404 page not found", http.StatusNotFound)
		return
	}
	s.logger.Error("report request failed", zap.String("report", name), zap.Error(err))
	s.writeJSON(w, types.StatusOf(err), map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}
