package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ecdash/internal/errors"
	"ecdash/internal/exporter"
	"ecdash/internal/services"
)

// DataHandler serves the dashboard's data endpoints.
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler.
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/environment", h.GetEnvironment)
	r.Get("/environment/summary", h.GetEnvironmentSummary)
	r.Get("/growth", h.GetGrowth)
	r.Get("/summary", h.GetSummary)
	r.Get("/overview", h.GetOverview)
	r.Get("/schools", h.GetSchools)

	r.Get("/export/environment.csv", h.ExportEnvironmentCSV)
	r.Get("/export/growth.xlsx", h.ExportGrowthXLSX)

	r.Post("/refresh", h.Refresh)

	return r
}

// schoolFilter reads the optional ?school= query parameter.
func schoolFilter(r *http.Request) string {
	return r.URL.Query().Get("school")
}

// GetEnvironment handles GET /api/environment.
func (h *DataHandler) GetEnvironment(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Environment(r.Context(), schoolFilter(r))
	if err != nil {
		h.handleError(w, r, err, schoolFilter(r))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":          "success",
		"data":            table.Records,
		"count":           len(table.Records),
		"missing_schools": table.MissingSchools,
	})
}

// GetEnvironmentSummary handles GET /api/environment/summary.
func (h *DataHandler) GetEnvironmentSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.EnvironmentSummary(r.Context())
	if err != nil {
		h.handleError(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summaries,
		"count":  len(summaries),
	})
}

// GetGrowth handles GET /api/growth.
func (h *DataHandler) GetGrowth(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Growth(r.Context(), schoolFilter(r))
	if err != nil {
		h.handleError(w, r, err, schoolFilter(r))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":        "success",
		"data":          table.Records,
		"count":         len(table.Records),
		"extra_columns": table.ExtraColumns,
	})
}

// GetSummary handles GET /api/summary.
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Summary(r.Context())
	if err != nil {
		h.handleError(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":      "success",
		"data":        report.Summaries,
		"best_school": report.BestSchool,
	})
}

// GetOverview handles GET /api/overview.
func (h *DataHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.handleError(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   overview,
	})
}

// GetSchools handles GET /api/schools.
func (h *DataHandler) GetSchools(w http.ResponseWriter, r *http.Request) {
	schools := h.service.Schools()
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   schools,
		"count":  len(schools),
	})
}

// ExportEnvironmentCSV handles GET /api/export/environment.csv. The export
// carries a UTF-8 BOM so spreadsheet tools decode the Korean school names.
func (h *DataHandler) ExportEnvironmentCSV(w http.ResponseWriter, r *http.Request) {
	filter := schoolFilter(r)
	table, err := h.service.Environment(r.Context(), filter)
	if err != nil {
		h.handleError(w, r, err, filter)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", exportDisposition("env_data", "csv", filter))
	if err := exporter.WriteEnvironmentCSV(w, table.Records); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream CSV export",
			slog.String("error", err.Error()))
	}
}

// ExportGrowthXLSX handles GET /api/export/growth.xlsx.
func (h *DataHandler) ExportGrowthXLSX(w http.ResponseWriter, r *http.Request) {
	filter := schoolFilter(r)
	table, err := h.service.Growth(r.Context(), filter)
	if err != nil {
		h.handleError(w, r, err, filter)
		return
	}

	data, err := exporter.BuildGrowthXLSX(table.Records, table.ExtraColumns)
	if err != nil {
		h.handleError(w, r, err, filter)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", exportDisposition("growth_data", "xlsx", filter))
	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream XLSX export",
			slog.String("error", err.Error()))
	}
}

// Refresh handles POST /api/refresh: drop the cached dataset and reload.
func (h *DataHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.Refresh(r.Context())
	if err != nil {
		h.handleError(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":           "success",
		"environment_rows": len(ds.Environment),
		"growth_rows":      len(ds.Growth),
		"missing_schools":  ds.MissingSchools,
		"loaded_at":        ds.LoadedAt,
	})
}

func (h *DataHandler) handleError(w http.ResponseWriter, r *http.Request, err error, school string) {
	if errors.Is(err, services.ErrUnknownSchool) {
		h.errorHandler.HandleError(w, r, apierrors.UnknownSchoolError(school))
		return
	}
	h.errorHandler.HandleError(w, r, err)
}

// exportDisposition builds a Content-Disposition header; the school filter
// becomes part of the filename like the original dashboard's downloads.
func exportDisposition(base, ext, school string) string {
	name := base
	if school != "" {
		name = fmt.Sprintf("%s_%s", url.PathEscape(school), base)
	}
	return fmt.Sprintf(`attachment; filename="%s.%s"`, name, ext)
}
