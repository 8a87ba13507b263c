package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"athletepulse/internal/config"
	apierrors "athletepulse/internal/errors"
)

// DatasetHandler serves the dataset level endpoints
type DatasetHandler struct {
	service      DashboardServiceInterface
	exporter     ExporterInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DashboardServiceInterface, exp ExporterInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		service:      service,
		exporter:     exp,
		logger:       logger.With(slog.String("component", "dataset_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes, mounted at /api
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/dataset", h.GetReport)
	r.Post("/reload", h.Reload)
	r.Get("/export/filtered.csv", h.ExportFiltered)
	return r
}

// GetReport handles GET /api/dataset
func (h *DatasetHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}

// Reload handles POST /api/reload
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Reload(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "reload failed", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			apierrors.ErrReloadFailed.StatusCode,
			apierrors.ErrReloadFailed.ErrorCode,
			apierrors.ErrReloadFailed.Message,
			err.Error(),
		))
		return
	}
	h.logger.InfoContext(r.Context(), "dataset reloaded",
		slog.Int("athletes", report.Athletes),
		slog.Int("filtered_rows", report.Filtered))
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}

// ExportFiltered handles GET /api/export/filtered.csv
func (h *DatasetHandler) ExportFiltered(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.Dataset()
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	var buf bytes.Buffer
	if err := h.exporter.WriteFilteredCSV(&buf, ds); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	serveFile(w, config.FilteredExportName, contentTypeCSV, buf.Bytes())
}
