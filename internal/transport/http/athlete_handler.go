package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"athletepulse/internal/config"
	apierrors "athletepulse/internal/errors"
	"athletepulse/internal/exporter"
	"athletepulse/internal/middleware"
	"athletepulse/internal/services"
)

type athleteCtxKey struct{}

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// AthleteHandler serves the athlete selection endpoints
type AthleteHandler struct {
	service      DashboardServiceInterface
	exporter     ExporterInterface
	validator    *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAthleteHandler creates a new athlete handler
func NewAthleteHandler(service DashboardServiceInterface, exp ExporterInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AthleteHandler {
	return &AthleteHandler{
		service:      service,
		exporter:     exp,
		validator:    middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "athlete_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the athlete routes
func (h *AthleteHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListAthletes)
	r.Route("/{name}", func(r chi.Router) {
		r.Use(h.AthleteCtx)
		r.Get("/", h.GetAthlete)
		r.Get("/insights", h.GetInsights)
		r.Get("/monthly", h.GetMonthly)
		r.Get("/recent-games.csv", h.DownloadRecentGames)
		r.Get("/monthly.csv", h.DownloadMonthly)
		r.Get("/report.xlsx", h.DownloadReport)
	})

	return r
}

// AthleteCtx validates the {name} parameter and stores it in the context
func (h *AthleteHandler) AthleteCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "name")
		if unescaped, err := url.PathUnescape(raw); err == nil {
			raw = unescaped
		}
		name, ok := h.validator.ValidateAthleteName(w, r, raw)
		if !ok {
			return
		}
		ctx := context.WithValue(r.Context(), athleteCtxKey{}, name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func athleteFrom(r *http.Request) string {
	name, _ := r.Context().Value(athleteCtxKey{}).(string)
	return name
}

// ListAthletes handles GET /api/athletes
func (h *AthleteHandler) ListAthletes(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.Athletes(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   names,
		"count":  len(names),
	})
}

// GetAthlete handles GET /api/athletes/{name}
func (h *AthleteHandler) GetAthlete(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.OnAthleteSelected(r.Context(), services.SourceHTTP, athleteFrom(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
	})
}

// GetInsights handles GET /api/athletes/{name}/insights
func (h *AthleteHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.OnInsightsRequested(r.Context(), athleteFrom(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}

// GetMonthly handles GET /api/athletes/{name}/monthly?metrics=a,b
func (h *AthleteHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	metrics, ok := h.validator.ValidateMetrics(w, r, "metrics", h.service.Options().View.Metrics)
	if !ok {
		return
	}
	months, err := h.service.Monthly(r.Context(), athleteFrom(r), metrics)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"data":    months,
		"metrics": metrics,
	})
}

// DownloadRecentGames handles GET /api/athletes/{name}/recent-games.csv
func (h *AthleteHandler) DownloadRecentGames(w http.ResponseWriter, r *http.Request) {
	name := athleteFrom(r)
	view, err := h.service.OnAthleteSelected(r.Context(), services.SourceHTTP, name)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	var buf bytes.Buffer
	if err := h.exporter.WriteRecentGamesCSV(&buf, view.RecentGames); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.serveDownload(w, r, config.SafeFileName(name)+"_recent_games.csv", contentTypeCSV, buf.Bytes())
}

// DownloadMonthly handles GET /api/athletes/{name}/monthly.csv
func (h *AthleteHandler) DownloadMonthly(w http.ResponseWriter, r *http.Request) {
	name := athleteFrom(r)
	metrics, ok := h.validator.ValidateMetrics(w, r, "metrics", h.service.Options().View.Metrics)
	if !ok {
		return
	}
	months, err := h.service.Monthly(r.Context(), name, metrics)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	var buf bytes.Buffer
	if err := h.exporter.WriteMonthlyCSV(&buf, months); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.serveDownload(w, r, config.SafeFileName(name)+"_monthly.csv", contentTypeCSV, buf.Bytes())
}

// DownloadReport handles GET /api/athletes/{name}/report.xlsx
func (h *AthleteHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	name := athleteFrom(r)
	view, err := h.service.OnAthleteSelected(r.Context(), services.SourceHTTP, name)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	report, err := h.service.OnInsightsRequested(r.Context(), name)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	var buf bytes.Buffer
	if err := h.exporter.WriteAthleteReport(&buf, view, report); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.serveDownload(w, r, exporter.ReportFileName(name), contentTypeXLSX, buf.Bytes())
}

// serveDownload writes a fully rendered file, so a failed export never leaves
// a partial body behind a 200.
func (h *AthleteHandler) serveDownload(w http.ResponseWriter, r *http.Request, filename, contentType string, body []byte) {
	serveFile(w, filename, contentType, body)
	h.logger.InfoContext(r.Context(), "download served",
		slog.String("file", filename),
		slog.Int("bytes", len(body)))
}

func serveFile(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
