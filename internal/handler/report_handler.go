package handler

import (
	"log/slog"
	"net/http"

	"github.com/timetracking-api/internal/middleware"
	"github.com/timetracking-api/internal/service"
)

type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

func NewReportHandler(reportService service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

func (h *ReportHandler) Channels(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	resp, err := h.reportService.Channels(r.Context(), actor, r.URL.Query().Get("filter"))
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *ReportHandler) Departments(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	resp, err := h.reportService.Departments(r.Context(), actor, r.URL.Query().Get("filter"))
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *ReportHandler) Employees(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	resp, err := h.reportService.Employees(r.Context(), actor, r.URL.Query().Get("filter"))
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, resp)
}
