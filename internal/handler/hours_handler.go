package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/dto"
	"github.com/timetracking-api/internal/middleware"
	"github.com/timetracking-api/internal/report"
	"github.com/timetracking-api/internal/service"
)

type HoursHandler struct {
	hoursService service.HoursService
	validator    *validator.Validate
	logger       *slog.Logger
}

func NewHoursHandler(hoursService service.HoursService, logger *slog.Logger) *HoursHandler {
	return &HoursHandler{
		hoursService: hoursService,
		validator:    validator.New(),
		logger:       logger,
	}
}

func (h *HoursHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	var req dto.CreateHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	entry, err := h.hoursService.Create(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, toHoursResponse(entry))
}

func (h *HoursHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	filter := r.URL.Query().Get("filter")

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	entries, total, perChannel, err := h.hoursService.List(r.Context(), actor, filter, page)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := dto.ListHoursResponse{
		Entries:         make([]dto.HoursResponse, len(entries)),
		Page:            page,
		PageSize:        service.PageSize,
		Total:           total,
		Filter:          string(report.ParseFilter(filter)),
		HoursPerChannel: perChannel,
	}
	for i := range entries {
		resp.Entries[i] = toHoursResponse(&entries[i])
	}

	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *HoursHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	id, err := extractID(r, "/hours/")
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid entry id", err.Error())
		return
	}

	var req dto.UpdateHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	entry, err := h.hoursService.Update(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toHoursResponse(entry))
}

func (h *HoursHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	id, err := extractID(r, "/hours/")
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid entry id", err.Error())
		return
	}

	if err := h.hoursService.Delete(r.Context(), actor, id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toHoursResponse(entry *domain.LoggedHours) dto.HoursResponse {
	resp := dto.HoursResponse{
		ID:         entry.ID,
		Date:       entry.Date.Format("2006-01-02"),
		Hour:       entry.Hour,
		EmployeeID: entry.EmployeeID,
		CreatedAt:  entry.CreatedAt,
	}

	if entry.Employee != nil {
		resp.EmployeeEmail = entry.Employee.Email
	}
	if entry.SalesChannel != nil {
		resp.SalesChannel = entry.SalesChannel.Name
	}
	if entry.Department != nil {
		resp.Department = entry.Department.Name
	}

	return resp
}
