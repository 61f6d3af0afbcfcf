package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/dto"
	"github.com/timetracking-api/internal/middleware"
	"github.com/timetracking-api/internal/service"
)

type DepartmentHandler struct {
	deptService service.DepartmentService
	validator   *validator.Validate
	logger      *slog.Logger
}

func NewDepartmentHandler(deptService service.DepartmentService, logger *slog.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		deptService: deptService,
		validator:   validator.New(),
		logger:      logger,
	}
}

func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	var req dto.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	dept, err := h.deptService.Create(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, toDepartmentResponse(dept))
}

func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	departments, err := h.deptService.List(r.Context(), actor)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.DepartmentResponse, len(departments))
	for i := range departments {
		resp[i] = toDepartmentResponse(&departments[i])
	}

	respondJSON(h.logger, w, http.StatusOK, resp)
}

func toDepartmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:        dept.ID,
		Name:      dept.Name,
		ManagerID: dept.ManagerID,
		CreatedAt: dept.CreatedAt,
	}
}
