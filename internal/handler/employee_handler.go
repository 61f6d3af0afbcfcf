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

type EmployeeHandler struct {
	personService service.PersonService
	validator     *validator.Validate
	logger        *slog.Logger
}

func NewEmployeeHandler(personService service.PersonService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		personService: personService,
		validator:     validator.New(),
		logger:        logger,
	}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	var req dto.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	person, err := h.personService.Create(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, toEmployeeResponse(person))
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	persons, err := h.personService.List(r.Context(), actor)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.EmployeeResponse, len(persons))
	for i := range persons {
		resp[i] = toEmployeeResponse(&persons[i])
	}

	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	id, err := extractID(r, "/employees/")
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid employee id", err.Error())
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	person, err := h.personService.Update(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toEmployeeResponse(person))
}

func (h *EmployeeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	id, err := extractID(r, "/employees/")
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid employee id", err.Error())
		return
	}

	if err := h.personService.Deactivate(r.Context(), actor, id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toEmployeeResponse(p *domain.Person) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		ID:           p.ID,
		Username:     p.Username,
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Active:       p.Active,
		DepartmentID: p.DepartmentID,
		Groups:       make([]string, len(p.Groups)),
		CreatedAt:    p.CreatedAt,
	}
	for i, g := range p.Groups {
		resp.Groups[i] = g.Name
	}
	return resp
}
