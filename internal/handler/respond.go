package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/dto"
)

func respondJSON(logger *slog.Logger, w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func respondError(logger *slog.Logger, w http.ResponseWriter, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode error response", slog.Any("error", err))
	}
}

// handleServiceError отображает бизнес-ошибки на HTTP статусы
func handleServiceError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPersonNotFound):
		respondError(logger, w, http.StatusNotFound, "person not found", "")
	case errors.Is(err, domain.ErrDepartmentNotFound):
		respondError(logger, w, http.StatusNotFound, "department not found", "")
	case errors.Is(err, domain.ErrChannelNotFound):
		respondError(logger, w, http.StatusNotFound, "sales channel not found", "")
	case errors.Is(err, domain.ErrHoursNotFound):
		respondError(logger, w, http.StatusNotFound, "logged hours entry not found", "")
	case errors.Is(err, domain.ErrDuplicateEmail):
		respondError(logger, w, http.StatusConflict, "person with this email already exists", "")
	case errors.Is(err, domain.ErrDuplicateDepartmentName):
		respondError(logger, w, http.StatusConflict, "department with this name already exists", "")
	case errors.Is(err, domain.ErrDuplicateChannelName):
		respondError(logger, w, http.StatusConflict, "sales channel with this name already exists", "")
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(logger, w, http.StatusUnauthorized, "invalid email or password", "")
	case errors.Is(err, domain.ErrPersonInactive):
		respondError(logger, w, http.StatusUnauthorized, "account is deactivated", "")
	case errors.Is(err, domain.ErrForbidden):
		respondError(logger, w, http.StatusForbidden, "operation not allowed for this role", "")
	case errors.Is(err, domain.ErrHourOutOfRange):
		respondError(logger, w, http.StatusBadRequest, "hour must be between 0.25 and 8 inclusive", "")
	case errors.Is(err, domain.ErrDateInFuture):
		respondError(logger, w, http.StatusBadRequest, "date must not be in the future", "")
	case errors.Is(err, domain.ErrDateTooOld):
		respondError(logger, w, http.StatusBadRequest, "date must be within the last 30 days", "")
	case errors.Is(err, domain.ErrDepartmentRequired):
		respondError(logger, w, http.StatusBadRequest, "department is required for logging hours", "")
	case errors.Is(err, domain.ErrGroupNotFound):
		respondError(logger, w, http.StatusBadRequest, "unknown role group", "")
	default:
		logger.Error("internal error", slog.Any("error", err))
		respondError(logger, w, http.StatusInternalServerError, "internal server error", "")
	}
}

// extractID извлекает числовой идентификатор из пути вида /prefix/{id}
func extractID(r *http.Request, prefix string) (int64, error) {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	path = strings.Trim(path, "/")

	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		return 0, errors.New("id is required")
	}

	return strconv.ParseInt(parts[0], 10, 64)
}
