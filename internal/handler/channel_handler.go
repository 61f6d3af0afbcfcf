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

type ChannelHandler struct {
	channelService service.ChannelService
	validator      *validator.Validate
	logger         *slog.Logger
}

func NewChannelHandler(channelService service.ChannelService, logger *slog.Logger) *ChannelHandler {
	return &ChannelHandler{
		channelService: channelService,
		validator:      validator.New(),
		logger:         logger,
	}
}

func (h *ChannelHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	var req dto.CreateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	channel, err := h.channelService.Create(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, toChannelResponse(channel))
}

func (h *ChannelHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PersonFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, http.StatusUnauthorized, "authorization required", "")
		return
	}

	channels, err := h.channelService.List(r.Context(), actor)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.ChannelResponse, len(channels))
	for i := range channels {
		resp[i] = toChannelResponse(&channels[i])
	}

	respondJSON(h.logger, w, http.StatusOK, resp)
}

func toChannelResponse(channel *domain.SalesChannel) dto.ChannelResponse {
	return dto.ChannelResponse{
		ID:   channel.ID,
		Name: channel.Name,
	}
}
