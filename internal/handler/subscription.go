package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/breachwatch/breachwatch/internal/handler/dto"
	"github.com/breachwatch/breachwatch/internal/model"
	"github.com/breachwatch/breachwatch/internal/service"
)

// SubscriptionHandler handles alert subscriptions.
type SubscriptionHandler struct {
	svc    *service.SubscriptionService
	logger *slog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(svc *service.SubscriptionService, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		svc:    svc,
		logger: logger,
	}
}

// Subscribe handles POST /api/v1/subscribe. The optional action field
// selects between subscribing (default) and unsubscribing.
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Action == "unsubscribe" {
		if err := h.svc.Unsubscribe(r.Context(), req.Email); err != nil {
			h.handleServiceError(w, err)
			return
		}
		h.logger.Info("subscription_event", "outcome", "unsubscribed")
		writeJSON(w, http.StatusOK, dto.SubscribeResponse{
			Success: true,
			Message: "You have been unsubscribed from breach alerts",
		})
		return
	}

	outcome, err := h.svc.Subscribe(r.Context(), req.Email)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("subscription_event", "outcome", string(outcome))

	resp := dto.SubscribeResponse{Success: true}
	switch outcome {
	case model.SubscribeOutcomeAlready:
		resp.Message = "This email is already subscribed"
		resp.AlreadySubscribed = true
	case model.SubscribeOutcomeReactivated:
		resp.Message = "Your subscription has been reactivated"
	default:
		resp.Message = "You are now subscribed to breach alerts"
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *SubscriptionHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "A valid email address is required")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
