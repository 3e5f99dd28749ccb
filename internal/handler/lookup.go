package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/breachwatch/breachwatch/internal/handler/dto"
	"github.com/breachwatch/breachwatch/internal/service"
)

// LookupHandler handles the email breach lookup.
type LookupHandler struct {
	svc    *service.LookupService
	logger *slog.Logger
}

// NewLookupHandler creates a new LookupHandler.
func NewLookupHandler(svc *service.LookupService, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{
		svc:    svc,
		logger: logger,
	}
}

// CheckEmail handles POST /api/v1/check-email.
func (h *LookupHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	matches, err := h.svc.CheckEmail(r.Context(), req.Email)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	breaches := make([]dto.BreachSummary, 0, len(matches))
	for _, m := range matches {
		breaches = append(breaches, dto.ToBreachSummary(m.Breach, m.BlogSlug))
	}

	// The exact email never appears in logs, only the match count.
	h.logger.Info("email_checked", "matches", len(breaches))

	writeJSON(w, http.StatusOK, dto.CheckEmailResponse{
		Success:  true,
		Breached: len(breaches) > 0,
		Breaches: breaches,
		Total:    len(breaches),
	})
}

func (h *LookupHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "A valid email address is required")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
