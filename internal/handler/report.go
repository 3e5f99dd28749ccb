package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/breachwatch/breachwatch/internal/handler/dto"
	"github.com/breachwatch/breachwatch/internal/service"
)

// ReportHandler handles blog post generation.
type ReportHandler struct {
	svc    *service.ReportService
	logger *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		svc:    svc,
		logger: logger,
	}
}

// Generate handles POST /api/v1/generate-blog.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.Generate(r.Context(), req.BreachID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
		h.logger.Info("post_generated",
			"breach_id", req.BreachID,
			"slug", result.Post.Slug,
		)
	}

	post := dto.ToPostResponse(result.Post)
	writeJSON(w, status, dto.GenerateBlogResponse{
		Success: true,
		Slug:    result.Post.Slug,
		Created: result.Created,
		Post:    &post,
	})
}

func (h *ReportHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingBreachID):
		writeError(w, http.StatusBadRequest, "breachId is required")
	case errors.Is(err, service.ErrBreachNotFound):
		writeError(w, http.StatusNotFound, "Breach not found")
	case errors.Is(err, service.ErrGenerationFailed):
		h.logger.Error("generation_failed", "error", err)
		writeError(w, http.StatusBadGateway, "Post generation failed")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
