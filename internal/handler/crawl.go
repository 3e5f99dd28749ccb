package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/breachwatch/breachwatch/internal/handler/dto"
	"github.com/breachwatch/breachwatch/internal/service"
)

// CrawlHandler triggers breach discovery crawls.
type CrawlHandler struct {
	svc    *service.CrawlService
	logger *slog.Logger
}

// NewCrawlHandler creates a new CrawlHandler.
func NewCrawlHandler(svc *service.CrawlService, logger *slog.Logger) *CrawlHandler {
	return &CrawlHandler{
		svc:    svc,
		logger: logger,
	}
}

// Crawl handles POST /api/v1/crawl-breaches. The body is optional; an
// empty body runs the default query.
func (h *CrawlHandler) Crawl(w http.ResponseWriter, r *http.Request) {
	var req dto.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inserted, err := h.svc.Crawl(r.Context(), req.Query)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CrawlResponse{
		Success:    true,
		Discovered: len(inserted),
		Breaches:   dto.ToBreachSummaries(inserted),
	})
}

func (h *CrawlHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCrawlNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "Breach crawling is not configured")
	case errors.Is(err, service.ErrGenerationFailed):
		h.logger.Error("crawl_extraction_failed", "error", err)
		writeError(w, http.StatusBadGateway, "Breach extraction failed")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
