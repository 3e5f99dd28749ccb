package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/breachwatch/breachwatch/internal/handler/dto"
	"github.com/breachwatch/breachwatch/internal/service"
)

// BlogHandler serves the public read surface.
type BlogHandler struct {
	svc    *service.BlogService
	logger *slog.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(svc *service.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{
		svc:    svc,
		logger: logger,
	}
}

// ListBreaches handles GET /api/v1/breaches.
func (h *BlogHandler) ListBreaches(w http.ResponseWriter, r *http.Request) {
	breaches, err := h.svc.ListBreaches(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	summaries := dto.ToBreachSummaries(breaches)
	writeJSON(w, http.StatusOK, dto.BreachListResponse{
		Success:  true,
		Breaches: summaries,
		Total:    len(summaries),
	})
}

// ListPosts handles GET /api/v1/posts.
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListPosts(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	out := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, dto.ToPostResponse(p))
	}

	writeJSON(w, http.StatusOK, dto.PostListResponse{
		Success: true,
		Posts:   out,
		Total:   len(out),
	})
}

// GetPost handles GET /api/v1/posts/{slug}.
func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.svc.GetPostBySlug(r.Context(), slug)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostDetailResponse{
		Success: true,
		Post:    dto.ToPostResponse(post),
	})
}

func (h *BlogHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "Post not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
