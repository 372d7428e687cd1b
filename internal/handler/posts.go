package handler

import (
	"log/slog"
	"net/http"

	"github.com/diario/diario/internal/handler/dto"
	"github.com/diario/diario/internal/service"
)

// PostHandler handles HTTP requests for journal posts.
type PostHandler struct {
	svc    *service.JournalService
	logger *slog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc *service.JournalService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListPosts(r.Context(), service.ListPostsInput{
		AuthorID: r.URL.Query().Get("authorId"),
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPostListResponse(posts))
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	post, err := h.svc.CreatePost(r.Context(), service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		UserID:  req.UserID,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("post_created",
		"post_id", post.ID,
		"author_id", post.AuthorID,
	)

	writeJSON(w, http.StatusCreated, dto.ToPostResponse(post))
}
