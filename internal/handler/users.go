package handler

import (
	"log/slog"
	"net/http"

	"github.com/diario/diario/internal/handler/dto"
	"github.com/diario/diario/internal/service"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	svc    *service.JournalService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.JournalService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	user, err := h.svc.CreateUser(r.Context(), service.CreateUserInput{
		Email: req.Email,
		Name:  req.Name,
		Bio:   req.Bio,
		Tags:  req.Tags,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_created",
		"user_id", user.ID,
		"tag_count", len(user.Tags),
	)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}
