package handler

import (
	"log/slog"
	"net/http"

	"github.com/diario/diario/internal/handler/dto"
	"github.com/diario/diario/internal/service"
)

// AutocompleteHandler drafts entry text for the editor.
type AutocompleteHandler struct {
	svc    *service.JournalService
	logger *slog.Logger
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(svc *service.JournalService, logger *slog.Logger) *AutocompleteHandler {
	return &AutocompleteHandler{
		svc:    svc,
		logger: logger,
	}
}

// Suggest handles POST /api/autocomplete.
func (h *AutocompleteHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req dto.AutocompleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	suggestion, err := h.svc.Suggest(r.Context(), service.SuggestInput{
		Title:  req.Title,
		UserID: req.UserID,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AutocompleteResponse{Suggestion: suggestion})
}
