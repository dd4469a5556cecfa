package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/overmindlabs/overmind/internal/analysis"
	"github.com/overmindlabs/overmind/internal/repository"
)

// SettingsHandler serves the singleton application settings.
type SettingsHandler struct {
	repo repository.SettingsRepository
	log  *slog.Logger
}

func NewSettingsHandler(repo repository.SettingsRepository, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		repo: repo,
		log:  logger.With("handler", "settings"),
	}
}

// Get returns the settings row, creating it with the default highlight
// context on first read.
// GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.EnsureSettings(r.Context(), analysis.DefaultHighlightContext)
	if err != nil {
		h.log.ErrorContext(r.Context(), "fetch settings", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to fetch settings")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsJSON(s))
}

type saveSettingsRequest struct {
	HighlightContext string `json:"highlightContext"`
}

// Save replaces the highlight context.
// POST /api/settings
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.HighlightContext) == "" {
		writeError(w, http.StatusBadRequest, "highlightContext is required")
		return
	}

	s, err := h.repo.SaveSettings(r.Context(), req.HighlightContext)
	if err != nil {
		h.log.ErrorContext(r.Context(), "save settings", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsJSON(s))
}
