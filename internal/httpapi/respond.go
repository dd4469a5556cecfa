package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/overmindlabs/overmind/internal/repository"
)

// meetingJSON is the wire shape of a meeting record. Optional columns
// render as JSON null when unset.
type meetingJSON struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone"`
	Type       *string   `json:"type"`
	Language   string    `json:"language"`
	Duration   *int      `json:"duration"`
	AudioPath  *string   `json:"audioPath"`
	Transcript *string   `json:"transcript"`
	Recap      *string   `json:"recap"`
	Highlights *string   `json:"highlights"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toMeetingJSON(m *repository.Meeting) meetingJSON {
	return meetingJSON{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Type:       m.Type,
		Language:   m.Language,
		Duration:   m.Duration,
		AudioPath:  m.AudioKey,
		Transcript: m.Transcript,
		Recap:      m.Recap,
		Highlights: m.Highlights,
		Status:     string(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

type settingsJSON struct {
	ID               string    `json:"id"`
	HighlightContext string    `json:"highlightContext"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toSettingsJSON(s *repository.AppSettings) settingsJSON {
	return settingsJSON{
		ID:               s.ID,
		HighlightContext: s.HighlightContext,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
