package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/overmindlabs/overmind/internal/meeting"
	"github.com/overmindlabs/overmind/internal/repository"
)

// MeetingHandler serves the meeting CRUD endpoints.
type MeetingHandler struct {
	pipeline *meeting.Pipeline
	log      *slog.Logger
}

func NewMeetingHandler(pipeline *meeting.Pipeline, logger *slog.Logger) *MeetingHandler {
	return &MeetingHandler{
		pipeline: pipeline,
		log:      logger.With("handler", "meetings"),
	}
}

type createMeetingRequest struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  *string `json:"phone"`
	Type   *string `json:"type"`
	Status string  `json:"status"`
}

// Create registers a new meeting.
// POST /api/meetings
func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.pipeline.Create(r.Context(), meeting.CreateInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Type:   req.Type,
		Status: repository.MeetingStatus(req.Status),
	})
	if err != nil {
		if errors.Is(err, meeting.ErrInvalidInput) || errors.Is(err, meeting.ErrInvalidStatus) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.ErrorContext(r.Context(), "create meeting", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create meeting")
		return
	}

	writeJSON(w, http.StatusOK, toMeetingJSON(m))
}

type paginationJSON struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

type meetingListResponse struct {
	Meetings   []meetingJSON  `json:"meetings"`
	Pagination paginationJSON `json:"pagination"`
}

// List returns meetings newest first with a pagination envelope.
// GET /api/meetings?page=1&limit=10
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	meetings, pageInfo, err := h.pipeline.List(r.Context(), page, limit)
	if err != nil {
		h.log.ErrorContext(r.Context(), "list meetings", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to fetch meetings")
		return
	}

	out := make([]meetingJSON, 0, len(meetings))
	for i := range meetings {
		out = append(out, toMeetingJSON(&meetings[i]))
	}
	writeJSON(w, http.StatusOK, meetingListResponse{
		Meetings: out,
		Pagination: paginationJSON{
			Page:       pageInfo.Page,
			Limit:      pageInfo.Limit,
			TotalCount: pageInfo.TotalCount,
			TotalPages: pageInfo.TotalPages,
		},
	})
}

type meetingDetailResponse struct {
	meetingJSON
	AudioURL *string `json:"audioUrl"`
}

// Get returns one meeting with a signed audio download URL when the
// stored object is still present.
// GET /api/meetings/{id}
func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.pipeline.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, meeting.ErrNotFound) {
			writeError(w, http.StatusNotFound, "meeting not found")
			return
		}
		h.log.ErrorContext(r.Context(), "get meeting", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to fetch meeting")
		return
	}

	writeJSON(w, http.StatusOK, meetingDetailResponse{
		meetingJSON: toMeetingJSON(&detail.Meeting),
		AudioURL:    detail.AudioURL,
	})
}

type patchMeetingRequest struct {
	Transcript *string `json:"transcript"`
	Duration   *int    `json:"duration"`
	AudioPath  *string `json:"audioPath"`
	Recap      *string `json:"recap"`
	Highlights *string `json:"highlights"`
	Status     *string `json:"status"`
}

// Patch applies a partial update; absent fields are left untouched.
// PATCH /api/meetings/{id}
func (h *MeetingHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var req patchMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := meeting.PatchInput{
		Transcript: req.Transcript,
		Duration:   req.Duration,
		AudioKey:   req.AudioPath,
		Recap:      req.Recap,
		Highlights: req.Highlights,
	}
	if req.Status != nil {
		status := repository.MeetingStatus(*req.Status)
		input.Status = &status
	}

	m, err := h.pipeline.Patch(r.Context(), r.PathValue("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, meeting.ErrNotFound):
			writeError(w, http.StatusNotFound, "meeting not found")
		case errors.Is(err, meeting.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.ErrorContext(r.Context(), "patch meeting", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "failed to update meeting")
		}
		return
	}

	writeJSON(w, http.StatusOK, toMeetingJSON(m))
}

// Delete removes the meeting record and, best effort, its stored audio.
// DELETE /api/meetings/{id}
func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, meeting.ErrNotFound) {
			writeError(w, http.StatusNotFound, "meeting not found")
			return
		}
		h.log.ErrorContext(r.Context(), "delete meeting", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to delete meeting")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Meeting deleted successfully",
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
