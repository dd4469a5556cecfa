package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/overmindlabs/overmind/internal/analysis"
	"github.com/overmindlabs/overmind/internal/completion"
	"github.com/overmindlabs/overmind/internal/meeting"
)

// GenerateHandler serves the streamed analysis endpoints. Progress and
// results are written as `data: {json}` frames while the upstream
// completion is still being consumed.
type GenerateHandler struct {
	pipeline *meeting.Pipeline
	log      *slog.Logger
}

func NewGenerateHandler(pipeline *meeting.Pipeline, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		pipeline: pipeline,
		log:      logger.With("handler", "generate"),
	}
}

type generateRequest struct {
	MeetingID  string `json:"meetingId"`
	Transcript string `json:"transcript"`
}

type streamFrame struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

type stageFunc func(ctx context.Context, meetingID, transcript string, emit analysis.Sink) (string, error)

// Recap streams the recap stage.
// POST /api/meetings/generate-recap
func (h *GenerateHandler) Recap(w http.ResponseWriter, r *http.Request) {
	h.runStage(w, r, "recap", h.pipeline.RunRecapStage)
}

// Highlights streams the highlights stage.
// POST /api/meetings/generate-highlights
func (h *GenerateHandler) Highlights(w http.ResponseWriter, r *http.Request) {
	h.runStage(w, r, "highlights", h.pipeline.RunHighlightsStage)
}

func (h *GenerateHandler) runStage(w http.ResponseWriter, r *http.Request, stage string, run stageFunc) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Transcript == "" {
		writeError(w, http.StatusBadRequest, "Transcript is required")
		return
	}

	// Headers are committed here; failures past this point travel as
	// error frames, not HTTP status codes.
	events := completion.NewEventWriter(w)
	emit := func(e analysis.Event) {
		_ = events.Send(streamFrame{
			Status:  string(e.Status),
			Message: e.Message,
			Result:  e.Result,
		})
	}

	if _, err := run(r.Context(), req.MeetingID, req.Transcript, emit); err != nil {
		h.log.ErrorContext(r.Context(), "analysis stage failed",
			slog.String("stage", stage),
			slog.String("meeting_id", req.MeetingID),
			slog.String("error", err.Error()))
		_ = events.Send(streamFrame{Status: "error", Error: err.Error()})
	}
}
