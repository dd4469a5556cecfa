package httpapi

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/overmindlabs/overmind/internal/blobstore"
	"github.com/overmindlabs/overmind/internal/meeting"
	"github.com/overmindlabs/overmind/internal/transcriber"
)

// 50 MiB, enough for roughly an hour of compressed meeting audio.
const maxAudioUploadBytes = 50 << 20

// TranscribeHandler accepts a recorded audio upload, stores it, runs
// speech-to-text and commits the result to the meeting lifecycle.
type TranscribeHandler struct {
	blobs           blobstore.Store
	stt             transcriber.Transcriber
	pipeline        *meeting.Pipeline
	defaultLanguage string
	log             *slog.Logger
}

func NewTranscribeHandler(blobs blobstore.Store, stt transcriber.Transcriber, pipeline *meeting.Pipeline, defaultLanguage string, logger *slog.Logger) *TranscribeHandler {
	return &TranscribeHandler{
		blobs:           blobs,
		stt:             stt,
		pipeline:        pipeline,
		defaultLanguage: defaultLanguage,
		log:             logger.With("handler", "transcribe"),
	}
}

type transcribeResponse struct {
	Transcript string `json:"transcript"`
	AudioPath  string `json:"audioPath"`
}

// Transcribe handles the multipart upload.
// POST /api/transcribe with fields audio, meetingId, language, duration.
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No audio file provided")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	meetingID := r.FormValue("meetingId")
	if meetingID == "" {
		writeError(w, http.StatusBadRequest, "Meeting ID is required")
		return
	}
	language := r.FormValue("language")
	if language == "" {
		language = h.defaultLanguage
	}
	durationSeconds, _ := strconv.Atoi(r.FormValue("duration"))

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUploadBytes+1))
	if err != nil {
		h.log.ErrorContext(r.Context(), "read audio upload", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to read audio")
		return
	}
	if len(audio) > maxAudioUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "Audio file is too large")
		return
	}

	audioKey := fmt.Sprintf("uploads/%s-%d.webm", meetingID, time.Now().UnixMilli())
	audioPath, err := h.blobs.Upload(r.Context(), audioKey, audio, "audio/webm")
	if err != nil {
		h.log.ErrorContext(r.Context(), "upload audio", slog.String("error", err.Error()), slog.String("meeting_id", meetingID))
		writeError(w, http.StatusInternalServerError, "failed to store audio")
		return
	}

	transcript, err := h.stt.Transcribe(r.Context(), audio, language)
	if err != nil {
		h.log.ErrorContext(r.Context(), "transcription failed", slog.String("error", err.Error()), slog.String("meeting_id", meetingID))
		writeError(w, http.StatusInternalServerError, "Transcription failed")
		return
	}

	err = h.pipeline.CompleteTranscription(r.Context(), meetingID, transcript, durationSeconds, audioPath)
	if err != nil && !errors.Is(err, meeting.ErrEmptyTranscript) {
		h.log.ErrorContext(r.Context(), "commit transcription", slog.String("error", err.Error()), slog.String("meeting_id", meetingID))
		writeError(w, http.StatusInternalServerError, "failed to save transcription")
		return
	}

	writeJSON(w, http.StatusOK, transcribeResponse{
		Transcript: transcript,
		AudioPath:  audioPath,
	})
}
