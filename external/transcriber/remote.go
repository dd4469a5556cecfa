package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/overmindlabs/overmind/internal/transcriber"
)

// RemoteTranscriber delegates speech-to-text to a running backend's
// transcribe endpoint. Used by the recorder CLI so local captures flow
// through the same upload, transcription and lifecycle path as browser
// recordings.
type RemoteTranscriber struct {
	baseURL   string
	meetingID string
	client    *http.Client
}

func NewRemoteTranscriber(baseURL, meetingID string) transcriber.Transcriber {
	return &RemoteTranscriber{
		baseURL:   baseURL,
		meetingID: meetingID,
		client:    &http.Client{},
	}
}

func (t *RemoteTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("audio", "capture.wav")
	if err != nil {
		return "", fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := part.Write(wrapPCMAsWAV(audio)); err != nil {
		return "", fmt.Errorf("failed to write audio part: %w", err)
	}
	if err := mw.WriteField("meetingId", t.meetingID); err != nil {
		return "", fmt.Errorf("failed to write meetingId field: %w", err)
	}
	if err := mw.WriteField("language", language); err != nil {
		return "", fmt.Errorf("failed to write language field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/transcribe", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcribe endpoint returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode transcribe response: %w", err)
	}
	return parsed.Transcript, nil
}
