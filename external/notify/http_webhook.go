package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/overmindlabs/overmind/internal/notify"
)

type webhookPayload struct {
	MeetingID   string `json:"meetingId"`
	MeetingName string `json:"meetingName"`
	Status      string `json:"status"`
	Highlights  string `json:"highlights,omitempty"`
}

// HTTPWebhook posts a JSON announcement to a configured URL. An empty
// URL disables delivery without error.
type HTTPWebhook struct {
	webhookURL string
	client     *http.Client
}

func NewHTTPWebhook(webhookURL string) notify.Notifier {
	return &HTTPWebhook{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

func (s *HTTPWebhook) Announce(ctx context.Context, a notify.Announcement) error {
	if s.webhookURL == "" {
		return nil
	}

	b, err := json.Marshal(webhookPayload{
		MeetingID:   a.MeetingID,
		MeetingName: a.MeetingName,
		Status:      a.Status,
		Highlights:  a.Highlights,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
