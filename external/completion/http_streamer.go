package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/overmindlabs/overmind/internal/completion"
	openai "github.com/sashabaranov/go-openai"
)

// HTTPStreamer talks to an OpenAI-compatible chat-completion endpoint and
// hands the raw event stream back to the caller.
type HTTPStreamer struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPStreamer(baseURL, apiKey string) completion.Streamer {
	return &HTTPStreamer{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{},
	}
}

func (s *HTTPStreamer) OpenStream(ctx context.Context, req openai.ChatCompletionRequest) (io.ReadCloser, error) {
	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", completion.ErrProviderUnavailable, resp.StatusCode)
	}
	slog.Info("completion stream opened", "model", req.Model, "handshake_ms", time.Since(start).Milliseconds())
	return resp.Body, nil
}
