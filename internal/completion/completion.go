package completion

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// ErrProviderUnavailable is returned when the provider rejects the stream
// handshake with a non-2xx status.
var ErrProviderUnavailable = errors.New("completion: provider unavailable")

// Streamer opens a streaming chat-completion request and returns the raw
// event stream. The caller owns closing the stream.
type Streamer interface {
	OpenStream(ctx context.Context, req openai.ChatCompletionRequest) (io.ReadCloser, error)
}
