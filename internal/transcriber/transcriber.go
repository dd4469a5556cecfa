package transcriber

import (
	"context"
	"errors"
)

// ErrNoUsableResult is returned when the provider accepted the audio but
// produced no usable channel or alternative.
var ErrNoUsableResult = errors.New("transcriber: no usable recognition result")

// Transcriber converts a complete audio capture into text. Implementations
// are batch adapters over a speech-to-text provider.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}
