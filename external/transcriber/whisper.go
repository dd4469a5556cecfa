package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/overmindlabs/overmind/internal/transcriber"
	openai "github.com/sashabaranov/go-openai"
)

// WhisperTranscriber sends a complete capture to the OpenAI transcription
// API.
type WhisperTranscriber struct {
	client *openai.Client
	model  string
}

func NewWhisperTranscriber(apiKey, model string) transcriber.Transcriber {
	return &WhisperTranscriber{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}

	payload, filename := normalizeAudio(audio)
	req := openai.AudioRequest{
		Model:    t.model,
		Reader:   bytes.NewReader(payload),
		FilePath: filename,
		Language: baseLanguage(language),
	}

	start := time.Now()
	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		slog.Error("whisper transcription failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("whisper transcription: %w", err)
	}
	slog.Info("whisper transcription completed", "audio_bytes", len(audio), "transcript_chars", len(resp.Text), "elapsed_ms", time.Since(start).Milliseconds())
	return resp.Text, nil
}

// normalizeAudio passes recognized containers through unchanged and wraps
// anything else as raw 16 kHz mono PCM in a WAV container.
func normalizeAudio(audio []byte) ([]byte, string) {
	switch {
	case bytes.HasPrefix(audio, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return audio, "audio.webm"
	case bytes.HasPrefix(audio, []byte("RIFF")):
		return audio, "audio.wav"
	case bytes.HasPrefix(audio, []byte("OggS")):
		return audio, "audio.ogg"
	}
	return wrapPCMAsWAV(audio), "audio.wav"
}

// baseLanguage reduces a BCP-47 tag like en-US to the bare language code the
// transcription API expects.
func baseLanguage(language string) string {
	if i := strings.IndexByte(language, '-'); i > 0 {
		return language[:i]
	}
	return language
}
