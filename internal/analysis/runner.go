package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/overmindlabs/overmind/internal/completion"
	"github.com/overmindlabs/overmind/internal/repository"
	openai "github.com/sashabaranov/go-openai"
)

const (
	recapMaxTokens      = 2000
	highlightsMaxTokens = 1500

	recapProgressMessage      = "Generating recap"
	highlightsProgressMessage = "Extracting highlights"
)

// ErrPersistence marks a store write that failed after the provider response
// was already generated, so the caller can retry only the write.
var ErrPersistence = errors.New("analysis: persist result")

type EventStatus string

const (
	StatusProcessing EventStatus = "processing"
	StatusCompleted  EventStatus = "completed"
)

// Event is the transient progress notification emitted while a stage runs.
type Event struct {
	Status  EventStatus
	Message string
	Result  string
}

// Sink receives progress events. A nil Sink is valid and discards them.
type Sink func(Event)

func (s Sink) emit(e Event) {
	if s != nil {
		s(e)
	}
}

// Runner drives one analysis stage: it opens the completion stream,
// reassembles the chunked response, renders the display document and
// persists it on the meeting.
type Runner struct {
	streamer completion.Streamer
	repo     repository.Repository
	model    string
}

func NewRunner(streamer completion.Streamer, repo repository.Repository, model string) *Runner {
	return &Runner{streamer: streamer, repo: repo, model: model}
}

// RunRecap generates and persists the recap document for a meeting. The
// meeting id may be empty, in which case the rendered text is returned
// without being persisted.
func (r *Runner) RunRecap(ctx context.Context, meetingID, transcript string, emit Sink) (string, error) {
	var payload RecapPayload
	err := r.consumeStage(ctx, r.buildRequest(recapSystemPrompt, recapUserPrompt(transcript), recapMaxTokens),
		&payload, recapProgressMessage, emit)
	if err != nil {
		return "", err
	}

	rendered := FormatRecap(payload)
	if meetingID != "" {
		if err := r.repo.SaveRecap(ctx, meetingID, rendered); err != nil {
			return "", fmt.Errorf("%w: %s", ErrPersistence, err)
		}
	}
	emit.emit(Event{Status: StatusCompleted, Result: rendered})
	slog.Info("recap stage completed", "meeting_id", meetingID, "rendered_bytes", len(rendered))
	return rendered, nil
}

// RunHighlights extracts, ranks and persists meeting highlights. The
// highlight context comes from the settings singleton; a settings read
// failure falls back to the default context and is not fatal.
func (r *Runner) RunHighlights(ctx context.Context, meetingID, transcript string, emit Sink) (string, error) {
	highlightContext := r.resolveHighlightContext(ctx)

	var payload HighlightsPayload
	err := r.consumeStage(ctx,
		r.buildRequest(highlightsSystemPrompt(highlightContext), highlightsUserPrompt(highlightContext, transcript), highlightsMaxTokens),
		&payload, highlightsProgressMessage, emit)
	if err != nil {
		return "", err
	}

	rendered := FormatHighlights(payload.Highlights, highlightContext)
	if meetingID != "" {
		if err := r.repo.SaveHighlightsCompleted(ctx, meetingID, rendered); err != nil {
			return "", fmt.Errorf("%w: %s", ErrPersistence, err)
		}
	}
	emit.emit(Event{Status: StatusCompleted, Result: rendered})
	slog.Info("highlights stage completed", "meeting_id", meetingID, "highlights", len(payload.Highlights))
	return rendered, nil
}

func (r *Runner) consumeStage(ctx context.Context, req openai.ChatCompletionRequest, out any, progressMessage string, emit Sink) error {
	stream, err := r.streamer.OpenStream(ctx, req)
	if err != nil {
		return err
	}
	defer func() {
		_ = stream.Close()
	}()

	reassembler := completion.NewReassembler()
	return reassembler.Consume(ctx, stream, out, func() {
		emit.emit(Event{Status: StatusProcessing, Message: progressMessage})
	})
}

func (r *Runner) buildRequest(systemPrompt, userPrompt string, maxTokens int) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Stream:    true,
		MaxTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
}

func (r *Runner) resolveHighlightContext(ctx context.Context) string {
	settings, err := r.repo.EnsureSettings(ctx, DefaultHighlightContext)
	if err != nil {
		slog.Warn("failed to read settings; using default highlight context", "error", err)
		return DefaultHighlightContext
	}
	if settings.HighlightContext == "" {
		return DefaultHighlightContext
	}
	return settings.HighlightContext
}
