package meeting

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/overmindlabs/overmind/internal/analysis"
	"github.com/overmindlabs/overmind/internal/blobstore"
	"github.com/overmindlabs/overmind/internal/notify"
	"github.com/overmindlabs/overmind/internal/repository"
)

// Pipeline owns the meeting lifecycle state machine
// (PENDING → RECORDING → PROCESSING → COMPLETED, FAILED reachable from
// RECORDING or PROCESSING) and sequences the analysis stages for a meeting.
type Pipeline struct {
	repo            repository.Repository
	blobs           blobstore.Store
	runner          *analysis.Runner
	notifier        notify.Notifier
	defaultLanguage string
}

func NewPipeline(repo repository.Repository, blobs blobstore.Store, runner *analysis.Runner, notifier notify.Notifier, defaultLanguage string) *Pipeline {
	return &Pipeline{
		repo:            repo,
		blobs:           blobs,
		runner:          runner,
		notifier:        notifier,
		defaultLanguage: defaultLanguage,
	}
}

// StartRecording transitions the meeting to RECORDING; the only guard is
// that the meeting exists.
func (p *Pipeline) StartRecording(ctx context.Context, id string) error {
	m, err := p.repo.GetMeeting(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotFound
	}
	return p.repo.SetMeetingStatus(ctx, id, repository.MeetingStatusRecording)
}

// CompleteTranscription persists the transcript, duration and audio key and
// commits the PROCESSING transition as one unit. A whitespace-only
// transcript commits nothing: the meeting stays eligible for a capture
// retry.
func (p *Pipeline) CompleteTranscription(ctx context.Context, id, transcript string, durationSeconds int, audioKey string) error {
	if strings.TrimSpace(transcript) == "" {
		return ErrEmptyTranscript
	}
	m, err := p.repo.GetMeeting(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotFound
	}
	if err := p.repo.SaveTranscription(ctx, id, transcript, durationSeconds, audioKey); err != nil {
		return err
	}
	slog.Info("transcription persisted", "meeting_id", id, "transcript_chars", len(transcript), "duration_seconds", durationSeconds)
	return nil
}

// RunRecapStage generates and persists the meeting recap. A stage failure
// marks the meeting FAILED; already-persisted fields are not rolled back.
// Cancellation leaves the meeting untouched.
func (p *Pipeline) RunRecapStage(ctx context.Context, meetingID, transcript string, emit analysis.Sink) (string, error) {
	rendered, err := p.runner.RunRecap(ctx, meetingID, transcript, emit)
	if err != nil {
		p.markFailed(ctx, meetingID, "recap", err)
		return "", err
	}
	return rendered, nil
}

// RunHighlightsStage extracts and persists highlights, committing the
// COMPLETED transition together with the rendered text. It is only valid
// once the recap stage has completed for the meeting.
func (p *Pipeline) RunHighlightsStage(ctx context.Context, meetingID, transcript string, emit analysis.Sink) (string, error) {
	if meetingID != "" {
		m, err := p.repo.GetMeeting(ctx, meetingID)
		if err != nil {
			return "", err
		}
		if m == nil {
			return "", ErrNotFound
		}
		if m.Status == repository.MeetingStatusFailed || m.Recap == nil {
			return "", ErrStageOrder
		}
	}

	rendered, err := p.runner.RunHighlights(ctx, meetingID, transcript, emit)
	if err != nil {
		p.markFailed(ctx, meetingID, "highlights", err)
		return "", err
	}
	p.announce(ctx, meetingID)
	return rendered, nil
}

// Analyze runs both stages in their strict order: recap first, highlights
// only after the recap stage succeeded. A recap failure aborts the
// remaining stage entirely.
func (p *Pipeline) Analyze(ctx context.Context, meetingID, transcript string, emit analysis.Sink) error {
	if _, err := p.RunRecapStage(ctx, meetingID, transcript, emit); err != nil {
		return err
	}
	_, err := p.RunHighlightsStage(ctx, meetingID, transcript, emit)
	return err
}

// markFailed commits the FAILED transition after a stage error. A cancelled
// stage leaves the meeting's persisted state untouched instead.
func (p *Pipeline) markFailed(ctx context.Context, meetingID, stage string, cause error) {
	if meetingID == "" {
		return
	}
	if errors.Is(cause, context.Canceled) {
		slog.Info("stage cancelled; meeting left unchanged", "meeting_id", meetingID, "stage", stage)
		return
	}
	writeCtx := context.WithoutCancel(ctx)
	if err := p.repo.SetMeetingStatus(writeCtx, meetingID, repository.MeetingStatusFailed); err != nil {
		slog.Error("failed to mark meeting failed", "error", err, "meeting_id", meetingID, "stage", stage)
	} else {
		slog.Warn("meeting marked failed", "meeting_id", meetingID, "stage", stage, "cause", cause)
	}
	p.announce(writeCtx, meetingID)
}

// announce notifies configured channels about a terminal status,
// best-effort.
func (p *Pipeline) announce(ctx context.Context, meetingID string) {
	if p.notifier == nil || meetingID == "" {
		return
	}
	m, err := p.repo.GetMeeting(context.WithoutCancel(ctx), meetingID)
	if err != nil || m == nil {
		return
	}
	if !m.Status.Terminal() {
		return
	}
	if err := p.notifier.Announce(context.WithoutCancel(ctx), notify.Announcement{
		MeetingID:   m.ID,
		MeetingName: m.Name,
		Status:      string(m.Status),
		Highlights:  stringValue(m.Highlights),
	}); err != nil {
		slog.Error("failed to send completion notification", "error", err, "meeting_id", meetingID)
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
