package meeting

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/overmindlabs/overmind/internal/repository"
)

const downloadURLTTL = time.Hour

type CreateInput struct {
	Name   string
	Email  string
	Phone  *string
	Type   *string
	Status repository.MeetingStatus
}

type PatchInput struct {
	Transcript *string
	Duration   *int
	AudioKey   *string
	Recap      *string
	Highlights *string
	Status     *repository.MeetingStatus
}

type Page struct {
	Page       int
	Limit      int
	TotalCount int
	TotalPages int
}

// Detail is a meeting with its best-effort ephemeral audio download URL.
type Detail struct {
	repository.Meeting
	AudioURL *string
}

func (p *Pipeline) Create(ctx context.Context, input CreateInput) (*repository.Meeting, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	m, err := p.repo.CreateMeeting(ctx, repository.CreateMeetingInput{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Type:     input.Type,
		Language: p.defaultLanguage,
		Status:   input.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	slog.Info("meeting created", "meeting_id", m.ID)
	return m, nil
}

func (p *Pipeline) List(ctx context.Context, page, limit int) ([]repository.Meeting, Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	meetings, total, err := p.repo.ListMeetings(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, Page{}, fmt.Errorf("list meetings: %w", err)
	}
	return meetings, Page{
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// Get fetches a meeting and attaches a time-limited audio download URL when
// the audio object is still present. URL generation failures are logged and
// leave the URL empty; the meeting itself is always returned.
func (p *Pipeline) Get(ctx context.Context, id string) (*Detail, error) {
	m, err := p.repo.GetMeeting(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	if m == nil {
		return nil, ErrNotFound
	}

	detail := &Detail{Meeting: *m}
	if m.AudioKey != nil && *m.AudioKey != "" {
		exists, err := p.blobs.Exists(ctx, *m.AudioKey)
		if err != nil {
			slog.Error("failed to check audio object", "error", err, "meeting_id", id, "audio_key", *m.AudioKey)
			return detail, nil
		}
		if exists {
			url, err := p.blobs.SignedDownloadURL(ctx, *m.AudioKey, downloadURLTTL)
			if err != nil {
				slog.Error("failed to sign audio download url", "error", err, "meeting_id", id)
				return detail, nil
			}
			detail.AudioURL = &url
		}
	}
	return detail, nil
}

func (p *Pipeline) Patch(ctx context.Context, id string, input PatchInput) (*repository.Meeting, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	// A lone RECORDING status patch is the capture-start commit from a
	// recording client; it goes through the lifecycle transition.
	if isRecordingOnlyPatch(input) {
		if err := p.StartRecording(ctx, id); err != nil {
			return nil, err
		}
		m, err := p.repo.GetMeeting(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get meeting: %w", err)
		}
		if m == nil {
			return nil, ErrNotFound
		}
		return m, nil
	}
	m, err := p.repo.PatchMeeting(ctx, id, repository.PatchMeetingInput{
		Transcript: input.Transcript,
		Duration:   input.Duration,
		AudioKey:   input.AudioKey,
		Recap:      input.Recap,
		Highlights: input.Highlights,
		Status:     input.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("patch meeting: %w", err)
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func isRecordingOnlyPatch(input PatchInput) bool {
	return input.Status != nil && *input.Status == repository.MeetingStatusRecording &&
		input.Transcript == nil && input.Duration == nil && input.AudioKey == nil &&
		input.Recap == nil && input.Highlights == nil
}

// Delete removes the meeting record. The associated audio object is
// deleted first, best-effort: an object store failure is logged and does not
// block record deletion.
func (p *Pipeline) Delete(ctx context.Context, id string) error {
	m, err := p.repo.GetMeeting(ctx, id)
	if err != nil {
		return fmt.Errorf("get meeting: %w", err)
	}
	if m == nil {
		return ErrNotFound
	}

	if m.AudioKey != nil && *m.AudioKey != "" {
		if err := p.blobs.Delete(ctx, *m.AudioKey); err != nil {
			slog.Error("failed to delete audio object; deleting meeting record anyway",
				"error", err, "meeting_id", id, "audio_key", *m.AudioKey)
		}
	}
	if err := p.repo.DeleteMeeting(ctx, id); err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	slog.Info("meeting deleted", "meeting_id", id)
	return nil
}
