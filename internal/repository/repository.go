package repository

import "context"

type CreateMeetingInput struct {
	Name     string
	Email    string
	Phone    *string
	Type     *string
	Language string
	Status   MeetingStatus
}

// PatchMeetingInput carries partial updates; nil fields are left untouched.
type PatchMeetingInput struct {
	Transcript *string
	Duration   *int
	AudioKey   *string
	Recap      *string
	Highlights *string
	Status     *MeetingStatus
}

type MeetingRepository interface {
	CreateMeeting(ctx context.Context, input CreateMeetingInput) (*Meeting, error)
	// GetMeeting returns (nil, nil) when no meeting with that id exists.
	GetMeeting(ctx context.Context, id string) (*Meeting, error)
	ListMeetings(ctx context.Context, offset, limit int) ([]Meeting, int, error)
	PatchMeeting(ctx context.Context, id string, input PatchMeetingInput) (*Meeting, error)
	SetMeetingStatus(ctx context.Context, id string, status MeetingStatus) error
	// SaveTranscription persists transcript, duration and audio key together
	// with the PROCESSING transition as one statement.
	SaveTranscription(ctx context.Context, id, transcript string, durationSeconds int, audioKey string) error
	SaveRecap(ctx context.Context, id, recap string) error
	// SaveHighlightsCompleted persists the rendered highlights and the
	// COMPLETED transition as one statement.
	SaveHighlightsCompleted(ctx context.Context, id, highlights string) error
	DeleteMeeting(ctx context.Context, id string) error
}

type SettingsRepository interface {
	// EnsureSettings returns the singleton settings row, creating it with
	// defaultContext when absent.
	EnsureSettings(ctx context.Context, defaultContext string) (*AppSettings, error)
	SaveSettings(ctx context.Context, highlightContext string) (*AppSettings, error)
}

type Repository interface {
	MeetingRepository
	SettingsRepository
}
