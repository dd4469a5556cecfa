package repository

import "time"

type MeetingStatus string

const (
	MeetingStatusPending    MeetingStatus = "PENDING"
	MeetingStatusRecording  MeetingStatus = "RECORDING"
	MeetingStatusProcessing MeetingStatus = "PROCESSING"
	MeetingStatusCompleted  MeetingStatus = "COMPLETED"
	MeetingStatusFailed     MeetingStatus = "FAILED"
)

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingStatusPending, MeetingStatusRecording, MeetingStatusProcessing, MeetingStatusCompleted, MeetingStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further pipeline transition.
// Deletion of the meeting record is an entity-destruction event, not a transition.
func (s MeetingStatus) Terminal() bool {
	return s == MeetingStatusCompleted || s == MeetingStatusFailed
}

type Meeting struct {
	ID         string
	Name       string
	Email      string
	Phone      *string
	Type       *string
	Language   string
	Duration   *int
	AudioKey   *string
	Transcript *string
	Recap      *string
	Highlights *string
	Status     MeetingStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type AppSettings struct {
	ID               string
	HighlightContext string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
