package recording

import (
	"context"
	"errors"
	"time"
)

// Frame is one slice of captured audio.
type Frame struct {
	Data      []byte
	Timestamp time.Time
}

// CaptureDevice abstracts an audio input source. Start acquires the device
// and begins delivering frames; the frame channel closes once the device has
// flushed everything after Stop.
type CaptureDevice interface {
	Start(ctx context.Context) (<-chan Frame, <-chan error, error)
	Stop() error
}

var (
	// ErrCapture marks device acquisition or read failures.
	ErrCapture = errors.New("recording: capture failed")
	// ErrNoSpeech marks a capture that produced no audio or an empty
	// transcript. The owning meeting's lifecycle must not advance.
	ErrNoSpeech = errors.New("recording: no speech detected")
	// ErrInvalidState marks a trigger that is not valid in the session's
	// current state.
	ErrInvalidState = errors.New("recording: invalid state for operation")
)

type State string

const (
	StateIdle         State = "idle"
	StateCapturing    State = "capturing"
	StateStopping     State = "stopping"
	StateTranscribing State = "transcribing"
	StateSettled      State = "settled"
	StateFailed       State = "failed"
)
