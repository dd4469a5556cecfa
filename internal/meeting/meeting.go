package meeting

import "errors"

var (
	// ErrNotFound is returned when no meeting with the given id exists.
	ErrNotFound = errors.New("meeting: not found")
	// ErrEmptyTranscript marks a transcription that produced no usable
	// text; the lifecycle does not advance and the caller must retry
	// capture.
	ErrEmptyTranscript = errors.New("meeting: transcript is empty")
	// ErrStageOrder marks a highlights run attempted before the recap
	// stage completed.
	ErrStageOrder = errors.New("meeting: recap stage has not completed")
	// ErrInvalidStatus marks a patch carrying an unknown status value.
	ErrInvalidStatus = errors.New("meeting: invalid status")
	// ErrInvalidInput marks a create request that failed field validation.
	ErrInvalidInput = errors.New("meeting: invalid input")
)
