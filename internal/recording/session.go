package recording

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/overmindlabs/overmind/internal/transcriber"
)

// Result is the settled outcome of one capture cycle.
type Result struct {
	Transcript      string
	Audio           []byte
	DurationSeconds int
}

// Session drives one capture cycle: acquire the device, buffer frames, and
// on stop hand the captured bytes to the transcriber. One Session serves one
// meeting at a time; a settled or failed session may be started again for a
// retry cycle.
type Session struct {
	device CaptureDevice
	stt    transcriber.Transcriber

	mu        sync.Mutex
	state     State
	buffer    bytes.Buffer
	startedAt time.Time
	devErr    error
	collectWG sync.WaitGroup
}

func NewSession(device CaptureDevice, stt transcriber.Transcriber) *Session {
	return &Session{device: device, stt: stt, state: StateIdle}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start acquires the capture device and begins buffering audio. It rejects
// when a capture is already in flight or the device is unavailable.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	prev := s.state
	switch prev {
	case StateIdle, StateSettled, StateFailed:
	default:
		s.mu.Unlock()
		return fmt.Errorf("%w: start while %s", ErrInvalidState, prev)
	}
	// Transition before touching the device so a concurrent Start observes
	// the capture already in flight.
	s.state = StateCapturing
	s.startedAt = time.Now()
	s.buffer.Reset()
	s.devErr = nil
	s.mu.Unlock()

	frames, errs, err := s.device.Start(ctx)
	if err != nil {
		s.setState(prev)
		return fmt.Errorf("%w: %s", ErrCapture, err)
	}

	s.collectWG.Add(1)
	go s.collect(frames, errs)
	slog.Info("capture started")
	return nil
}

// Stop flushes buffered audio, releases the device and hands the capture to
// the transcriber. Duration is wall-clock elapsed between Start and the
// moment Stop is invoked, independent of transcript length.
func (s *Session) Stop(ctx context.Context, language string) (Result, error) {
	s.mu.Lock()
	if s.state != StateCapturing {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("%w: stop while %s", ErrInvalidState, s.state)
	}
	s.state = StateStopping
	duration := time.Since(s.startedAt)
	s.mu.Unlock()

	if err := s.device.Stop(); err != nil {
		s.fail()
		return Result{}, fmt.Errorf("%w: %s", ErrCapture, err)
	}
	s.collectWG.Wait()

	s.mu.Lock()
	audio := make([]byte, s.buffer.Len())
	copy(audio, s.buffer.Bytes())
	devErr := s.devErr
	s.mu.Unlock()

	if devErr != nil {
		s.fail()
		return Result{}, fmt.Errorf("%w: %s", ErrCapture, devErr)
	}
	if len(audio) == 0 {
		s.fail()
		return Result{}, ErrNoSpeech
	}

	s.setState(StateTranscribing)
	transcript, err := s.stt.Transcribe(ctx, audio, language)
	if err != nil {
		s.fail()
		return Result{}, err
	}
	if strings.TrimSpace(transcript) == "" {
		s.fail()
		return Result{}, ErrNoSpeech
	}

	s.setState(StateSettled)
	result := Result{
		Transcript:      transcript,
		Audio:           audio,
		DurationSeconds: int(duration.Seconds()),
	}
	slog.Info("capture settled", "audio_bytes", len(audio), "duration_seconds", result.DurationSeconds)
	return result, nil
}

func (s *Session) collect(frames <-chan Frame, errs <-chan error) {
	defer s.collectWG.Done()
	for frames != nil || errs != nil {
		select {
		case frame, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			s.mu.Lock()
			s.buffer.Write(frame.Data)
			s.mu.Unlock()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				s.mu.Lock()
				if s.devErr == nil {
					s.devErr = err
				}
				s.mu.Unlock()
			}
		}
	}
}

func (s *Session) fail() {
	s.setState(StateFailed)
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
