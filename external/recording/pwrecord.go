package recording

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/overmindlabs/overmind/internal/recording"
)

type PipeWireConfig struct {
	SampleRate        int
	Channels          int
	Format            string
	BufferSize        int
	Device            string
	ChannelBufferSize int
}

func DefaultPipeWireConfig() PipeWireConfig {
	return PipeWireConfig{
		SampleRate:        16000,
		Channels:          1,
		Format:            "s16le",
		BufferSize:        4096,
		Device:            "",
		ChannelBufferSize: 20,
	}
}

// PipeWireDevice captures microphone audio through pw-record as raw PCM.
type PipeWireDevice struct {
	config    PipeWireConfig
	capturing atomic.Bool

	mu     sync.Mutex // guards cmd and cancel
	cmd    *exec.Cmd
	cancel context.CancelFunc

	wg sync.WaitGroup
}

func NewPipeWireDevice(config PipeWireConfig) *PipeWireDevice {
	return &PipeWireDevice{config: config}
}

func NewDefaultPipeWireDevice() *PipeWireDevice {
	return NewPipeWireDevice(DefaultPipeWireConfig())
}

func (d *PipeWireDevice) Start(ctx context.Context) (<-chan recording.Frame, <-chan error, error) {
	if d.capturing.Load() {
		return nil, nil, fmt.Errorf("already capturing")
	}
	if err := d.validateConfig(); err != nil {
		return nil, nil, err
	}
	if err := CheckPipeWireAvailable(ctx); err != nil {
		return nil, nil, fmt.Errorf("PipeWire not available: %w", err)
	}

	captureCtx, cancel := context.WithCancel(ctx)

	frameCh := make(chan recording.Frame, d.config.ChannelBufferSize)
	errCh := make(chan error, 1)

	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()

	d.capturing.Store(true)
	d.wg.Add(1)
	go d.captureLoop(captureCtx, frameCh, errCh)

	return frameCh, errCh, nil
}

func (d *PipeWireDevice) Stop() error {
	if !d.capturing.Load() {
		return nil
	}

	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	d.wg.Wait()
	return nil
}

func (d *PipeWireDevice) captureLoop(ctx context.Context, frameCh chan<- recording.Frame, errCh chan<- error) {
	defer func() {
		close(frameCh)
		close(errCh)
		d.capturing.Store(false)

		// Ensure any child process is reaped.
		d.mu.Lock()
		if d.cmd != nil {
			_ = d.cmd.Wait()
			d.cmd = nil
		}
		d.cancel = nil
		d.mu.Unlock()

		d.wg.Done()
	}()

	args := d.buildPwRecordArgs()
	cmd := exec.CommandContext(ctx, "pw-record", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		d.emitErr(errCh, fmt.Errorf("create stdout pipe: %w", err))
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		d.emitErr(errCh, fmt.Errorf("create stderr pipe: %w", err))
		return
	}

	d.mu.Lock()
	d.cmd = cmd
	d.mu.Unlock()

	if err := cmd.Start(); err != nil {
		d.emitErr(errCh, fmt.Errorf("start pw-record: %w", err))
		return
	}

	// Log stderr lines to aid diagnostics.
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			slog.Debug("pw-record stderr", "line", scanner.Text())
		}
	}()

	buffer := make([]byte, d.config.BufferSize)
	var droppedCount int
	lastDropLog := time.Now()

	for {
		n, readErr := stdout.Read(buffer)
		if n > 0 {
			frameData := make([]byte, n)
			copy(frameData, buffer[:n])
			frame := recording.Frame{Data: frameData, Timestamp: time.Now()}

			select {
			case frameCh <- frame:
			case <-ctx.Done():
				return
			default:
				droppedCount++
				if time.Since(lastDropLog) > time.Second {
					slog.Warn("capture dropped frames due to backpressure", "dropped", droppedCount)
					lastDropLog = time.Now()
					droppedCount = 0
				}
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return
			}
			d.emitErr(errCh, fmt.Errorf("read audio: %w", readErr))
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (d *PipeWireDevice) emitErr(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
	}
	slog.Error("capture error", "error", err)
}

func (d *PipeWireDevice) buildPwRecordArgs() []string {
	args := []string{
		"--format", d.config.Format,
		"--rate", strconv.Itoa(d.config.SampleRate),
		"--channels", strconv.Itoa(d.config.Channels),
		"-", // stdout
	}
	if d.config.Device != "" {
		args = append(args, "--target", d.config.Device)
	}
	return args
}

func (d *PipeWireDevice) validateConfig() error {
	if d.config.SampleRate <= 0 {
		return fmt.Errorf("invalid SampleRate: %d", d.config.SampleRate)
	}
	if d.config.Channels <= 0 {
		return fmt.Errorf("invalid Channels: %d", d.config.Channels)
	}
	if d.config.BufferSize <= 0 {
		return fmt.Errorf("invalid BufferSize: %d", d.config.BufferSize)
	}
	if d.config.ChannelBufferSize <= 0 {
		return fmt.Errorf("invalid ChannelBufferSize: %d", d.config.ChannelBufferSize)
	}
	if d.config.Format == "" {
		return fmt.Errorf("invalid Format: empty")
	}
	return nil
}

func CheckPipeWireAvailable(ctx context.Context) error {
	if _, err := exec.LookPath("pw-record"); err != nil {
		return fmt.Errorf("pw-record not found: %w (install pipewire-tools)", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(checkCtx, "pw-cli", "info")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("PipeWire not running or accessible: %w", err)
	}
	return nil
}
