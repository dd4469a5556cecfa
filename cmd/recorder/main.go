package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	recordingimpl "github.com/overmindlabs/overmind/external/recording"
	transcriberimpl "github.com/overmindlabs/overmind/external/transcriber"
	"github.com/overmindlabs/overmind/internal/recording"
)

const stopTimeout = 2 * time.Minute

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "backend base URL")
	meetingID := flag.String("meeting", "", "meeting id to attach the capture to")
	language := flag.String("language", "en-US", "spoken language")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if *meetingID == "" {
		slog.Error("missing required -meeting flag")
		os.Exit(1)
	}
	if err := recordingimpl.CheckPipeWireAvailable(context.Background()); err != nil {
		slog.Error("pipewire unavailable", "error", err)
		os.Exit(1)
	}

	if err := run(*serverURL, *meetingID, *language); err != nil {
		slog.Error("capture failed", "error", err)
		os.Exit(1)
	}
}

func run(serverURL, meetingID, language string) error {
	device := recordingimpl.NewDefaultPipeWireDevice()
	stt := transcriberimpl.NewRemoteTranscriber(serverURL, meetingID)
	session := recording.NewSession(device, stt)

	ctx := context.Background()
	if err := session.Start(ctx); err != nil {
		return err
	}
	if err := patchMeeting(ctx, serverURL, meetingID, map[string]any{"status": "RECORDING"}); err != nil {
		_, _ = session.Stop(ctx, language)
		return fmt.Errorf("mark meeting recording: %w", err)
	}
	slog.Info("recording; press ctrl-c to stop", "meeting_id", meetingID)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()

	result, err := session.Stop(stopCtx, language)
	if err != nil {
		if errors.Is(err, recording.ErrNoSpeech) {
			slog.Warn("no speech captured; meeting left unchanged")
			return nil
		}
		return err
	}

	// The transcribe endpoint has no way to know the capture length, so
	// the duration is patched on afterwards.
	if err := patchMeeting(stopCtx, serverURL, meetingID, map[string]any{"duration": result.DurationSeconds}); err != nil {
		slog.Error("failed to save duration", "error", err, "meeting_id", meetingID)
	}

	fmt.Println(result.Transcript)
	return nil
}

func patchMeeting(ctx context.Context, serverURL, meetingID string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/meetings/%s", serverURL, meetingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return nil
}
