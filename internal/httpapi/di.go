package httpapi

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/overmindlabs/overmind/internal/blobstore"
	"github.com/overmindlabs/overmind/internal/config"
	"github.com/overmindlabs/overmind/internal/meeting"
	"github.com/overmindlabs/overmind/internal/repository"
	"github.com/overmindlabs/overmind/internal/transcriber"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.Repository](i)
		blobs := do.MustInvoke[blobstore.Store](i)
		stt := do.MustInvoke[transcriber.Transcriber](i)
		pipeline := do.MustInvoke[*meeting.Pipeline](i)
		logger := slog.Default()

		handlers := Handlers{
			Meetings:   NewMeetingHandler(pipeline, logger),
			Transcribe: NewTranscribeHandler(blobs, stt, pipeline, cfg.DefaultLanguage, logger),
			Generate:   NewGenerateHandler(pipeline, logger),
			Settings:   NewSettingsHandler(repo, logger),
		}
		return NewServer(cfg.HTTPListenAddr, handlers), nil
	})
}
