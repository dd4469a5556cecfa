package analysis

import (
	"github.com/samber/do/v2"

	"github.com/overmindlabs/overmind/internal/completion"
	"github.com/overmindlabs/overmind/internal/config"
	"github.com/overmindlabs/overmind/internal/repository"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Runner, error) {
		cfg := do.MustInvoke[*config.Config](i)
		streamer := do.MustInvoke[completion.Streamer](i)
		repo := do.MustInvoke[repository.Repository](i)
		return NewRunner(streamer, repo, cfg.CompletionModel), nil
	})
}
