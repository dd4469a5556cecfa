package meeting

import (
	"github.com/samber/do/v2"

	"github.com/overmindlabs/overmind/internal/analysis"
	"github.com/overmindlabs/overmind/internal/blobstore"
	"github.com/overmindlabs/overmind/internal/config"
	"github.com/overmindlabs/overmind/internal/notify"
	"github.com/overmindlabs/overmind/internal/repository"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Pipeline, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.Repository](i)
		blobs := do.MustInvoke[blobstore.Store](i)
		runner := do.MustInvoke[*analysis.Runner](i)
		notifier := do.MustInvoke[notify.Notifier](i)
		return NewPipeline(repo, blobs, runner, notifier, cfg.DefaultLanguage), nil
	})
}
