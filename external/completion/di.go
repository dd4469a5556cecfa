package completion

import (
	"github.com/overmindlabs/overmind/internal/completion"
	"github.com/overmindlabs/overmind/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (completion.Streamer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPStreamer(c.CompletionBaseURL, c.CompletionAPIKey), nil
	})
}
