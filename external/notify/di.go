package notify

import (
	"github.com/samber/do/v2"

	"github.com/overmindlabs/overmind/internal/config"
	"github.com/overmindlabs/overmind/internal/notify"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (notify.Notifier, error) {
		c := do.MustInvoke[*config.Config](i)

		targets := []notify.Notifier{NewHTTPWebhook(c.CompletionWebhookURL)}
		if c.DiscordToken != "" {
			d, err := NewDiscordNotifier(c.DiscordToken, c.DiscordChannelID)
			if err != nil {
				return nil, err
			}
			targets = append(targets, d)
		}
		return NewFanout(targets...), nil
	})
}
