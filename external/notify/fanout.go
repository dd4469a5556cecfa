package notify

import (
	"context"
	"errors"

	"github.com/overmindlabs/overmind/internal/notify"
)

// Fanout delivers an announcement to every configured destination and
// reports all delivery failures together.
type Fanout struct {
	targets []notify.Notifier
}

func NewFanout(targets ...notify.Notifier) notify.Notifier {
	return &Fanout{targets: targets}
}

func (f *Fanout) Announce(ctx context.Context, a notify.Announcement) error {
	var errs []error
	for _, t := range f.targets {
		if err := t.Announce(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
