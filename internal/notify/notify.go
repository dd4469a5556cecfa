// Package notify defines the outbound announcement contract for
// meetings that reach a terminal status.
package notify

import "context"

// Announcement carries the fields delivered to every configured channel
// when a meeting finishes processing.
type Announcement struct {
	MeetingID   string
	MeetingName string
	Status      string
	Highlights  string
}

// Notifier delivers an announcement to a single destination.
type Notifier interface {
	Announce(ctx context.Context, a Announcement) error
}
