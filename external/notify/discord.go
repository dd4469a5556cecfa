package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/overmindlabs/overmind/internal/notify"
)

// DiscordNotifier posts announcements to a single channel over the
// Discord REST API. No gateway connection is opened.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(token, channelID string) (notify.Notifier, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &DiscordNotifier{session: s, channelID: channelID}, nil
}

func (d *DiscordNotifier) Announce(ctx context.Context, a notify.Announcement) error {
	content := formatDiscordMessage(a)
	_, err := d.session.ChannelMessageSend(d.channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}
	return nil
}

func formatDiscordMessage(a notify.Announcement) string {
	header := fmt.Sprintf("**%s** finished with status %s", a.MeetingName, a.Status)
	if a.Highlights == "" {
		return header
	}
	return header + "\n\n" + a.Highlights
}
