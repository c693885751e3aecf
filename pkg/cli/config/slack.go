package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/interfaces"
	"github.com/safework-lab/talos/pkg/service/notify"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for workflow event notification
type Slack struct {
	oauthToken string
	channelID  string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack Bot User OAuth Token for workflow notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("TALOS_SLACK_OAUTH_TOKEN"),
			Destination: &x.oauthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID to post workflow notifications to",
			Category:    "Slack",
			Sources:     cli.EnvVars("TALOS_SLACK_CHANNEL_ID"),
			Destination: &x.channelID,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("oauth-token.len", len(x.oauthToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured reports whether a Slack token was provided
func (x *Slack) IsConfigured() bool {
	return x.oauthToken != ""
}

// Configure returns a Slack notifier when a token is set, otherwise a
// notifier that writes events to the log.
func (x *Slack) Configure() (interfaces.Notifier, error) {
	if x.oauthToken == "" {
		return notify.NewLog(), nil
	}
	if x.channelID == "" {
		return nil, goerr.Wrap(ErrMissingChannel, "")
	}

	notifier, err := notify.NewSlack(x.oauthToken, x.channelID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}
	return notifier, nil
}
