package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	slacksvc "github.com/secmon-lab/themis/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds configuration for assessment notifications
type Slack struct {
	botToken string
	channel  string
}

// Flags returns CLI flags for Slack configuration
func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (notifications disabled if empty)",
			Category:    "Slack",
			Sources:     cli.EnvVars("THEMIS_SLACK_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel for assessment notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("THEMIS_SLACK_CHANNEL"),
			Destination: &x.channel,
		},
	}
}

// LogValue returns log attributes for the Slack configuration
func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", x.botToken != ""),
		slog.String("channel", x.channel),
	)
}

// Configure creates a new Slack notification service from the
// configured flags. Returns nil if no bot token is configured
// (notifications will be disabled).
func (x *Slack) Configure() (slacksvc.Service, error) {
	if x.botToken == "" {
		return nil, nil
	}
	if x.channel == "" {
		return nil, goerr.Wrap(ErrInvalidSlackConfig, "slack-channel is required when slack-bot-token is set")
	}

	svc, err := slacksvc.New(x.botToken, x.channel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack service")
	}

	return svc, nil
}
