package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/service/mailer"
	"github.com/urfave/cli/v3"
)

// SMTP holds configuration for email delivery of reports
type SMTP struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// Flags returns CLI flags for SMTP configuration
func (x *SMTP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "smtp-host",
			Usage:       "SMTP server host (email delivery disabled if empty)",
			Category:    "Email",
			Sources:     cli.EnvVars("THEMIS_SMTP_HOST"),
			Destination: &x.host,
		},
		&cli.IntFlag{
			Name:        "smtp-port",
			Usage:       "SMTP server port",
			Category:    "Email",
			Value:       587,
			Sources:     cli.EnvVars("THEMIS_SMTP_PORT"),
			Destination: &x.port,
		},
		&cli.StringFlag{
			Name:        "smtp-username",
			Usage:       "SMTP authentication username",
			Category:    "Email",
			Sources:     cli.EnvVars("THEMIS_SMTP_USERNAME"),
			Destination: &x.username,
		},
		&cli.StringFlag{
			Name:        "smtp-password",
			Usage:       "SMTP authentication password",
			Category:    "Email",
			Sources:     cli.EnvVars("THEMIS_SMTP_PASSWORD"),
			Destination: &x.password,
		},
		&cli.StringFlag{
			Name:        "smtp-from",
			Usage:       "Sender address for report emails",
			Category:    "Email",
			Sources:     cli.EnvVars("THEMIS_SMTP_FROM"),
			Destination: &x.from,
		},
	}
}

// LogValue returns log attributes for the SMTP configuration. The
// password is never logged.
func (x SMTP) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", x.host != ""),
		slog.String("host", x.host),
		slog.Int("port", x.port),
		slog.String("username", x.username),
		slog.String("from", x.from),
	)
}

// Configure creates a new mail service from the configured flags.
// Returns nil if no host is configured (email delivery will be
// disabled).
func (x *SMTP) Configure() (mailer.Service, error) {
	if x.host == "" {
		return nil, nil
	}
	if x.from == "" {
		return nil, goerr.Wrap(ErrInvalidSMTPConfig, "smtp-from is required when smtp-host is set")
	}

	opts := []mailer.Option{
		mailer.WithPort(x.port),
	}
	if x.username != "" {
		opts = append(opts, mailer.WithAuth(x.username, x.password))
	}

	svc, err := mailer.New(x.host, x.from, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create mail service")
	}

	return svc, nil
}
