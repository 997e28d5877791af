// Package mailer delivers assessment summaries over SMTP.
package mailer

import (
	"bytes"
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wneessen/go-mail"
)

// Service defines the interface for emailing report summaries
type Service interface {
	// Send delivers one message synchronously. The context bounds the
	// whole dial-and-send exchange.
	Send(ctx context.Context, msg *Message) error
}

// Attachment is an optional file attached to a message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one outgoing email
type Message struct {
	Recipients []string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Validate checks the message before sending
func (m *Message) Validate() error {
	if len(m.Recipients) == 0 {
		return goerr.New("at least one recipient is required")
	}
	if m.Subject == "" {
		return goerr.New("subject is required")
	}
	return nil
}

// client implements Service interface
type client struct {
	smtp *mail.Client
	from string
}

// Option is a functional option for client configuration
type Option func(*config)

type config struct {
	port      int
	username  string
	password  string
	tlsPolicy mail.TLSPolicy
}

// WithPort sets the SMTP port
func WithPort(port int) Option {
	return func(c *config) {
		c.port = port
	}
}

// WithAuth sets SMTP PLAIN authentication credentials
func WithAuth(username, password string) Option {
	return func(c *config) {
		c.username = username
		c.password = password
	}
}

// WithTLSPolicy overrides the TLS negotiation policy
func WithTLSPolicy(policy mail.TLSPolicy) Option {
	return func(c *config) {
		c.tlsPolicy = policy
	}
}

// New creates a new SMTP mail service
func New(host, from string, opts ...Option) (Service, error) {
	if host == "" {
		return nil, goerr.New("SMTP host is required")
	}
	if from == "" {
		return nil, goerr.New("sender address is required")
	}

	cfg := &config{
		port:      mail.DefaultPort,
		tlsPolicy: mail.TLSOpportunistic,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	clientOpts := []mail.Option{
		mail.WithPort(cfg.port),
		mail.WithTLSPolicy(cfg.tlsPolicy),
	}
	if cfg.username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.username),
			mail.WithPassword(cfg.password),
		)
	}

	smtp, err := mail.NewClient(host, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create SMTP client", goerr.V("host", host))
	}

	return &client{smtp: smtp, from: from}, nil
}

// Send delivers one message to all recipients
func (c *client) Send(ctx context.Context, msg *Message) error {
	if msg == nil {
		return goerr.New("message is required")
	}
	if err := msg.Validate(); err != nil {
		return goerr.Wrap(err, "invalid mail message")
	}

	m := mail.NewMsg()
	if err := m.From(c.from); err != nil {
		return goerr.Wrap(err, "invalid sender address", goerr.V("from", c.from))
	}
	if err := m.To(msg.Recipients...); err != nil {
		return goerr.Wrap(err, "invalid recipient address", goerr.V("recipients", msg.Recipients))
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if msg.Attachment != nil {
		if err := m.AttachReader(msg.Attachment.Filename, bytes.NewReader(msg.Attachment.Data)); err != nil {
			return goerr.Wrap(err, "failed to attach file", goerr.V("filename", msg.Attachment.Filename))
		}
	}

	if err := c.smtp.DialAndSendWithContext(ctx, m); err != nil {
		return goerr.Wrap(err, "failed to send mail", goerr.V("recipients", msg.Recipients))
	}

	return nil
}
