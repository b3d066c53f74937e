package client

import (
	"context"
	"errors"

	"cardapiopro-backend/internal/config"

	"gopkg.in/gomail.v2"
)

var ErrMailDisabled = errors.New("mail: smtp not configured")

type MailClient interface {
	Send(ctx context.Context, to, subject, html string) error
}

type gomailClient struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailClient returns a client that always fails with ErrMailDisabled when
// SMTP is not fully configured, so callers keep a single code path.
func NewMailClient(cfg config.SMTP) MailClient {
	if !cfg.Configured() {
		return disabledMailClient{}
	}

	return &gomailClient{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   cfg.From,
	}
}

func (c *gomailClient) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	return c.dialer.DialAndSend(m)
}

type disabledMailClient struct{}

func (disabledMailClient) Send(context.Context, string, string, string) error {
	return ErrMailDisabled
}
