package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/manasakl/cowin-notify/internal/config"
	"github.com/manasakl/cowin-notify/internal/entities"
)

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailChannel sends one plain-text message per recipient, each over its own SMTP session.
type EmailChannel struct {
	dialer  mailDialer
	from    string
	subject string
	to      []string
}

func NewEmailChannel(cfg config.MailConfig) *EmailChannel {
	username := cfg.Username
	if username == "" {
		username = cfg.From
	}
	return &EmailChannel{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, username, cfg.Password),
		from:    cfg.From,
		subject: cfg.Subject,
		to:      cfg.To,
	}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Send(ctx context.Context, body string) []entities.Delivery {
	deliveries := make([]entities.Delivery, 0, len(c.to))
	for _, dest := range c.to {
		d := entities.Delivery{Channel: c.Name(), Recipient: dest}
		if err := ctx.Err(); err != nil {
			d.Err = err
			deliveries = append(deliveries, d)
			continue
		}

		m := gomail.NewMessage()
		m.SetHeader("From", c.from)
		m.SetHeader("To", dest)
		m.SetHeader("Subject", c.subject)
		m.SetBody("text/plain", body)

		if err := c.dialer.DialAndSend(m); err != nil {
			d.Err = fmt.Errorf("smtp send to %s: %w", dest, err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries
}
