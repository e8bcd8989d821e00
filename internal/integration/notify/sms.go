package notify

import (
	"context"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/manasakl/cowin-notify/internal/config"
	"github.com/manasakl/cowin-notify/internal/entities"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSChannel sends text messages through the Twilio gateway
type SMSChannel struct {
	api  messageCreator
	from string
	to   []string
}

func NewSMSChannel(cfg config.SMSConfig) *SMSChannel {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &SMSChannel{api: client.Api, from: cfg.From, to: cfg.To}
}

func (c *SMSChannel) Name() string { return "sms" }

func (c *SMSChannel) Send(ctx context.Context, body string) []entities.Delivery {
	deliveries := make([]entities.Delivery, 0, len(c.to))
	for _, number := range c.to {
		d := entities.Delivery{Channel: c.Name(), Recipient: number}
		if err := ctx.Err(); err != nil {
			d.Err = err
			deliveries = append(deliveries, d)
			continue
		}

		params := &twilioApi.CreateMessageParams{}
		params.SetFrom(c.from)
		params.SetTo(number)
		params.SetBody(body)

		if _, err := c.api.CreateMessage(params); err != nil {
			d.Err = err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries
}
