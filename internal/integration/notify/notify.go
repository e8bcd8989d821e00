// Package notify composes the availability alert and fans it out to the configured channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/manasakl/cowin-notify/internal/config"
	"github.com/manasakl/cowin-notify/internal/entities"
)

// ErrNoChannels is returned when configuration enables no delivery channel
var ErrNoChannels = errors.New("no notification channel configured")

// Channel delivers one body to each of its recipients.
type Channel interface {
	// Name returns the channel identifier used in logs and metrics
	Name() string
	// Send attempts every recipient and reports one delivery per recipient
	Send(ctx context.Context, body string) []entities.Delivery
}

// FacilityNames returns the distinct facility names in order of first appearance
func FacilityNames(rows []entities.AvailabilityRecord) []string {
	seen := make(map[string]struct{}, len(rows))
	var names []string
	for _, r := range rows {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		names = append(names, r.Name)
	}
	return names
}

// ComposeBody builds the alert text shared by every channel
func ComposeBody(names []string) string {
	return fmt.Sprintf("Cowin notification : Run for vaccine at [%s]", strings.Join(names, ", "))
}

// Dispatcher sends the alert through every channel, one after another.
type Dispatcher struct {
	channels []Channel
	logger   *zap.Logger
}

func NewDispatcher(logger *zap.Logger, channels ...Channel) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{channels: channels, logger: logger}
}

// Channels returns the configured channel names
func (d *Dispatcher) Channels() []string {
	names := make([]string, len(d.channels))
	for i, ch := range d.channels {
		names[i] = ch.Name()
	}
	return names
}

// Dispatch notifies every recipient when rows is non-empty. It returns nil when
// there is nothing to announce. A failing recipient never stops the others.
func (d *Dispatcher) Dispatch(ctx context.Context, inv entities.Invocation, rows []entities.AvailabilityRecord) *entities.DispatchReport {
	if len(rows) == 0 {
		return nil
	}
	log := d.logger.With(zap.String("run_id", inv.RunID))

	names := FacilityNames(rows)
	report := &entities.DispatchReport{Body: ComposeBody(names)}
	if len(d.channels) == 0 {
		log.Warn("Availability found but no notification channel is configured", zap.Strings("facilities", names))
		return report
	}

	for _, ch := range d.channels {
		deliveries := ch.Send(ctx, report.Body)
		for _, del := range deliveries {
			if del.OK() {
				log.Info("Notification sent", zap.String("channel", del.Channel), zap.String("recipient", del.Recipient))
			} else {
				log.Error("Notification failed", zap.String("channel", del.Channel), zap.String("recipient", del.Recipient), zap.Error(del.Err))
			}
		}
		report.Deliveries = append(report.Deliveries, deliveries...)
	}

	log.Info("Dispatch finished",
		zap.Int("sent", len(report.Succeeded())),
		zap.Int("failed", len(report.Failed())),
	)
	return report
}

// FromConfig builds every channel whose credentials are present.
// It returns ErrNoChannels alongside an empty slice when none is.
func FromConfig(cfg *config.Config, logger *zap.Logger) ([]Channel, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var channels []Channel

	if cfg.SMS.Enabled() {
		channels = append(channels, NewSMSChannel(cfg.SMS))
	} else {
		logger.Warn("SMS channel disabled: TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM or SMS_TO missing")
	}

	if cfg.Mail.Enabled() {
		channels = append(channels, NewEmailChannel(cfg.Mail))
	} else {
		logger.Warn("Email channel disabled: SMTP_HOST, MAIL_FROM or MAIL_TO missing")
	}

	if cfg.Telegram.Enabled() {
		tg, err := NewTelegramChannel(cfg.Telegram)
		if err != nil {
			return channels, fmt.Errorf("failed to initialize telegram channel: %w", err)
		}
		channels = append(channels, tg)
	}

	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	return channels, nil
}
