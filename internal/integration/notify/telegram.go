package notify

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/manasakl/cowin-notify/internal/config"
	"github.com/manasakl/cowin-notify/internal/entities"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramChannel posts the alert to a fixed set of chats
type TelegramChannel struct {
	bot     telegramSender
	chatIDs []int64
}

// NewTelegramChannel authorizes the bot and parses the chat IDs
func NewTelegramChannel(cfg config.TelegramConfig) (*TelegramChannel, error) {
	chatIDs, err := parseChatIDs(cfg.ChatIDs)
	if err != nil {
		return nil, err
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %v", err)
	}

	return &TelegramChannel{bot: bot, chatIDs: chatIDs}, nil
}

func parseChatIDs(raw []string) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram chat id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Send(ctx context.Context, body string) []entities.Delivery {
	deliveries := make([]entities.Delivery, 0, len(c.chatIDs))
	for _, chatID := range c.chatIDs {
		d := entities.Delivery{Channel: c.Name(), Recipient: strconv.FormatInt(chatID, 10)}
		if err := ctx.Err(); err != nil {
			d.Err = err
			deliveries = append(deliveries, d)
			continue
		}
		if _, err := c.bot.Send(tgbotapi.NewMessage(chatID, body)); err != nil {
			d.Err = err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries
}
