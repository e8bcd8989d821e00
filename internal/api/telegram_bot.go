package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/manasakl/cowin-notify/internal/entities"
	"github.com/manasakl/cowin-notify/internal/presenter"
)

// TelegramBot lets chat users start a check with /check
type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	checker Checker
	logger  *zap.Logger
}

// NewTelegramBot creates a new Telegram bot handler
func NewTelegramBot(botToken string, checker Checker, logger *zap.Logger) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %v", err)
	}

	return &TelegramBot{
		bot:     bot,
		checker: checker,
		logger:  logger,
	}, nil
}

// Start begins listening for and handling Telegram messages until ctx is done
func (t *TelegramBot) Start(ctx context.Context) {
	t.logger.Info("Authorized on Telegram account", zap.String("account", t.bot.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	t.logger.Info("Bot is now listening for messages...")

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			t.logger.Info("Received message",
				zap.String("user", update.Message.From.UserName),
				zap.Int64("user_id", update.Message.From.ID),
				zap.String("text", update.Message.Text),
			)
			t.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage processes a Telegram message update
func (t *TelegramBot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	var text string
	if message.IsCommand() {
		text = t.respond(ctx, message.Command(), message.CommandArguments())
	} else {
		text = "I don't understand. Use /help to see available commands."
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error("Error sending message", zap.Error(err))
	}
}

// respond builds the reply for a command
func (t *TelegramBot) respond(ctx context.Context, command, args string) string {
	switch command {
	case "start":
		return "Welcome! Use /check [pincode] [days] to look for vaccination slots or /help for more information."
	case "help":
		return "Available commands:\n" +
			"/start - Start the bot\n" +
			"/check [pincode] [days] - Check slots for a pincode over the next days (defaults 560037, 5)\n" +
			"/help - Show this help message"
	case "check":
		return t.handleCheckCommand(ctx, args)
	default:
		return "Unknown command. Use /help to see available commands."
	}
}

// handleCheckCommand processes the /check [pincode] [days] command
func (t *TelegramBot) handleCheckCommand(ctx context.Context, args string) string {
	query, err := parseCheckArgs(args)
	if err != nil {
		return err.Error()
	}

	inv := t.checker.NewInvocation(query, entities.SourceChat)
	summary, err := t.checker.Run(ctx, inv)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidQuery) {
			return err.Error()
		}
		t.logger.Error("Availability check failed", zap.String("run_id", inv.RunID), zap.Error(err))
		return "Error checking availability. Please try again later."
	}
	return presenter.FormatChat(summary)
}

func parseCheckArgs(args string) (entities.Query, error) {
	query := entities.DefaultQuery()
	fields := strings.Fields(args)
	if len(fields) > 0 {
		query.Pincode = fields[0]
	}
	if len(fields) > 1 {
		days, err := strconv.Atoi(fields[1])
		if err != nil {
			return query, fmt.Errorf("day count %q is not a number. Example: /check 560037 5", fields[1])
		}
		query.Days = days
	}
	return query, nil
}
