// Package config loads runtime settings from the environment and an optional .env file
package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// DBDisabled turns the run audit off when used as DB_PATH
	DBDisabled = "off"
)

type Config struct {
	Env    string
	Port   int
	DBPath string

	Log      LogConfig
	Cowin    CowinConfig
	SMS      SMSConfig
	Mail     MailConfig
	Telegram TelegramConfig
	Watch    WatchConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// CowinConfig points the fetcher at the availability service
type CowinConfig struct {
	BaseURL   string
	UserAgent string
}

// SMSConfig holds the messaging gateway credentials and destinations.
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	To         []string
}

// Enabled reports whether every value needed to send a text message is present.
func (c SMSConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != "" && len(c.To) > 0
}

// MailConfig holds the SMTP relay settings and the recipient list.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Subject  string
}

// Enabled reports whether the relay can be used.
func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.From != "" && len(c.To) > 0
}

type TelegramConfig struct {
	BotToken string
	ChatIDs  []string
}

func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && len(c.ChatIDs) > 0
}

// WatchConfig drives the scheduled runner
type WatchConfig struct {
	Schedule string
	Pincode  string
	Days     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.DBPath = v.GetString("DB_PATH")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cowin = CowinConfig{
		BaseURL:   v.GetString("COWIN_BASE_URL"),
		UserAgent: v.GetString("COWIN_USER_AGENT"),
	}

	cfg.SMS = SMSConfig{
		AccountSID: v.GetString("TWILIO_ACCOUNT_SID"),
		AuthToken:  v.GetString("TWILIO_AUTH_TOKEN"),
		From:       v.GetString("TWILIO_FROM"),
		To:         splitAndTrim(v.GetString("SMS_TO")),
	}

	cfg.Mail = MailConfig{
		Host:     v.GetString("SMTP_HOST"),
		Port:     v.GetInt("SMTP_PORT"),
		Username: v.GetString("SMTP_USERNAME"),
		Password: v.GetString("SMTP_PASSWORD"),
		From:     v.GetString("MAIL_FROM"),
		To:       splitAndTrim(v.GetString("MAIL_TO")),
		Subject:  v.GetString("MAIL_SUBJECT"),
	}

	cfg.Telegram = TelegramConfig{
		BotToken: v.GetString("TELEGRAM_BOT_TOKEN"),
		ChatIDs:  splitAndTrim(v.GetString("TELEGRAM_CHAT_IDS")),
	}

	cfg.Watch = WatchConfig{
		Schedule: v.GetString("WATCH_SCHEDULE"),
		Pincode:  v.GetString("WATCH_PINCODE"),
		Days:     v.GetInt("WATCH_DAYS"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_PATH", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("COWIN_BASE_URL", "")
	v.SetDefault("COWIN_USER_AGENT", "Mozilla/5.0 (compatible; cowin-notify/1.0)")

	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_FROM", "")
	v.SetDefault("SMS_TO", "")

	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("MAIL_TO", "")
	v.SetDefault("MAIL_SUBJECT", "CoWin Notification")

	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("TELEGRAM_CHAT_IDS", "")

	v.SetDefault("WATCH_SCHEDULE", "*/15 * * * *")
	v.SetDefault("WATCH_PINCODE", "560037")
	v.SetDefault("WATCH_DAYS", 5)
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
