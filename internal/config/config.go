// Package config holds the settings of the club manager server and seeder.
package config

import (
	"time"
	_ "time/tzdata"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Billing   BillingConfig   `mapstructure:"billing"`
	Reminders RemindersConfig `mapstructure:"reminders"`
	Timezone  string          `mapstructure:"timezone" validate:"required"`
}

type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn" validate:"required"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type AdminConfig struct {
	Password   string        `mapstructure:"password"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
}

type BillingConfig struct {
	FeeProduct string  `mapstructure:"fee_product" validate:"required"`
	DefaultFee float64 `mapstructure:"default_fee" validate:"gte=0"`
}

type RemindersConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Schedule   string  `mapstructure:"schedule" validate:"required,cronspec"`
	DaysAhead  int     `mapstructure:"days_ahead" validate:"gte=0,lte=60"`
	BotToken   string  `mapstructure:"telegram_token"`
	APIURL     string  `mapstructure:"telegram_api_url" validate:"required,url"`
	RatePerSec float64 `mapstructure:"rate_per_sec" validate:"gt=0"`
	RetryMax   int     `mapstructure:"retry_max" validate:"gte=0"`

	// WebhookSecret enables POST /tg/webhook; AdminChatID also receives admin notifications.
	WebhookSecret string `mapstructure:"webhook_secret"`
	AdminChatID   int64  `mapstructure:"admin_chat_id"`
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
