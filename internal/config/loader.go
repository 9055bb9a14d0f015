package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. NATACION_HTTP_ADDR.
const EnvPrefix = "NATACION"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "natacion")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("database.dsn", "natacion.db?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.session_ttl", "12h")
	v.SetDefault("billing.fee_product", "Cuota Federado")
	v.SetDefault("billing.default_fee", 40.0)
	v.SetDefault("reminders.enabled", false)
	v.SetDefault("reminders.schedule", "0 9 * * *")
	v.SetDefault("reminders.days_ahead", 15)
	v.SetDefault("reminders.telegram_token", "")
	v.SetDefault("reminders.telegram_api_url", "https://api.telegram.org")
	v.SetDefault("reminders.rate_per_sec", 20.0)
	v.SetDefault("reminders.retry_max", 3)
	v.SetDefault("reminders.webhook_secret", "")
	v.SetDefault("reminders.admin_chat_id", 0)
	v.SetDefault("timezone", "Europe/Madrid")
}

// Load reads an optional .env, then the YAML file at path (skipped when empty
// or missing), then NATACION_* environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
