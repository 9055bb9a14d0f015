package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("cronspec", validateCronSpec)
	return &CustomValidator{validator: v}
}

// Validate checks field rules, then the rules that span several fields.
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production", "test":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateCronSpec(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

func validateCrossField(cfg *Config) error {
	if cfg.IsProduction() {
		if cfg.Admin.Password == "" {
			return fmt.Errorf("production environment requires admin.password")
		}
		if len(cfg.Admin.JWTSecret) < 32 {
			return fmt.Errorf("production environment requires admin.jwt_secret of at least 32 bytes")
		}
	}
	if cfg.Reminders.Enabled && cfg.Reminders.BotToken == "" {
		return fmt.Errorf("reminders.enabled requires reminders.telegram_token")
	}
	return nil
}

func formatValidationErrors(verrs validator.ValidationErrors) error {
	var b strings.Builder
	for _, fe := range verrs {
		field := fe.StructNamespace()
		switch fe.Tag() {
		case "required":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, fe.Value())
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, fe.Tag())
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production, test\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "cronspec":
			fmt.Fprintf(&b, "- Field '%s' is not a valid cron schedule: '%v'\n", field, fe.Value())
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, fe.Tag())
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}
