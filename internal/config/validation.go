package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"github.com/akashjainn/propsage-sub000/internal/models"
	"github.com/akashjainn/propsage-sub000/internal/pricing"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Tags are compile-time constants, so registration cannot fail
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("devigmethod", validateDevigMethod)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
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

func validateDevigMethod(fl validator.FieldLevel) bool {
	_, err := pricing.ParseMethod(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if r := cfg.Pricing.LineRange; r != (models.LineRange{}) {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("pricing.line_range: %w", err)
		}
	}

	seen := make(map[string]bool, len(cfg.Books))
	for _, b := range cfg.Books {
		name := strings.ToLower(b.Name)
		if seen[name] {
			return fmt.Errorf("book %q is configured more than once", b.Name)
		}
		seen[name] = true
	}

	if cfg.Cache.Enabled && cfg.Cache.MaxSize == 0 {
		return fmt.Errorf("cache.max_size must be positive when the cache is enabled")
	}

	if cfg.Schedule.RepriceCron != "" {
		if _, err := cron.ParseStandard(cfg.Schedule.RepriceCron); err != nil {
			return fmt.Errorf("schedule.reprice_cron: %w", err)
		}
	}

	if cfg.IsProduction() && cfg.MonteCarlo.Seed != 0 {
		return fmt.Errorf("monte_carlo.seed must be unset in production")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s=%s violated, got '%v'\n", field, tag, fieldError.Param(), value)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "devigmethod":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: multiplicative, shin\n", field)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
