// Package config provides configuration management for the PropSage pricing engine.
package config

import (
	"time"

	"github.com/akashjainn/propsage-sub000/internal/models"
	"github.com/akashjainn/propsage-sub000/internal/montecarlo"
	"github.com/akashjainn/propsage-sub000/internal/pricing"
	"github.com/akashjainn/propsage-sub000/internal/service"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig          `mapstructure:"app" validate:"required"`
	Pricing    PricingConfig      `mapstructure:"pricing" validate:"required"`
	MonteCarlo MonteCarloConfig   `mapstructure:"monte_carlo" validate:"required"`
	Books      []BookWeightConfig `mapstructure:"books" validate:"dive"`
	Cache      CacheConfig        `mapstructure:"cache"`
	Metrics    MetricsConfig      `mapstructure:"metrics"`
	Schedule   ScheduleConfig     `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// PricingConfig controls the market curve, blend and fair line pipeline
type PricingConfig struct {
	BlendAlpha          float64          `mapstructure:"blend_alpha" validate:"gte=0,lte=1"`
	MinBooks            int              `mapstructure:"min_books" validate:"gte=1"`
	LineRange           models.LineRange `mapstructure:"line_range"`
	ConfidenceThreshold float64          `mapstructure:"confidence_threshold" validate:"gte=0,lte=1"`
	DevigMethod         string           `mapstructure:"devig_method" validate:"required,devigmethod"`
	Workers             int              `mapstructure:"workers" validate:"gte=1,lte=256"`
}

// MonteCarloConfig controls the evidence simulation
type MonteCarloConfig struct {
	Simulations   int   `mapstructure:"simulations" validate:"gte=100,lte=10000000"`
	ReservoirSize int   `mapstructure:"reservoir_size" validate:"gte=10"`
	Seed          int64 `mapstructure:"seed"`
	Workers       int   `mapstructure:"workers" validate:"gte=1,lte=64"`
}

// BookWeightConfig weights one sportsbook in the consensus
type BookWeightConfig struct {
	Name   string  `mapstructure:"name" validate:"required"`
	Weight float64 `mapstructure:"weight" validate:"gte=0"`
}

// CacheConfig represents the pricing result cache
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"gte=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"gte=0"`
}

// MetricsConfig represents metrics export configuration
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	TextfilePath string `mapstructure:"textfile_path"`
	Addr         string `mapstructure:"addr"`
}

// ScheduleConfig represents the re-pricing schedule used by the watch command
type ScheduleConfig struct {
	RepriceCron string `mapstructure:"reprice_cron"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// BookWeights returns the configured consensus weights
func (c *Config) BookWeights() []models.BookWeight {
	weights := make([]models.BookWeight, 0, len(c.Books))
	for _, b := range c.Books {
		weights = append(weights, models.BookWeight{Book: b.Name, Weight: b.Weight})
	}
	return weights
}

// CacheTTL returns the cache entry lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// PricingOptions converts the configuration into pricing service options
func (c *Config) PricingOptions() service.Options {
	method, err := pricing.ParseMethod(c.Pricing.DevigMethod)
	if err != nil {
		method = pricing.MethodMultiplicative
	}
	var lineRange *models.LineRange
	if c.Pricing.LineRange.Step > 0 {
		r := c.Pricing.LineRange
		lineRange = &r
	}
	return service.Options{
		BlendAlpha:          c.Pricing.BlendAlpha,
		MinBooks:            c.Pricing.MinBooks,
		LineRange:           lineRange,
		ConfidenceThreshold: c.Pricing.ConfidenceThreshold,
		DevigMethod:         method,
		BookWeights:         c.BookWeights(),
		MonteCarlo: montecarlo.Options{
			Simulations:   c.MonteCarlo.Simulations,
			ReservoirSize: c.MonteCarlo.ReservoirSize,
			Workers:       c.MonteCarlo.Workers,
			Seed:          c.MonteCarlo.Seed,
		},
	}
}
