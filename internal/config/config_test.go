package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashjainn/propsage-sub000/internal/models"
	"github.com/akashjainn/propsage-sub000/internal/pricing"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	invalidConfigPath     = "testdata/invalid_config.yaml"
	malformedConfigPath   = "testdata/malformed_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	return cfg
}

func TestLoadConfigSuccess(t *testing.T) {
	cfg := validConfig(t)

	assert.Equal(t, "propsage", cfg.App.Name)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 0.7, cfg.Pricing.BlendAlpha)
	assert.Equal(t, 3, cfg.Pricing.MinBooks)
	assert.Equal(t, models.LineRange{Min: 10, Max: 40, Step: 0.5}, cfg.Pricing.LineRange)
	assert.Equal(t, "shin", cfg.Pricing.DevigMethod)
	assert.Equal(t, 20000, cfg.MonteCarlo.Simulations)
	assert.Equal(t, int64(42), cfg.MonteCarlo.Seed)
	require.Len(t, cfg.Books, 3)
	assert.Equal(t, "pinnacle", cfg.Books[0].Name)
	assert.Equal(t, 2.0, cfg.Books[0].Weight)
	assert.Equal(t, 120*time.Second, cfg.CacheTTL())
	assert.Equal(t, "*/2 * * * *", cfg.Schedule.RepriceCron)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadConfigMalformed(t *testing.T) {
	_, err := Load(malformedConfigPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")

	_, err = LoadWithDefaults(malformedConfigPath)
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("PROPSAGE_APP_NAME", "propsage-test")
	t.Setenv("PROPSAGE_PRICING_MIN_BOOKS", "5")

	cfg := validConfig(t)
	assert.Equal(t, "propsage-test", cfg.App.Name)
	assert.Equal(t, 5, cfg.Pricing.MinBooks)
}

func TestLoadConfigExpansion(t *testing.T) {
	t.Setenv("PROPSAGE_TEST_ENVIRONMENT", "staging")
	t.Setenv("PROPSAGE_TEST_TEXTFILE_DIR", "/var/lib/node_exporter")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, "/var/lib/node_exporter/propsage.prom", cfg.Metrics.TextfilePath)
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "propsage", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 0.6, cfg.Pricing.BlendAlpha)
	assert.Equal(t, 2, cfg.Pricing.MinBooks)
	assert.Equal(t, 0.5, cfg.Pricing.ConfidenceThreshold)
	assert.Equal(t, "multiplicative", cfg.Pricing.DevigMethod)
	assert.Equal(t, 4, cfg.Pricing.Workers)
	assert.Equal(t, 50000, cfg.MonteCarlo.Simulations)
	assert.Equal(t, 2000, cfg.MonteCarlo.ReservoirSize)
	assert.Equal(t, 1, cfg.MonteCarlo.Workers)
	assert.Empty(t, cfg.Books)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "*/5 * * * *", cfg.Schedule.RepriceCron)

	assert.NoError(t, Validate(cfg))
}

func TestValidateInvalidFields(t *testing.T) {
	cfg, err := Load(invalidConfigPath)
	require.NoError(t, err)

	err = Validate(cfg)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "Field 'Environment' must be one of")
	assert.Contains(t, msg, "Field 'LogLevel' must be one of")
	assert.Contains(t, msg, "Field 'BlendAlpha' validation failed")
	assert.Contains(t, msg, "Field 'DevigMethod' must be one of")
}

func TestValidateCrossField(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "inverted line range",
			mutate:  func(c *Config) { c.Pricing.LineRange = models.LineRange{Min: 40, Max: 10, Step: 1} },
			wantErr: "pricing.line_range",
		},
		{
			name:    "zero step",
			mutate:  func(c *Config) { c.Pricing.LineRange = models.LineRange{Min: 10, Max: 40} },
			wantErr: "step must be positive",
		},
		{
			name: "duplicate book",
			mutate: func(c *Config) {
				c.Books = append(c.Books, BookWeightConfig{Name: "Pinnacle", Weight: 1})
			},
			wantErr: "configured more than once",
		},
		{
			name:    "cache without size",
			mutate:  func(c *Config) { c.Cache.MaxSize = 0 },
			wantErr: "cache.max_size",
		},
		{
			name:    "bad cron",
			mutate:  func(c *Config) { c.Schedule.RepriceCron = "every minute" },
			wantErr: "schedule.reprice_cron",
		},
		{
			name: "fixed seed in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
			},
			wantErr: "monte_carlo.seed",
		},
		{
			name:   "disabled cache needs no size",
			mutate: func(c *Config) { c.Cache.Enabled = false; c.Cache.MaxSize = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPricingOptions(t *testing.T) {
	opts := validConfig(t).PricingOptions()

	assert.Equal(t, 0.7, opts.BlendAlpha)
	assert.Equal(t, 3, opts.MinBooks)
	require.NotNil(t, opts.LineRange)
	assert.Equal(t, 40.0, opts.LineRange.Max)
	assert.Equal(t, 0.4, opts.ConfidenceThreshold)
	assert.Equal(t, pricing.MethodShin, opts.DevigMethod)
	assert.Equal(t, []models.BookWeight{
		{Book: "pinnacle", Weight: 2},
		{Book: "draftkings", Weight: 1},
		{Book: "fanduel", Weight: 1},
	}, opts.BookWeights)
	assert.Equal(t, 20000, opts.MonteCarlo.Simulations)
	assert.Equal(t, 1000, opts.MonteCarlo.ReservoirSize)
	assert.Equal(t, 2, opts.MonteCarlo.Workers)
	assert.Equal(t, int64(42), opts.MonteCarlo.Seed)
}

func TestPricingOptionsWithoutLineRange(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	require.NoError(t, err)

	opts := cfg.PricingOptions()
	assert.Nil(t, opts.LineRange)
	assert.Equal(t, pricing.MethodMultiplicative, opts.DevigMethod)
	assert.Empty(t, opts.BookWeights)
}
