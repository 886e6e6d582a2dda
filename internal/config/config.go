package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/whisperbot/core/config"
	coredatabase "github.com/m3rciful/whisperbot/core/database"
	"github.com/m3rciful/whisperbot/internal/domain"
)

// Count policies for the delivery workflow. With before_send a failed
// forward still consumes recipient quota.
const (
	CountBeforeSend   = "before_send"
	CountAfterSuccess = "after_success"
)

// QuotaConfig controls daily received-message limits and the reset schedule.
type QuotaConfig struct {
	FreeDailyLimit       int    `yaml:"free_daily_limit" envconfig:"QUOTA_FREE_DAILY_LIMIT"`
	SubscribedDailyLimit int    `yaml:"subscribed_daily_limit" envconfig:"QUOTA_SUBSCRIBED_DAILY_LIMIT"`
	// ResetTime is the local HH:MM at which cmd/quotareset zeroes counters.
	ResetTime string `yaml:"reset_time" envconfig:"QUOTA_RESET_TIME"`
}

// DeliveryConfig controls the anonymous delivery workflow.
type DeliveryConfig struct {
	CountPolicy string `yaml:"count_policy" envconfig:"DELIVERY_COUNT_POLICY"`
}

// Config aggregates core bot settings with whisperbot-specific sections.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Quota    QuotaConfig         `yaml:"quota"`
	Delivery DeliveryConfig      `yaml:"delivery"`
}

// CoreConfig exposes the embedded core configuration for the runner pipeline.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// Limits returns the configured quota limits as a domain value.
func (c *Config) Limits() domain.Limits {
	return domain.Limits{
		Free:       c.Quota.FreeDailyLimit,
		Subscribed: c.Quota.SubscribedDailyLimit,
	}
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and fills whisperbot defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return err
	}

	if cfg.Quota.FreeDailyLimit == 0 {
		cfg.Quota.FreeDailyLimit = domain.DefaultLimits.Free
	}
	if cfg.Quota.SubscribedDailyLimit == 0 {
		cfg.Quota.SubscribedDailyLimit = domain.DefaultLimits.Subscribed
	}
	if cfg.Quota.FreeDailyLimit < 0 || cfg.Quota.SubscribedDailyLimit < 0 {
		return fmt.Errorf("quota limits must be >= 0")
	}
	if cfg.Quota.ResetTime == "" {
		cfg.Quota.ResetTime = "00:00"
	}

	policy := strings.ToLower(strings.TrimSpace(cfg.Delivery.CountPolicy))
	if policy == "" {
		policy = CountBeforeSend
	}
	switch policy {
	case CountBeforeSend, CountAfterSuccess:
	default:
		return fmt.Errorf("invalid delivery.count_policy %q; allowed: %s, %s",
			cfg.Delivery.CountPolicy, CountBeforeSend, CountAfterSuccess)
	}
	cfg.Delivery.CountPolicy = policy

	return nil
}
