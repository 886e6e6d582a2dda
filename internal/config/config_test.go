package config

import (
	"testing"

	"github.com/m3rciful/whisperbot/internal/domain"
)

func baseConfig() *Config {
	cfg := &Config{}
	cfg.Core.Telegram.Token = "test-token"
	return cfg
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := baseConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if cfg.Quota.FreeDailyLimit != domain.DefaultLimits.Free {
		t.Errorf("free limit = %d, want %d", cfg.Quota.FreeDailyLimit, domain.DefaultLimits.Free)
	}
	if cfg.Quota.SubscribedDailyLimit != domain.DefaultLimits.Subscribed {
		t.Errorf("subscribed limit = %d, want %d", cfg.Quota.SubscribedDailyLimit, domain.DefaultLimits.Subscribed)
	}
	if cfg.Quota.ResetTime != "00:00" {
		t.Errorf("reset time = %q, want 00:00", cfg.Quota.ResetTime)
	}
	if cfg.Delivery.CountPolicy != CountBeforeSend {
		t.Errorf("count policy = %q, want %q", cfg.Delivery.CountPolicy, CountBeforeSend)
	}
}

func TestNormalizeCountPolicy(t *testing.T) {
	cfg := baseConfig()
	cfg.Delivery.CountPolicy = " After_Success "
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if cfg.Delivery.CountPolicy != CountAfterSuccess {
		t.Errorf("count policy = %q, want %q", cfg.Delivery.CountPolicy, CountAfterSuccess)
	}

	cfg = baseConfig()
	cfg.Delivery.CountPolicy = "sometimes"
	if err := Normalize(cfg); err == nil {
		t.Error("expected error for unknown count policy")
	}
}

func TestNormalizeRejectsNegativeLimits(t *testing.T) {
	cfg := baseConfig()
	cfg.Quota.FreeDailyLimit = -1
	if err := Normalize(cfg); err == nil {
		t.Error("expected error for negative quota limit")
	}
}

func TestLimits(t *testing.T) {
	cfg := baseConfig()
	cfg.Quota.FreeDailyLimit = 3
	cfg.Quota.SubscribedDailyLimit = 12
	got := cfg.Limits()
	if got.Free != 3 || got.Subscribed != 12 {
		t.Errorf("Limits = %+v, want {3 12}", got)
	}
}
