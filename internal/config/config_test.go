package config_test

import (
	"testing"

	"github.com/zylith/core/internal/config"
)

func TestDefaultConfigUsesLocalASP(t *testing.T) {
	cfg := config.DefaultConfig()
	if cfg.ASPURL == "" {
		t.Fatalf("expected a non-empty default ASP URL")
	}
	if cfg.Mode != config.ModeASP {
		t.Fatalf("expected ModeASP by default, got %q", cfg.Mode)
	}
}

func TestPredefinedFeeTiers(t *testing.T) {
	cases := []struct {
		tier        config.FeeTier
		fee         uint32
		tickSpacing int32
	}{
		{config.LowFee, 500, 10},
		{config.MediumFee, 3000, 60},
		{config.HighFee, 10000, 200},
	}
	for _, c := range cases {
		if c.tier.Fee != c.fee || c.tier.TickSpacing != c.tickSpacing {
			t.Fatalf("tier %s = %+v, want fee=%d tickSpacing=%d", c.tier.Name, c.tier, c.fee, c.tickSpacing)
		}
	}
}

func TestFeeTierByFeeRoundTrips(t *testing.T) {
	tier, err := config.FeeTierByFee(3000)
	if err != nil {
		t.Fatalf("FeeTierByFee(3000): %v", err)
	}
	if tier.Name != "MEDIUM" {
		t.Fatalf("expected MEDIUM, got %s", tier.Name)
	}

	if _, err := config.FeeTierByFee(1); err == nil {
		t.Fatalf("expected an error for an unknown fee tier")
	}
}

func TestPoolKeyIsDeterministicAndOrderSensitive(t *testing.T) {
	a := config.PoolKey("0xaaa", "0xbbb", config.LowFee)
	b := config.PoolKey("0xaaa", "0xbbb", config.LowFee)
	if a != b {
		t.Fatalf("PoolKey is not deterministic: %q != %q", a, b)
	}

	reversed := config.PoolKey("0xbbb", "0xaaa", config.LowFee)
	if a == reversed {
		t.Fatalf("PoolKey should distinguish token order")
	}

	different := config.PoolKey("0xaaa", "0xbbb", config.MediumFee)
	if a == different {
		t.Fatalf("PoolKey should distinguish fee tier")
	}
}
