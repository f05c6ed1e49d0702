package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Matching != DefaultMatching() {
		t.Errorf("matching = %+v, want %+v", cfg.Matching, DefaultMatching())
	}
	if cfg.Dispatch != DefaultDispatch() {
		t.Errorf("dispatch = %+v, want %+v", cfg.Dispatch, DefaultDispatch())
	}
	p := cfg.Pricing
	if p.BaseFare != 50 || p.RatePerKm != 12 || p.MinFare != 60 {
		t.Errorf("unexpected pricing defaults: %+v", p)
	}
	if len(p.SurgeTiers) != 2 {
		t.Fatalf("expected 2 surge tiers, got %d", len(p.SurgeTiers))
	}
	if p.FallbackActiveThreshold != 10 || p.FallbackMultiplier != 1.2 {
		t.Errorf("unexpected fallback: %+v", p)
	}
	if cfg.HTTP.TriggerRPS != 2 || cfg.HTTP.TriggerBurst != 5 || cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected http defaults: %+v", cfg.HTTP)
	}
	if len(cfg.HTTP.AllowOrigins) != 1 || cfg.HTTP.AllowOrigins[0] != "*" {
		t.Errorf("allow_origins = %v, want [*]", cfg.HTTP.AllowOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RIDEPOOL_MATCHING_MAX_WAIT", "10m")
	t.Setenv("RIDEPOOL_MATCHING_VEHICLE_CAPACITY", "4")
	t.Setenv("RIDEPOOL_HTTP_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Matching.MaxWait != 10*time.Minute {
		t.Errorf("max_wait = %v, want 10m", cfg.Matching.MaxWait)
	}
	if cfg.Matching.VehicleCapacity != 4 {
		t.Errorf("vehicle_capacity = %d, want 4", cfg.Matching.VehicleCapacity)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("http.addr = %q, want :9090", cfg.HTTP.Addr)
	}
}

func TestValidate(t *testing.T) {
	base := Config{Matching: DefaultMatching(), Pricing: DefaultPricing(), Dispatch: DefaultDispatch()}
	if err := base.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero capacity", func(c *Config) { c.Matching.VehicleCapacity = 0 }},
		{"negative wait", func(c *Config) { c.Matching.MaxWait = -time.Second }},
		{"zero pickup radius", func(c *Config) { c.Matching.PickupRadiusKm = 0 }},
		{"negative min fare", func(c *Config) { c.Pricing.MinFare = -1 }},
		{"zero group timeout", func(c *Config) { c.Dispatch.GroupTimeout = 0 }},
		{"trigger rps without burst", func(c *Config) { c.HTTP.TriggerRPS = 1; c.HTTP.TriggerBurst = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
