package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dwdex_config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimal = `
unit_list:
  - name: Dalek
    health: 120
    attack: 40
    rarity: 0.9
    enabled: true
  - name: Ood
    health: 100
    attack: 25
    rarity: 0.5
    enabled: true
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":8080" {
		t.Fatalf("unexpected default address %q", cfg.ServerAddress)
	}
	if cfg.ActionTimeout != 60*time.Second || cfg.RoundPause != 3*time.Second {
		t.Fatalf("unexpected default timings: %v / %v", cfg.ActionTimeout, cfg.RoundPause)
	}
	if cfg.Cooldown != time.Hour || cfg.SetupTTL != 5*time.Minute {
		t.Fatalf("unexpected default cooldown/ttl: %v / %v", cfg.Cooldown, cfg.SetupTTL)
	}
	if cfg.RewardWinThreshold != 3 || cfg.RewardRarityPercentile != 0.55 {
		t.Fatalf("unexpected reward defaults: %d / %v", cfg.RewardWinThreshold, cfg.RewardRarityPercentile)
	}
	if time.Weekday(cfg.BonusWeekday) != time.Monday {
		t.Fatalf("unexpected bonus weekday %d", cfg.BonusWeekday)
	}
	if len(cfg.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(cfg.Units))
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal+`
server_address: ":9999"
action_timeout: 10s
battle_cooldown: 30m
reward_win_threshold: 5
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":9999" || cfg.ActionTimeout != 10*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Cooldown != 30*time.Minute || cfg.RewardWinThreshold != 5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name, content string
	}{
		{"missing units", "server_address: ':8080'\n"},
		{"bad unit stats", "unit_list:\n  - name: X\n    health: 0\n    attack: 1\n"},
		{"bad percentile", minimal + "reward_rarity_percentile: 2.0\n"},
		{"bad weekday", minimal + "bonus_weekday: 9\n"},
		{"bad timeout", minimal + "action_timeout: 0s\n"},
		{"negative pause", minimal + "round_pause: -1s\n"},
		{"negative cooldown", minimal + "battle_cooldown: -30m\n"},
	}
	for _, tc := range cases {
		if _, err := Load(writeConfig(t, tc.content)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
