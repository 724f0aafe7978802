package config

import (
	"fmt"
	"time"

	"github.com/CharGoon26/dwdex-battles/internal/roster"
	"github.com/spf13/viper"
)

// Config is the full server configuration loaded at startup.
type Config struct {
	ServerAddress string        `mapstructure:"server_address"`
	ActionTimeout time.Duration `mapstructure:"action_timeout"`
	RoundPause    time.Duration `mapstructure:"round_pause"`
	SetupTTL      time.Duration `mapstructure:"setup_ttl"`
	Cooldown      time.Duration `mapstructure:"battle_cooldown"`

	RewardWinThreshold     int     `mapstructure:"reward_win_threshold"`
	RewardRarityPercentile float64 `mapstructure:"reward_rarity_percentile"`
	MaxAttackBonusPercent  int     `mapstructure:"max_attack_bonus_percent"`
	MaxHealthBonusPercent  int     `mapstructure:"max_health_bonus_percent"`
	BonusWeekday           int     `mapstructure:"bonus_weekday"`
	StarterSetSize         int     `mapstructure:"starter_set_size"`

	Units []roster.Template `mapstructure:"unit_list"`
}

// Load reads the configuration file at path, applies defaults and
// validates the unit list. The unit_list key is required.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("server_address", ":8080")
	v.SetDefault("action_timeout", "60s")
	v.SetDefault("round_pause", "3s")
	v.SetDefault("setup_ttl", "5m")
	v.SetDefault("battle_cooldown", "1h")
	v.SetDefault("reward_win_threshold", 3)
	v.SetDefault("reward_rarity_percentile", 0.55)
	v.SetDefault("max_attack_bonus_percent", 20)
	v.SetDefault("max_health_bonus_percent", 20)
	v.SetDefault("bonus_weekday", int(time.Monday))
	v.SetDefault("starter_set_size", 3)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(cfg.Units) == 0 {
		return nil, fmt.Errorf("config file %s: unit_list is empty (provide a 'unit_list' array)", path)
	}
	// Delegate cross-entry validation (unique names, stat ranges) to the
	// catalog constructor so the rules live in one place.
	if _, err := roster.NewCatalog(cfg.Units); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if cfg.RewardWinThreshold <= 0 {
		return nil, fmt.Errorf("config file %s: reward_win_threshold must be positive", path)
	}
	if cfg.RewardRarityPercentile <= 0 || cfg.RewardRarityPercentile > 1 {
		return nil, fmt.Errorf("config file %s: reward_rarity_percentile must be within (0,1]", path)
	}
	if cfg.BonusWeekday < 0 || cfg.BonusWeekday > 6 {
		return nil, fmt.Errorf("config file %s: bonus_weekday must be 0 (Sunday) through 6 (Saturday)", path)
	}
	if cfg.ActionTimeout <= 0 || cfg.SetupTTL <= 0 {
		return nil, fmt.Errorf("config file %s: action_timeout and setup_ttl must be positive", path)
	}
	if cfg.RoundPause < 0 || cfg.Cooldown < 0 {
		return nil, fmt.Errorf("config file %s: round_pause and battle_cooldown must not be negative", path)
	}
	return &cfg, nil
}
