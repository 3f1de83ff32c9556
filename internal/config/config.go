// Package config loads the engine's ambient configuration: per-symbol and
// global risk limits, and the order book's price scale. It follows the
// teacher's viper+godotenv loading convention, generalized from the
// teacher's worker-pool/Kafka/audit-log trading config to the fields this
// core actually uses.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// PairConfig configures one symbol's book scale and optional risk overrides.
type PairConfig struct {
	Symbol         string  `mapstructure:"symbol"`
	Scale          int32   `mapstructure:"scale"`
	PositionLimit  int64   `mapstructure:"position_limit"`
	OrderSizeLimit int64   `mapstructure:"order_size_limit"`
	NotionalLimit  float64 `mapstructure:"notional_limit"`
}

// Config is the engine's full startup configuration.
type Config struct {
	GlobalPositionLimit int64        `mapstructure:"global_position_limit"`
	GlobalNotionalLimit float64      `mapstructure:"global_notional_limit"`
	OrderRateLimit      int          `mapstructure:"order_rate_limit"`
	Production          bool         `mapstructure:"production"`
	Pairs               []PairConfig `mapstructure:"pairs"`
}

// Default returns a Config with every limit unset (0 = no check, per
// spec.md §3) and no per-symbol overrides.
func Default() *Config {
	return &Config{Pairs: []PairConfig{}}
}

// Load reads configuration from a .env file (if present, ignored if
// missing — mirroring the teacher's optional-dotenv convention) and from
// MATCHCORE_-prefixed environment variables, then from an optional config
// file at path (empty means skip the file).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MATCHCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// PairConfig returns the configuration for symbol, or ok=false if it has no
// explicit entry.
func (c *Config) PairConfig(symbol string) (PairConfig, bool) {
	for _, p := range c.Pairs {
		if p.Symbol == symbol {
			return p, true
		}
	}
	return PairConfig{}, false
}
