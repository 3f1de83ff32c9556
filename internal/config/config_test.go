package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_AllLimitsUnset(t *testing.T) {
	cfg := Default()
	assert.Equal(t, int64(0), cfg.GlobalPositionLimit)
	assert.Equal(t, float64(0), cfg.GlobalNotionalLimit)
	assert.Equal(t, 0, cfg.OrderRateLimit)
	assert.Empty(t, cfg.Pairs)
}

func TestConfig_PairConfig_UnknownSymbol(t *testing.T) {
	cfg := Default()
	_, ok := cfg.PairConfig("AAPL")
	assert.False(t, ok)
}

func TestConfig_PairConfig_KnownSymbol(t *testing.T) {
	cfg := Default()
	cfg.Pairs = append(cfg.Pairs, PairConfig{Symbol: "AAPL", Scale: 2})

	p, ok := cfg.PairConfig("AAPL")
	assert.True(t, ok)
	assert.Equal(t, int32(2), p.Scale)
}
