// Package risk implements the pre-trade risk gate and its post-fill position
// accounting (spec.md §4.1). It is pure in-memory, single-threaded, and
// performs no I/O — exactly the contract the core requires.
package risk

import (
	"sync"
)

// Default per-symbol limits, ported from the pack's original C++ risk
// manager (original_source/cpp-trading-engine/include/risk_manager.hpp)
// verbatim, down to the values.
const (
	DefaultPositionLimit  = 100_000
	DefaultOrderSizeLimit = 10_000
	DefaultNotionalLimit  = 10_000_000.0
)

// Limits holds the per-symbol and global risk configuration, generalizing
// the teacher's RiskConfig (internal/trading/risk/config.go) from a single
// position limit to the spec's four limit families.
type Limits struct {
	mu sync.RWMutex

	positionLimits  map[string]int64
	orderSizeLimits map[string]int64
	notionalLimits  map[string]float64

	globalPositionLimit int64
	globalNotionalLimit float64
	orderRateLimit      int
}

// NewLimits returns a Limits with no per-symbol overrides and no global
// limits (0 = unset, per spec.md §3).
func NewLimits() *Limits {
	return &Limits{
		positionLimits:  make(map[string]int64),
		orderSizeLimits: make(map[string]int64),
		notionalLimits:  make(map[string]float64),
	}
}

func (l *Limits) SetPositionLimit(symbol string, limit int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.positionLimits[symbol] = limit
}

func (l *Limits) SetOrderSizeLimit(symbol string, limit int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orderSizeLimits[symbol] = limit
}

func (l *Limits) SetNotionalLimit(symbol string, limit float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notionalLimits[symbol] = limit
}

func (l *Limits) SetOrderRateLimit(ordersPerSecond int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orderRateLimit = ordersPerSecond
}

func (l *Limits) SetGlobalPositionLimit(limit int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.globalPositionLimit = limit
}

func (l *Limits) SetGlobalNotionalLimit(limit float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.globalNotionalLimit = limit
}

func (l *Limits) positionLimit(symbol string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if v, ok := l.positionLimits[symbol]; ok {
		return v
	}
	return DefaultPositionLimit
}

func (l *Limits) orderSizeLimit(symbol string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if v, ok := l.orderSizeLimits[symbol]; ok {
		return v
	}
	return DefaultOrderSizeLimit
}

func (l *Limits) notionalLimit(symbol string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if v, ok := l.notionalLimits[symbol]; ok {
		return v
	}
	return DefaultNotionalLimit
}

func (l *Limits) globalPosition() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.globalPositionLimit
}

func (l *Limits) globalNotional() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.globalNotionalLimit
}

func (l *Limits) rateLimit() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.orderRateLimit
}
