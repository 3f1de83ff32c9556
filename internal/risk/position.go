package risk

import (
	"sync"

	"github.com/shopspring/decimal"
)

// symbolState is one symbol's signed position and running notional exposure
// (spec.md §3). Plain int64/float64 fields replace the teacher's lock-free
// float64-bits-under-CAS encoding (position_tracker.go) — irrelevant here
// since the gate runs single-threaded by contract (spec.md §5). Notional
// exposure is a float64: each fill's decimal price is converted once via
// priceToFloat before it is accumulated.
type symbolState struct {
	position         int64
	notionalExposure float64
}

// positions tracks per-symbol state for the whole engine lifetime, reset
// only by an explicit Reset call (spec.md §3).
type positions struct {
	mu    sync.RWMutex
	state map[string]*symbolState
}

func newPositions() *positions {
	return &positions{state: make(map[string]*symbolState)}
}

func (p *positions) get(symbol string) *symbolState {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.state[symbol]
	if !ok {
		s = &symbolState{}
		p.state[symbol] = s
	}
	return s
}

func (p *positions) position(symbol string) int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.state[symbol]; ok {
		return s.position
	}
	return 0
}

func (p *positions) notionalExposure(symbol string) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.state[symbol]; ok {
		return s.notionalExposure
	}
	return 0
}

// globalAbsPosition sums |position| over all symbols, substituting the
// hypothetical new position for symbol (spec.md §4.1's global position
// check: "the sum, over all symbols, of |new_pos| for the order's symbol
// and |position| for others").
func (p *positions) globalAbsPosition(symbol string, hypothetical int64) int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var total int64
	seen := false
	for sym, s := range p.state {
		if sym == symbol {
			total += absInt64(hypothetical)
			seen = true
			continue
		}
		total += absInt64(s.position)
	}
	if !seen {
		total += absInt64(hypothetical)
	}
	return total
}

// globalAbsNotional is the notional analogue of globalAbsPosition.
func (p *positions) globalAbsNotional(symbol string, hypothetical float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var total float64
	seen := false
	for sym, s := range p.state {
		if sym == symbol {
			total += absFloat64(hypothetical)
			seen = true
			continue
		}
		total += absFloat64(s.notionalExposure)
	}
	if !seen {
		total += absFloat64(hypothetical)
	}
	return total
}

func (p *positions) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = make(map[string]*symbolState)
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func absFloat64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Snapshot is a point-in-time, read-only copy of one symbol's risk state,
// for observability only (SPEC_FULL.md §4.1) — it does not feed back into
// check()/applyFill().
type Snapshot struct {
	Symbol           string
	Position         int64
	NotionalExposure float64
}

// priceToFloat converts a decimal price to float64 for the notional-exposure
// accumulator, matching the contract's f64 type for notional_exposure
// (spec.md §3). The gate never feeds this value back into a decimal
// computation, so the conversion cannot introduce matching-affecting drift.
func priceToFloat(price decimal.Decimal) float64 {
	f, _ := price.Float64()
	return f
}
