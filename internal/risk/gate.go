package risk

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orbitcex/matchcore/internal/model"
)

// Gate is the pre-trade predicate plus its post-fill position accumulator
// (spec.md §4.1). It holds no book state and performs no I/O.
type Gate struct {
	limits    *Limits
	positions *positions

	windowStart   time.Time
	countInWindow int
}

// NewGate returns a Gate with the given limits. A nil limits is replaced by
// a freshly constructed, unconfigured Limits (all defaults, all global
// limits unset).
func NewGate(limits *Limits) *Gate {
	if limits == nil {
		limits = NewLimits()
	}
	return &Gate{
		limits:    limits,
		positions: newPositions(),
	}
}

// Limits exposes the gate's configuration object so callers can adjust
// limits through SetPositionLimit etc. without a wider Gate API surface.
func (g *Gate) Limits() *Limits { return g.limits }

// Check runs the four risk predicates in fixed order — rate, order-size,
// position, notional — short-circuiting on the first failure (spec.md
// §4.1). The rate counter is incremented as soon as the rate check itself
// passes, before the later checks run; the other checks read current state
// without mutating it.
func (g *Gate) Check(order *model.Order) (bool, string) {
	if ok, reason := g.checkRate(); !ok {
		return false, reason
	}
	if ok, reason := g.checkOrderSize(order); !ok {
		return false, reason
	}
	if ok, reason := g.checkPosition(order); !ok {
		return false, reason
	}
	if ok, reason := g.checkNotional(order); !ok {
		return false, reason
	}
	return true, ""
}

func (g *Gate) checkOrderSize(order *model.Order) (bool, string) {
	if order.Quantity > g.limits.orderSizeLimit(order.Symbol) {
		return false, fmt.Sprintf("order size %d exceeds limit for %s", order.Quantity, order.Symbol)
	}
	return true, ""
}

func (g *Gate) checkPosition(order *model.Order) (bool, string) {
	current := g.positions.position(order.Symbol)
	newPos := current + order.Side.Sign()*order.Quantity
	if absInt64(newPos) > g.limits.positionLimit(order.Symbol) {
		return false, fmt.Sprintf("position %d exceeds limit for %s", newPos, order.Symbol)
	}
	if global := g.limits.globalPosition(); global > 0 {
		if g.positions.globalAbsPosition(order.Symbol, newPos) > global {
			return false, "global position limit exceeded"
		}
	}
	return true, ""
}

func (g *Gate) checkNotional(order *model.Order) (bool, string) {
	price := priceToFloat(order.Price)
	qty := float64(order.Quantity)
	current := g.positions.notionalExposure(order.Symbol)
	newExposure := current + float64(order.Side.Sign())*price*qty
	if absFloat64(newExposure) > g.limits.notionalLimit(order.Symbol) {
		return false, fmt.Sprintf("notional exposure for %s exceeds limit", order.Symbol)
	}
	if global := g.limits.globalNotional(); global > 0 {
		if g.positions.globalAbsNotional(order.Symbol, newExposure) > global {
			return false, "global notional limit exceeded"
		}
	}
	return true, ""
}

// checkRate reports whether the rate window currently has capacity, rolling
// the window forward if at least a second has elapsed, and increments the
// counter on the pass path — spec.md §4.1's Rate bullet increments the
// counter as part of the rate check itself, before order-size, position, or
// notional run, so a later order that fails one of those checks has still
// consumed its rate slot.
func (g *Gate) checkRate() (bool, string) {
	limit := g.limits.rateLimit()
	if limit == 0 {
		return true, ""
	}
	now := time.Now()
	if g.windowStart.IsZero() || now.Sub(g.windowStart) >= time.Second {
		g.windowStart = now
		g.countInWindow = 0
	}
	if g.countInWindow >= limit {
		return false, "order rate limit exceeded"
	}
	g.countInWindow++
	return true, ""
}

// ApplyFill folds one fill's impact into the per-symbol position and
// notional-exposure accumulators (spec.md §4.1). The pre-trade check only
// ever sees state as of the last applied fill — there is no reservation of
// in-flight exposure, which is sound because the engine is single-threaded.
func (g *Gate) ApplyFill(symbol string, side model.Side, qty int64, price decimal.Decimal) {
	s := g.positions.get(symbol)
	sign := side.Sign()
	s.position += sign * qty
	s.notionalExposure += float64(sign) * priceToFloat(price) * float64(qty)
}

// Reset clears all positions, notional exposures, and the rate window.
// Limits are preserved (spec.md §4.1).
func (g *Gate) Reset() {
	g.positions.reset()
	g.windowStart = time.Time{}
	g.countInWindow = 0
}

// Snapshot returns a read-only copy of symbol's current risk state, for
// observability only (SPEC_FULL.md §4.1) — callers must not treat it as
// live state.
func (g *Gate) Snapshot(symbol string) Snapshot {
	return Snapshot{
		Symbol:           symbol,
		Position:         g.positions.position(symbol),
		NotionalExposure: g.positions.notionalExposure(symbol),
	}
}
