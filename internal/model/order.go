// Package model holds the order/fill vocabulary shared by the risk gate, the
// order book, and the matching engine.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Sign returns +1 for Buy and -1 for Sell, as used by the risk gate's
// position/notional deltas.
func (s Side) Sign() int64 {
	if s == SideSell {
		return -1
	}
	return 1
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Type is the order's matching semantics.
type Type string

const (
	TypeLimit  Type = "LIMIT"
	TypeMarket Type = "MARKET"
	TypeIOC    Type = "IOC"
	TypeFOK    Type = "FOK"
)

// Status is the order's lifecycle state.
type Status string

const (
	StatusNew             Status = "NEW"
	StatusPartiallyFilled Status = "PARTIALLY_FILLED"
	StatusFilled          Status = "FILLED"
	StatusCancelled       Status = "CANCELLED"
	StatusRejected        Status = "REJECTED"
)

// Order is a single order moving through the engine. Price is zero for
// Market orders; every other field follows spec.md §3 exactly.
type Order struct {
	ID       uint64          `validate:"required"`
	Symbol   string          `validate:"required"`
	Side     Side            `validate:"required,oneof=BUY SELL"`
	Type     Type            `validate:"required,oneof=LIMIT MARKET IOC FOK"`
	Price    decimal.Decimal `validate:"decimalgte0"`
	Quantity int64           `validate:"gt=0"`
	Filled   int64
	Status   Status
	// Timestamp is monotonic: set at creation, re-stamped on a price-changing modify.
	Timestamp time.Time

	// ClientOrderID is an opaque caller-supplied handle, never interpreted by
	// the core, round-tripped through order-status notifications only.
	ClientOrderID string
	// TraceID correlates log lines for one submission; generated if empty.
	TraceID string
	// Reason carries the risk/validation rejection explanation, or the
	// explanation for a fill-or-kill cancellation, if any.
	Reason string
}

// Remaining returns the order's unfilled quantity.
func (o *Order) Remaining() int64 {
	return o.Quantity - o.Filled
}

// IsResting reports whether an order could legitimately sit in a book.
func (o *Order) IsResting() bool {
	return o.Remaining() > 0 && (o.Status == StatusNew || o.Status == StatusPartiallyFilled)
}

// ApplyFillQuantity records a fill against this order, advancing Filled and
// Status. It never decreases Filled and never exceeds Quantity.
func (o *Order) ApplyFillQuantity(qty int64) {
	if qty <= 0 {
		return
	}
	if r := o.Remaining(); qty > r {
		qty = r
	}
	o.Filled += qty
	if o.Filled >= o.Quantity {
		o.Status = StatusFilled
	} else if o.Filled > 0 {
		o.Status = StatusPartiallyFilled
	}
}

// Reject marks the order Rejected with the given reason. No fills, no book
// insertion — spec.md §7.
func (o *Order) Reject(reason string) {
	o.Status = StatusRejected
	o.Reason = reason
}

// Cancel marks the remaining quantity dead without touching Filled.
func (o *Order) Cancel() {
	if o.Status != StatusFilled {
		o.Status = StatusCancelled
	}
}

// Fill is one trade between an aggressor and a single passive order.
// Price is always the passive order's resting price.
type Fill struct {
	AggressorID   uint64
	PassiveID     uint64
	Symbol        string
	AggressorSide Side
	Price         decimal.Decimal
	Quantity      int64
	Timestamp     time.Time
}

// Validate enforces the boundary checks of spec.md §7 ("Validation rejection")
// via struct tags plus a custom check for the decimal Price field, which the
// validator library has no native support for.
func Validate(o *Order) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}
	if err := getValidator().Struct(o); err != nil {
		return err
	}
	return nil
}
