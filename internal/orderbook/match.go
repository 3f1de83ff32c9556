package orderbook

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orbitcex/matchcore/internal/model"
)

// Match is the core matching primitive (spec.md §4.2). It consumes up to
// quantity of liquidity from the side opposite aggressorSide, walking best
// price first and FIFO within a level, and returns the fills generated in
// chronological order. limitPrice of zero disables the price gate entirely
// (used by the engine for Market-Sell orders, which accept any non-negative
// resting price); the engine substitutes an unbounded sentinel for Market-Buy
// instead of reusing zero, since zero is itself a valid resting price
// (spec.md §9).
func (ob *OrderBook) Match(aggressorSide model.Side, quantity int64, limitPrice decimal.Decimal, aggressorID uint64) []model.Fill {
	opposite := aggressorSide.Opposite()
	gateDisabled := limitPrice.IsZero()

	var fills []model.Fill
	remaining := quantity
	for remaining > 0 {
		level, ok := ob.bestLevel(opposite)
		if !ok {
			break
		}
		if !gateDisabled && priceOutsideLimit(aggressorSide, level.Price, limitPrice) {
			break
		}
		for remaining > 0 {
			elem := level.Front()
			if elem == nil {
				break
			}
			passive := elem.Value.(*model.Order)
			q := remaining
			if passiveRemaining := passive.Remaining(); passiveRemaining < q {
				q = passiveRemaining
			}
			fills = append(fills, model.Fill{
				AggressorID:   aggressorID,
				PassiveID:     passive.ID,
				Symbol:        ob.Symbol,
				AggressorSide: aggressorSide,
				Price:         level.Price,
				Quantity:      q,
				Timestamp:     time.Now(),
			})
			passive.ApplyFillQuantity(q)
			level.TotalQuantity -= q
			remaining -= q
			if passive.Remaining() == 0 {
				level.removeElement(elem)
				delete(ob.index, passive.ID)
				if opposite == model.SideBuy {
					ob.bidCount--
				} else {
					ob.askCount--
				}
			}
		}
		if level.Len() == 0 {
			ob.treeFor(opposite).Delete(level.Ticks)
		}
	}
	return fills
}

// priceOutsideLimit reports whether level is past the aggressor's limit,
// i.e. matching must stop (spec.md §4.2 step 2.b).
func priceOutsideLimit(aggressorSide model.Side, levelPrice, limitPrice decimal.Decimal) bool {
	if aggressorSide == model.SideBuy {
		return levelPrice.GreaterThan(limitPrice)
	}
	return levelPrice.LessThan(limitPrice)
}

// CanFullyFill simulates Match without mutating any state: it reports
// whether the opposite side currently holds enough resting quantity, within
// the price gate, to satisfy quantity in full. Used by the engine's Fill-or-
// Kill handling (SPEC_FULL.md §4.4) to decide atomically whether to match at
// all.
func (ob *OrderBook) CanFullyFill(aggressorSide model.Side, quantity int64, limitPrice decimal.Decimal) bool {
	opposite := aggressorSide.Opposite()
	gateDisabled := limitPrice.IsZero()

	remaining := quantity
	visit := func(_ int64, level *PriceLevel) bool {
		if !gateDisabled && priceOutsideLimit(aggressorSide, level.Price, limitPrice) {
			return false
		}
		remaining -= level.TotalQuantity
		return remaining > 0
	}
	tree := ob.treeFor(opposite)
	if opposite == model.SideBuy {
		tree.Reverse(visit)
	} else {
		tree.Scan(visit)
	}
	return remaining <= 0
}
