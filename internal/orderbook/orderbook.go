// Package orderbook implements the per-symbol, price-time-priority limit
// order book that sits under the matching engine. It owns two price-indexed
// collections (bids descending, asks ascending), an ID index for O(1)
// cancel/locate, and the match primitive that consumes liquidity against a
// price-bounded quantity request.
//
// Indexing uses github.com/tidwall/btree's generic ordered Map, the same
// structure the teacher repo uses for its own order book, keyed on integer
// price ticks rather than the teacher's lexicographically-sorted price
// string — see DESIGN.md for why that swap is load-bearing, not cosmetic.
package orderbook

import (
	"container/list"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"github.com/orbitcex/matchcore/internal/model"
)

// DefaultScale is the number of decimal places prices are quantized to when
// no explicit scale is configured. Prices are assumed pre-quantized by the
// caller (spec.md §9); this only controls the book's internal tick encoding.
const DefaultScale int32 = 8

// locator is the ID index's entry: enough to reach an order's list element
// in O(1) without the index owning the order itself (spec.md §3 — "the ID
// index holds only a locator, never ownership").
type locator struct {
	side  model.Side
	level *PriceLevel
	elem  *list.Element
}

// OrderBook is the per-symbol container of resting orders.
type OrderBook struct {
	Symbol string
	scale  int32

	bids *btree.Map[int64, *PriceLevel] // ascending ticks; best bid via Reverse
	asks *btree.Map[int64, *PriceLevel] // ascending ticks; best ask via Scan

	index map[uint64]locator

	bidCount int
	askCount int
}

// NewOrderBook creates an empty book for symbol, quantizing prices to scale
// decimal places (use DefaultScale unless the venue needs something coarser
// or finer).
func NewOrderBook(symbol string, scale int32) *OrderBook {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &OrderBook{
		Symbol: symbol,
		scale:  scale,
		bids:   btree.NewMap[int64, *PriceLevel](32),
		asks:   btree.NewMap[int64, *PriceLevel](32),
		index:  make(map[uint64]locator),
	}
}

func (ob *OrderBook) treeFor(side model.Side) *btree.Map[int64, *PriceLevel] {
	if side == model.SideBuy {
		return ob.bids
	}
	return ob.asks
}

// ticksOf converts price to the book's integer tick encoding. ok is false if
// price carries more precision than the book's scale supports — callers must
// reject rather than round (spec.md §9).
func ticksOf(price decimal.Decimal, scale int32) (int64, bool) {
	shifted := price.Shift(scale)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, false
	}
	return shifted.IntPart(), true
}

func priceOf(ticks int64, scale int32) decimal.Decimal {
	return decimal.New(ticks, -scale)
}

// AddOrder inserts order at the tail of its price level's FIFO (spec.md
// §4.2). Returns false, with no state changes, if a precondition fails:
// non-positive remaining quantity, negative price, an id already resting,
// or a price that doesn't quantize exactly to the book's scale.
func (ob *OrderBook) AddOrder(order *model.Order) bool {
	if order == nil || order.Remaining() <= 0 || order.Price.IsNegative() {
		return false
	}
	if _, exists := ob.index[order.ID]; exists {
		return false
	}
	ticks, ok := ticksOf(order.Price, ob.scale)
	if !ok {
		return false
	}
	tree := ob.treeFor(order.Side)
	level, exists := tree.Get(ticks)
	if !exists {
		level = newPriceLevel(priceOf(ticks, ob.scale), ticks)
		tree.Set(ticks, level)
	}
	elem := level.pushBack(order)
	ob.index[order.ID] = locator{side: order.Side, level: level, elem: elem}
	if order.Side == model.SideBuy {
		ob.bidCount++
	} else {
		ob.askCount++
	}
	return true
}

// CancelOrder removes id from the book. Returns false if id is unknown —
// idempotent cancel of an already-cancelled id returns false and changes
// nothing (spec.md §8).
func (ob *OrderBook) CancelOrder(id uint64) bool {
	loc, ok := ob.index[id]
	if !ok {
		return false
	}
	loc.level.removeElement(loc.elem)
	if loc.level.Len() == 0 {
		ob.treeFor(loc.side).Delete(loc.level.Ticks)
	}
	delete(ob.index, id)
	if loc.side == model.SideBuy {
		ob.bidCount--
	} else {
		ob.askCount--
	}
	return true
}

// ModifyOrder applies a zero-means-unchanged update to id's price/quantity
// (spec.md §4.2). A price change re-queues the order to the tail of the new
// level, losing time priority and refreshing its timestamp; a quantity-only
// change preserves time priority. A new quantity below the order's already-
// filled amount is rejected rather than silently clamped (spec.md §9).
func (ob *OrderBook) ModifyOrder(id uint64, newPrice decimal.Decimal, newQuantity int64) bool {
	loc, ok := ob.index[id]
	if !ok {
		return false
	}
	order := loc.elem.Value.(*model.Order)
	if newQuantity != 0 && newQuantity < order.Filled {
		return false
	}

	priceChanges := !newPrice.IsZero() && !newPrice.Equal(order.Price)
	if priceChanges {
		ticks, ok := ticksOf(newPrice, ob.scale)
		if !ok {
			return false
		}
		ob.CancelOrder(id)
		order.Price = priceOf(ticks, ob.scale)
		if newQuantity != 0 {
			order.Quantity = newQuantity
		}
		order.Timestamp = time.Now()
		return ob.AddOrder(order)
	}

	if newQuantity != 0 && newQuantity != order.Quantity {
		oldRemaining := order.Remaining()
		order.Quantity = newQuantity
		loc.level.TotalQuantity += order.Remaining() - oldRemaining
	}
	return true
}

// GetOrder returns the resting order for id, or (nil, false) if it isn't
// currently resting.
func (ob *OrderBook) GetOrder(id uint64) (*model.Order, bool) {
	loc, ok := ob.index[id]
	if !ok {
		return nil, false
	}
	return loc.elem.Value.(*model.Order), true
}

// BidCount/AskCount report the number of resting orders on each side.
func (ob *OrderBook) BidCount() int { return ob.bidCount }
func (ob *OrderBook) AskCount() int { return ob.askCount }

func (ob *OrderBook) bestLevel(side model.Side) (*PriceLevel, bool) {
	tree := ob.treeFor(side)
	var found *PriceLevel
	visit := func(_ int64, level *PriceLevel) bool {
		found = level
		return false
	}
	if side == model.SideBuy {
		tree.Reverse(visit) // bids ascending by tick; best = highest = last = first in Reverse
	} else {
		tree.Scan(visit) // asks ascending by tick; best = lowest = first in Scan
	}
	return found, found != nil
}

// BestBid returns the top-of-book price and aggregate quantity on the bid
// side, or ok=false if there are no bids.
func (ob *OrderBook) BestBid() (price decimal.Decimal, qty int64, ok bool) {
	level, found := ob.bestLevel(model.SideBuy)
	if !found {
		return decimal.Zero, 0, false
	}
	return level.Price, level.TotalQuantity, true
}

// BestAsk returns the top-of-book price and aggregate quantity on the ask
// side, or ok=false if there are no asks.
func (ob *OrderBook) BestAsk() (price decimal.Decimal, qty int64, ok bool) {
	level, found := ob.bestLevel(model.SideSell)
	if !found {
		return decimal.Zero, 0, false
	}
	return level.Price, level.TotalQuantity, true
}

// Spread returns askBest.Price - bidBest.Price, or ok=false unless both
// sides are populated.
func (ob *OrderBook) Spread() (decimal.Decimal, bool) {
	bidPrice, _, bidOK := ob.BestBid()
	askPrice, _, askOK := ob.BestAsk()
	if !bidOK || !askOK {
		return decimal.Zero, false
	}
	return askPrice.Sub(bidPrice), true
}

// MidPrice returns (bidBest.Price + askBest.Price) / 2, or ok=false unless
// both sides are populated.
func (ob *OrderBook) MidPrice() (decimal.Decimal, bool) {
	bidPrice, _, bidOK := ob.BestBid()
	askPrice, _, askOK := ob.BestAsk()
	if !bidOK || !askOK {
		return decimal.Zero, false
	}
	return bidPrice.Add(askPrice).Div(decimal.NewFromInt(2)), true
}

// levels returns up to n levels from best outward for side, as value
// snapshots (spec.md §4.2).
func (ob *OrderBook) levels(side model.Side, n int) []OrderLevel {
	if n <= 0 {
		return nil
	}
	out := make([]OrderLevel, 0, n)
	visit := func(_ int64, level *PriceLevel) bool {
		out = append(out, OrderLevel{
			Price:         level.Price,
			TotalQuantity: level.TotalQuantity,
			Orders:        level.Orders(),
		})
		return len(out) < n
	}
	tree := ob.treeFor(side)
	if side == model.SideBuy {
		tree.Reverse(visit)
	} else {
		tree.Scan(visit)
	}
	return out
}

// GetBidLevels returns up to n bid levels, best price first.
func (ob *OrderBook) GetBidLevels(n int) []OrderLevel { return ob.levels(model.SideBuy, n) }

// GetAskLevels returns up to n ask levels, best price first.
func (ob *OrderBook) GetAskLevels(n int) []OrderLevel { return ob.levels(model.SideSell, n) }
