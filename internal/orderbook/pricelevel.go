package orderbook

import (
	"container/list"

	"github.com/shopspring/decimal"

	"github.com/orbitcex/matchcore/internal/model"
)

// PriceLevel is the FIFO aggregate of all resting orders sharing one price on
// one side (spec.md §3). Orders are owned exclusively by the level's list;
// the order book's ID index holds only a *list.Element locator into it, which
// — unlike a slice index — stays valid across removals of other elements, so
// a cancel at the front of the level never invalidates locators held for
// orders further back (spec.md §9's intrusive-handle recommendation).
type PriceLevel struct {
	Price decimal.Decimal
	Ticks int64

	orders        *list.List // FIFO of *model.Order, oldest at Front
	TotalQuantity int64      // sum of Remaining() over orders, kept in sync by the book
}

func newPriceLevel(price decimal.Decimal, ticks int64) *PriceLevel {
	return &PriceLevel{Price: price, Ticks: ticks, orders: list.New()}
}

// Len returns the number of resting orders at this level.
func (l *PriceLevel) Len() int { return l.orders.Len() }

// Front returns the head order's list element, or nil if the level is empty.
func (l *PriceLevel) Front() *list.Element { return l.orders.Front() }

// pushBack appends order to the tail of the FIFO and returns its locator.
func (l *PriceLevel) pushBack(o *model.Order) *list.Element {
	l.TotalQuantity += o.Remaining()
	return l.orders.PushBack(o)
}

// removeElement excises e from the FIFO and adjusts the cached total by the
// order's remaining quantity at the time of removal.
func (l *PriceLevel) removeElement(e *list.Element) {
	o := e.Value.(*model.Order)
	l.TotalQuantity -= o.Remaining()
	l.orders.Remove(e)
}

// Orders returns a snapshot slice of the level's orders, oldest first.
func (l *PriceLevel) Orders() []*model.Order {
	out := make([]*model.Order, 0, l.orders.Len())
	for e := l.orders.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*model.Order))
	}
	return out
}

// OrderLevel is a depth snapshot of one price level, returned by
// getBidLevels/getAskLevels (spec.md §4.2).
type OrderLevel struct {
	Price         decimal.Decimal
	TotalQuantity int64
	Orders        []*model.Order
}
