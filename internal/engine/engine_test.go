package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitcex/matchcore/internal/model"
	"github.com/orbitcex/matchcore/internal/risk"
)

func newOrder(id uint64, symbol string, side model.Side, typ model.Type, price string, qty int64) *model.Order {
	return &model.Order{
		ID:        id,
		Symbol:    symbol,
		Side:      side,
		Type:      typ,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
		Status:    model.StatusNew,
		Timestamp: time.Now(),
	}
}

func TestEngine_LimitOrder_RestsWhenNoMatch(t *testing.T) {
	e := New(Config{Scale: 2}, nil, nil, nil)
	fills := e.SubmitOrder(newOrder(1, "AAPL", model.SideBuy, model.TypeLimit, "150.00", 10))
	assert.Empty(t, fills)

	ob, ok := e.GetOrderBook("AAPL")
	require.True(t, ok)
	assert.Equal(t, 1, ob.BidCount())
	assert.Equal(t, int64(1), e.TotalOrdersProcessed())
}

func TestEngine_LimitOrder_PartialMatchRestsResidual(t *testing.T) {
	e := New(Config{Scale: 2}, nil, nil, nil)
	e.SubmitOrder(newOrder(1, "AAPL", model.SideSell, model.TypeLimit, "150.00", 100))

	fills := e.SubmitOrder(newOrder(2, "AAPL", model.SideBuy, model.TypeLimit, "150.00", 150))
	require.Len(t, fills, 1)
	assert.Equal(t, int64(100), fills[0].Quantity)

	ob, _ := e.GetOrderBook("AAPL")
	order, ok := ob.GetOrder(2)
	require.True(t, ok)
	assert.Equal(t, model.StatusPartiallyFilled, order.Status)
	assert.Equal(t, int64(50), order.Remaining())
}

func TestEngine_MarketOrder_NeverRests(t *testing.T) {
	e := New(Config{Scale: 2}, nil, nil, nil)
	fills := e.SubmitOrder(newOrder(1, "AAPL", model.SideBuy, model.TypeMarket, "0", 100))
	assert.Empty(t, fills)

	ob, ok := e.GetOrderBook("AAPL")
	require.True(t, ok)
	assert.Equal(t, 0, ob.BidCount())
}

// S4-style IOC: partial fill, no rest.
func TestEngine_IOCOrder_PartialFillNoResidualRest(t *testing.T) {
	e := New(Config{Scale: 2}, nil, nil, nil)
	e.SubmitOrder(newOrder(1, "AAPL", model.SideSell, model.TypeLimit, "150.00", 50))

	fills := e.SubmitOrder(newOrder(2, "AAPL", model.SideBuy, model.TypeIOC, "150.00", 100))
	require.Len(t, fills, 1)
	assert.Equal(t, int64(50), fills[0].Quantity)

	ob, _ := e.GetOrderBook("AAPL")
	assert.Equal(t, 0, ob.BidCount())
	_, ok := ob.GetOrder(2)
	assert.False(t, ok)
}

func TestEngine_FOK_CancelsWhenInsufficientLiquidity(t *testing.T) {
	e := New(Config{Scale: 2}, nil, nil, nil)
	e.SubmitOrder(newOrder(1, "AAPL", model.SideSell, model.TypeLimit, "150.00", 50))

	var notified *model.Order
	e.SetOrderCallback(func(o *model.Order) { notified = o })

	fills := e.SubmitOrder(newOrder(2, "AAPL", model.SideBuy, model.TypeFOK, "150.00", 100))
	assert.Empty(t, fills)
	require.NotNil(t, notified)
	assert.Equal(t, model.StatusCancelled, notified.Status)

	ob, _ := e.GetOrderBook("AAPL")
	_, _, ok := ob.BestAsk()
	require.True(t, ok, "FOK cancellation must not consume any resting liquidity")
	_, qty, _ := ob.BestAsk()
	assert.Equal(t, int64(50), qty)
}

func TestEngine_FOK_FillsCompletelyWhenLiquiditySufficient(t *testing.T) {
	e := New(Config{Scale: 2}, nil, nil, nil)
	e.SubmitOrder(newOrder(1, "AAPL", model.SideSell, model.TypeLimit, "150.00", 50))
	e.SubmitOrder(newOrder(2, "AAPL", model.SideSell, model.TypeLimit, "151.00", 50))

	fills := e.SubmitOrder(newOrder(3, "AAPL", model.SideBuy, model.TypeFOK, "151.00", 100))
	require.Len(t, fills, 2)
}

func TestEngine_RiskGate_RejectsOversizedOrder(t *testing.T) {
	limits := risk.NewLimits()
	limits.SetOrderSizeLimit("AAPL", 10)
	gate := risk.NewGate(limits)
	e := New(Config{Scale: 2}, gate, nil, nil)

	order := newOrder(1, "AAPL", model.SideBuy, model.TypeLimit, "150.00", 50)
	fills := e.SubmitOrder(order)
	assert.Empty(t, fills)
	assert.Equal(t, model.StatusRejected, order.Status)

	_, ok := e.GetOrderBook("AAPL")
	assert.False(t, ok)
}

func TestEngine_CancelOrder(t *testing.T) {
	e := New(Config{Scale: 2}, nil, nil, nil)
	e.SubmitOrder(newOrder(1, "AAPL", model.SideBuy, model.TypeLimit, "150.00", 10))

	assert.True(t, e.CancelOrder("AAPL", 1))
	assert.False(t, e.CancelOrder("AAPL", 1))
	assert.False(t, e.CancelOrder("MSFT", 1))
}

func TestEngine_ModifyOrder(t *testing.T) {
	e := New(Config{Scale: 2}, nil, nil, nil)
	e.SubmitOrder(newOrder(1, "AAPL", model.SideBuy, model.TypeLimit, "150.00", 10))

	assert.True(t, e.ModifyOrder("AAPL", 1, decimal.Zero, 20))
	ob, _ := e.GetOrderBook("AAPL")
	order, ok := ob.GetOrder(1)
	require.True(t, ok)
	assert.Equal(t, int64(20), order.Quantity)
}

func TestEngine_Callbacks_InvokedSynchronously(t *testing.T) {
	e := New(Config{Scale: 2}, nil, nil, nil)
	var fillCount, orderCount int
	e.SetFillCallback(func(model.Fill) { fillCount++ })
	e.SetOrderCallback(func(*model.Order) { orderCount++ })

	e.SubmitOrder(newOrder(1, "AAPL", model.SideSell, model.TypeLimit, "150.00", 100))
	e.SubmitOrder(newOrder(2, "AAPL", model.SideBuy, model.TypeLimit, "150.00", 100))

	assert.Equal(t, 1, fillCount)
	assert.Equal(t, 2, orderCount)
	assert.Equal(t, int64(1), e.TotalFillsGenerated())
}

func TestEngine_ValidationRejection_NeverTouchesBook(t *testing.T) {
	e := New(Config{Scale: 2}, nil, nil, nil)
	bad := newOrder(1, "AAPL", model.SideBuy, model.TypeLimit, "150.00", 0)

	fills := e.SubmitOrder(bad)
	assert.Empty(t, fills)
	assert.Equal(t, model.StatusRejected, bad.Status)

	_, ok := e.GetOrderBook("AAPL")
	assert.False(t, ok)
}
