// Package engine implements the matching engine orchestrator: it owns a
// registry of per-symbol order books, routes submissions through the risk
// gate, invokes the book's match primitive, applies order-type residue
// policy, and notifies callers through two callback surfaces.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/orbitcex/matchcore/internal/config"
	"github.com/orbitcex/matchcore/internal/metrics"
	"github.com/orbitcex/matchcore/internal/model"
	"github.com/orbitcex/matchcore/internal/orderbook"
	"github.com/orbitcex/matchcore/internal/risk"
)

// unboundedBuyLimit substitutes for +Infinity when a Market Buy's effective
// limit price must exceed every representable resting ask price (spec.md
// §4.3 step 4). Market Sell instead substitutes decimal.Zero, which already
// disables the price gate entirely (Match's gateDisabled branch).
var unboundedBuyLimit = decimal.New(1, 18)

// FillCallback is invoked once per fill, synchronously, in emission order.
type FillCallback func(model.Fill)

// OrderCallback is invoked once per submission/cancel/modify outcome,
// synchronously, after any fills it produced have already been notified.
type OrderCallback func(*model.Order)

// Config configures an Engine at construction.
type Config struct {
	Scale int32 // book price scale; 0 uses orderbook.DefaultScale
}

// Engine is the single-threaded matching engine orchestrator (spec.md §5).
// It is not safe for concurrent use; a caller wishing to multiplex must
// serialize all entry points through a queue it owns.
type Engine struct {
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	gate    *risk.Gate

	books      map[string]*orderbook.OrderBook
	pairScales map[string]int32

	fillCallback  FillCallback
	orderCallback OrderCallback

	totalOrders int64
	totalFills  int64
}

// New constructs an Engine. gate may be nil to run with no risk checks at
// all (every order is accepted). logger and m may be nil, in which case
// logging and metrics are no-ops.
func New(cfg Config, gate *risk.Gate, logger *zap.Logger, m *metrics.Metrics) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:        cfg,
		logger:     logger,
		metrics:    m,
		gate:       gate,
		books:      make(map[string]*orderbook.OrderBook),
		pairScales: make(map[string]int32),
	}
}

// SetPairScale overrides the price scale used when the book for symbol is
// first created. Has no effect once that book already exists.
func (e *Engine) SetPairScale(symbol string, scale int32) {
	e.pairScales[symbol] = scale
}

// SetFillCallback installs cb as the fill callback, replacing any
// previously installed one. Passing nil uninstalls it.
func (e *Engine) SetFillCallback(cb FillCallback) { e.fillCallback = cb }

// SetOrderCallback installs cb as the order-status callback, replacing any
// previously installed one. Passing nil uninstalls it.
func (e *Engine) SetOrderCallback(cb OrderCallback) { e.orderCallback = cb }

// Gate returns the engine's risk gate, or nil if none is configured.
func (e *Engine) Gate() *risk.Gate { return e.gate }

// Metrics returns the engine's metrics bundle, or nil if none is configured.
func (e *Engine) Metrics() *metrics.Metrics { return e.metrics }

// GetOrderBook returns the book for symbol, or ok=false if no order for it
// has ever passed validation and the risk check (rejected submissions do
// not create a book).
func (e *Engine) GetOrderBook(symbol string) (*orderbook.OrderBook, bool) {
	ob, ok := e.books[symbol]
	return ob, ok
}

func (e *Engine) getOrCreateOrderBook(symbol string) *orderbook.OrderBook {
	if ob, ok := e.books[symbol]; ok {
		return ob
	}
	scale := e.cfg.Scale
	if s, ok := e.pairScales[symbol]; ok {
		scale = s
	}
	ob := orderbook.NewOrderBook(symbol, scale)
	e.books[symbol] = ob
	return ob
}

// TotalOrdersProcessed returns the count of submissions, including rejected.
func (e *Engine) TotalOrdersProcessed() int64 { return e.totalOrders }

// TotalFillsGenerated returns the count of emitted fills.
func (e *Engine) TotalFillsGenerated() int64 { return e.totalFills }

// SubmitOrder routes order through the risk gate, matches it against its
// symbol's book, applies the order-type's residue policy, and notifies both
// callback surfaces. It returns the fills generated by this submission
// (possibly empty). order is mutated in place: TraceID and Timestamp are
// filled in first if empty, then Filled, Status, and Reason reflect the
// outcome (a rejected order gets only Status and Reason).
func (e *Engine) SubmitOrder(order *model.Order) []model.Fill {
	start := time.Now()
	if e.metrics != nil {
		defer func() { e.metrics.SubmitLatency.Observe(time.Since(start).Seconds()) }()
	}

	e.totalOrders++
	if e.metrics != nil {
		e.metrics.OrdersProcessed.WithLabelValues(string(order.Side)).Inc()
	}
	if order.TraceID == "" {
		order.TraceID = uuid.NewString()
	}
	if order.Timestamp.IsZero() {
		order.Timestamp = start
	}

	if err := model.Validate(order); err != nil {
		order.Reject(err.Error())
		e.logger.Debug("order validation failed", zap.Uint64("order_id", order.ID),
			zap.String("trace_id", order.TraceID), zap.Error(err))
		e.recordRejected("validation")
		e.notifyOrder(order)
		return nil
	}

	if e.gate != nil {
		if ok, reason := e.gate.Check(order); !ok {
			order.Reject(reason)
			e.logger.Debug("order rejected by risk gate",
				zap.Uint64("order_id", order.ID), zap.String("trace_id", order.TraceID),
				zap.String("reason", reason))
			e.recordRejected("risk")
			e.notifyOrder(order)
			return nil
		}
	}

	book := e.getOrCreateOrderBook(order.Symbol)

	effectiveLimit := e.effectiveLimitPrice(order)

	if order.Type == model.TypeFOK {
		if !book.CanFullyFill(order.Side, order.Remaining(), effectiveLimit) {
			order.Reason = "insufficient liquidity for fill-or-kill"
			order.Cancel()
			e.recordRejected("fok_insufficient_liquidity")
			e.notifyOrder(order)
			return nil
		}
	}

	fills := book.Match(order.Side, order.Remaining(), effectiveLimit, order.ID)
	for _, f := range fills {
		order.ApplyFillQuantity(f.Quantity)
		e.notifyFill(f)
		e.totalFills++
		if e.gate != nil {
			e.gate.ApplyFill(order.Symbol, order.Side, f.Quantity, f.Price)
		}
		if e.metrics != nil {
			e.metrics.FillsGenerated.Inc()
		}
	}

	e.applyResiduePolicy(order, book)
	e.recordDepth(order.Symbol, book)

	e.notifyOrder(order)
	return fills
}

// effectiveLimitPrice computes the price bound passed to book.Match: the
// order's own price for Limit/IOC/FOK, or the Market sentinel substitution
// of spec.md §4.3 step 4.
func (e *Engine) effectiveLimitPrice(order *model.Order) decimal.Decimal {
	if order.Type != model.TypeMarket {
		return order.Price
	}
	if order.Side == model.SideBuy {
		return unboundedBuyLimit
	}
	return decimal.Zero
}

// applyResiduePolicy disposes of whatever quantity remained unmatched after
// Match, per spec.md §4.3 step 6.
func (e *Engine) applyResiduePolicy(order *model.Order, book *orderbook.OrderBook) {
	if order.Remaining() <= 0 {
		return
	}
	switch order.Type {
	case model.TypeLimit:
		book.AddOrder(order)
	default: // Market, IOC, FOK all cancel any residue
		order.Cancel()
	}
}

// CancelOrder delegates to the symbol's book, returning false if the symbol
// has no book or the id is unknown.
func (e *Engine) CancelOrder(symbol string, id uint64) bool {
	ob, ok := e.books[symbol]
	if !ok {
		return false
	}
	order, found := ob.GetOrder(id)
	ok = ob.CancelOrder(id)
	if ok && found {
		order.Cancel()
		e.recordDepth(symbol, ob)
		e.notifyOrder(order)
	}
	return ok
}

// ModifyOrder delegates to the symbol's book, returning false if the symbol
// has no book, the id is unknown, or the book rejects the modification.
func (e *Engine) ModifyOrder(symbol string, id uint64, newPrice decimal.Decimal, newQuantity int64) bool {
	ob, ok := e.books[symbol]
	if !ok {
		return false
	}
	ok = ob.ModifyOrder(id, newPrice, newQuantity)
	if ok {
		e.recordDepth(symbol, ob)
		if order, found := ob.GetOrder(id); found {
			e.notifyOrder(order)
		}
	}
	return ok
}

// recordDepth publishes the book's current resting-order counts to the
// OrderBookDepth gauge, no-op if metrics are disabled.
func (e *Engine) recordDepth(symbol string, book *orderbook.OrderBook) {
	if e.metrics == nil {
		return
	}
	e.metrics.OrderBookDepth.WithLabelValues(symbol, string(model.SideBuy)).Set(float64(book.BidCount()))
	e.metrics.OrderBookDepth.WithLabelValues(symbol, string(model.SideSell)).Set(float64(book.AskCount()))
}

func (e *Engine) notifyFill(f model.Fill) {
	if e.fillCallback != nil {
		e.fillCallback(f)
	}
}

func (e *Engine) notifyOrder(o *model.Order) {
	if e.orderCallback != nil {
		e.orderCallback(o)
	}
}

func (e *Engine) recordRejected(reason string) {
	if e.metrics != nil {
		e.metrics.OrdersRejected.WithLabelValues(reason).Inc()
	}
}

// NewFromConfig builds a Gate-equipped Engine from a loaded config.Config,
// wiring per-symbol and global limits before any order is submitted.
func NewFromConfig(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Engine {
	limits := risk.NewLimits()
	limits.SetGlobalPositionLimit(cfg.GlobalPositionLimit)
	limits.SetGlobalNotionalLimit(cfg.GlobalNotionalLimit)
	limits.SetOrderRateLimit(cfg.OrderRateLimit)
	for _, p := range cfg.Pairs {
		if p.PositionLimit > 0 {
			limits.SetPositionLimit(p.Symbol, p.PositionLimit)
		}
		if p.OrderSizeLimit > 0 {
			limits.SetOrderSizeLimit(p.Symbol, p.OrderSizeLimit)
		}
		if p.NotionalLimit > 0 {
			limits.SetNotionalLimit(p.Symbol, p.NotionalLimit)
		}
	}
	gate := risk.NewGate(limits)
	e := New(Config{}, gate, logger, m)
	for _, p := range cfg.Pairs {
		if p.Scale > 0 {
			e.SetPairScale(p.Symbol, p.Scale)
		}
	}
	return e
}
