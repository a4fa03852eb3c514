// Package board is the live order board: a registry of open orders plus
// depth summaries aggregated from it.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uhyunpark/liveboard/pkg/app/core/market"
	"github.com/uhyunpark/liveboard/pkg/app/core/money"
	"github.com/uhyunpark/liveboard/pkg/app/core/orderbook"
	"github.com/uhyunpark/liveboard/pkg/metrics"
	"github.com/uhyunpark/liveboard/pkg/util"
)

// Journal persists open orders so a board survives restarts.
// Remove must drop the first stored order equal to o, mirroring Registry.Cancel.
type Journal interface {
	Append(o orderbook.Order) error
	Remove(o orderbook.Order) error
	Load() ([]orderbook.Order, error)
}

// AuditLog receives one line per accepted mutation. A failed append is
// logged; the mutation itself stands.
type AuditLog interface {
	Append(event string, o orderbook.Order) error
}

type Config struct {
	Currency money.Currency // every price on the board must use it
	Depth    int // 1..orderbook.DefaultDepth
	Grouping orderbook.Grouping
}

func DefaultConfig() Config {
	return Config{
		Currency: money.GBP,
		Depth:    orderbook.DefaultDepth,
		Grouping: orderbook.GroupByAssetAndPrice,
	}
}

// Depth is both sides of the board computed from one snapshot.
type Depth struct {
	Currency  money.Currency
	Bids      []orderbook.AggregatedOrder // highest price first
	Asks      []orderbook.AggregatedOrder // lowest price first
	Timestamp time.Time
}

type Board struct {
	mu       sync.Mutex // guards registry and journal ordering
	registry *orderbook.Registry

	cfg     Config
	assets  *market.AssetRegistry
	journal Journal
	audit   AuditLog
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
	clock   util.Clock

	subsMu sync.RWMutex
	subs   []func(Depth)

	notifyMu sync.Mutex // serialises snapshot and delivery in notify
}

type Option func(*Board)

func WithLogger(l *zap.SugaredLogger) Option    { return func(b *Board) { b.log = l } }
func WithJournal(j Journal) Option              { return func(b *Board) { b.journal = j } }
func WithAuditLog(a AuditLog) Option            { return func(b *Board) { b.audit = a } }
func WithAssets(a *market.AssetRegistry) Option { return func(b *Board) { b.assets = a } }
func WithMetrics(m *metrics.Metrics) Option     { return func(b *Board) { b.metrics = m } }
func WithClock(c util.Clock) Option             { return func(b *Board) { b.clock = c } }

func New(cfg Config, opts ...Option) (*Board, error) {
	if !cfg.Currency.Valid() {
		return nil, fmt.Errorf("board currency %q is not an ISO-4217 code", cfg.Currency)
	}
	if cfg.Depth <= 0 || cfg.Depth > orderbook.DefaultDepth {
		cfg.Depth = orderbook.DefaultDepth
	}

	b := &Board{
		registry: orderbook.NewRegistry(),
		cfg:      cfg,
		assets:   market.DefaultAssets(),
		log:      zap.NewNop().Sugar(),
		metrics:  metrics.New(),
		clock:    util.RealClock{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Board) Config() Config                { return b.cfg }
func (b *Board) Assets() *market.AssetRegistry { return b.assets }
func (b *Board) Metrics() *metrics.Metrics     { return b.metrics }

// Subscribe registers fn to receive the depth after every accepted place or
// cancel. fn runs on the caller's goroutine and must not block.
func (b *Board) Subscribe(fn func(Depth)) {
	b.subsMu.Lock()
	b.subs = append(b.subs, fn)
	b.subsMu.Unlock()
}

// Place validates and stores o. Invalid orders return false and a
// *orderbook.ValidationError.
func (b *Board) Place(o orderbook.Order) (bool, error) {
	if err := b.validate(o); err != nil {
		var ve *orderbook.ValidationError
		if errors.As(err, &ve) {
			b.metrics.ValidationRejects.WithLabelValues(ve.Field).Inc()
		}
		b.log.Warnw("order_rejected", "side", o.Side, "trader", o.Trader, "asset", o.Asset, "err", err)
		return false, err
	}

	b.mu.Lock()
	if b.journal != nil {
		if err := b.journal.Append(o); err != nil {
			b.mu.Unlock()
			return false, fmt.Errorf("journal append: %w", err)
		}
	}
	ok := b.registry.Place(o)
	open := b.registry.Len()
	b.mu.Unlock()

	b.metrics.OrdersPlacedTotal.WithLabelValues(o.Side.String()).Inc()
	b.metrics.OpenOrders.Set(float64(open))
	b.appendAudit("ORDER_PLACE", o)
	b.log.Infow("order_placed", "side", o.Side, "trader", o.Trader, "asset", o.Asset,
		"qty", o.Quantity.String(), "price", o.Price.String(), "open_orders", open)

	b.notify()
	return ok, nil
}

// Cancel removes the first open order equal to o. A missing order is
// reported as false with a nil error.
func (b *Board) Cancel(o orderbook.Order) (bool, error) {
	b.mu.Lock()
	if _, found := b.registry.Find(o); !found {
		b.mu.Unlock()
		b.metrics.CancelMissesTotal.Inc()
		b.log.Infow("cancel_miss", "order", o.String())
		return false, nil
	}
	if b.journal != nil {
		if err := b.journal.Remove(o); err != nil {
			b.mu.Unlock()
			return false, fmt.Errorf("journal remove: %w", err)
		}
	}
	ok := b.registry.Cancel(o)
	open := b.registry.Len()
	b.mu.Unlock()

	b.metrics.OrdersCancelledTotal.WithLabelValues(o.Side.String()).Inc()
	b.metrics.OpenOrders.Set(float64(open))
	b.appendAudit("ORDER_CANCEL", o)
	b.log.Infow("order_cancelled", "side", o.Side, "trader", o.Trader, "asset", o.Asset, "open_orders", open)

	b.notify()
	return ok, nil
}

// Find returns the first open order equal to o.
func (b *Board) Find(o orderbook.Order) (orderbook.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registry.Find(o)
}

// Len returns the number of open orders.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registry.Len()
}

func (b *Board) SellSummary() ([]orderbook.AggregatedOrder, error) { return b.Summary(orderbook.Sell) }

func (b *Board) BuySummary() ([]orderbook.AggregatedOrder, error) { return b.Summary(orderbook.Buy) }

// Summary aggregates one side. An *orderbook.AggregationConflictError fails
// the whole call.
func (b *Board) Summary(side orderbook.Side) ([]orderbook.AggregatedOrder, error) {
	return b.aggregate(b.snapshot(), side)
}

// Depth aggregates both sides from a single snapshot.
func (b *Board) Depth() (Depth, error) {
	snap := b.snapshot()
	bids, err := b.aggregate(snap, orderbook.Buy)
	if err != nil {
		return Depth{}, err
	}
	asks, err := b.aggregate(snap, orderbook.Sell)
	if err != nil {
		return Depth{}, err
	}
	return Depth{
		Currency:  b.cfg.Currency,
		Bids:      bids,
		Asks:      asks,
		Timestamp: b.clock.Now(),
	}, nil
}

// Restore replaces the registry contents with the journal's orders. Orders
// that Place would reject are skipped and logged.
func (b *Board) Restore(ctx context.Context) error {
	if b.journal == nil {
		return nil
	}
	orders, err := b.journal.Load()
	if err != nil {
		return fmt.Errorf("journal load: %w", err)
	}

	valid := orders[:0:0]
	for _, o := range orders {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.validate(o); err != nil {
			b.log.Warnw("restore_skipped_order", "side", o.Side, "trader", o.Trader, "asset", o.Asset, "err", err)
			continue
		}
		valid = append(valid, o)
	}

	b.mu.Lock()
	b.registry.Reset()
	for _, o := range valid {
		b.registry.Place(o)
	}
	open := b.registry.Len()
	b.mu.Unlock()

	b.metrics.OpenOrders.Set(float64(open))
	b.log.Infow("board_restored", "open_orders", open, "skipped", len(orders)-len(valid))
	b.notify()
	return nil
}

func (b *Board) snapshot() []orderbook.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registry.Snapshot()
}

func (b *Board) aggregate(snap []orderbook.Order, side orderbook.Side) ([]orderbook.AggregatedOrder, error) {
	start := time.Now()
	levels, err := orderbook.Aggregate(snap, side, orderbook.AggregateOptions{
		Depth:    b.cfg.Depth,
		Grouping: b.cfg.Grouping,
	})
	b.metrics.SummaryLatencyMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		b.metrics.AggregationConflicts.WithLabelValues(side.String()).Inc()
		b.log.Errorw("summary_conflict", "side", side, "err", err)
		return nil, fmt.Errorf("%s summary: %w", side, err)
	}
	return levels, nil
}

func (b *Board) validate(o orderbook.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !b.assets.Exists(o.Asset) {
		return &orderbook.ValidationError{Field: "asset", Reason: fmt.Sprintf("%s is not traded on this board", o.Asset)}
	}
	if o.Price.Currency != b.cfg.Currency {
		return &orderbook.ValidationError{
			Field:  "price",
			Reason: fmt.Sprintf("currency %s, board trades in %s", o.Price.Currency, b.cfg.Currency),
		}
	}
	return nil
}

func (b *Board) appendAudit(event string, o orderbook.Order) {
	if b.audit == nil {
		return
	}
	if err := b.audit.Append(event, o); err != nil {
		b.log.Errorw("audit_append_failed", "event", event, "err", err)
	}
}

// notify delivers a fresh depth to every subscriber. The snapshot is taken
// under notifyMu, so a later call never delivers an older book.
func (b *Board) notify() {
	b.subsMu.RLock()
	subs := b.subs
	b.subsMu.RUnlock()
	if len(subs) == 0 {
		return
	}

	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()

	d, err := b.Depth()
	if err != nil {
		// already logged by aggregate; nothing consistent to publish
		return
	}
	for _, fn := range subs {
		fn(d)
	}
}
