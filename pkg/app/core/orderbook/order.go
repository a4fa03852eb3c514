package orderbook

import (
	"fmt"
	"strings"

	"github.com/uhyunpark/liveboard/pkg/app/core/market"
	"github.com/uhyunpark/liveboard/pkg/app/core/money"
)

type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

func (s Side) Valid() bool { return s == Buy || s == Sell }

// ParseSide accepts "buy"/"bid" and "sell"/"ask" in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "bid", "bids":
		return Buy, nil
	case "sell", "ask", "asks":
		return Sell, nil
	default:
		return 0, &ValidationError{Field: "side", Reason: fmt.Sprintf("unknown side %q", s)}
	}
}

func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal side %d", s)
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	parsed, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type TraderID int64

// Order is a resting buy or sell order. Orders have no identity beyond their
// field values: two orders with equal fields are interchangeable.
type Order struct {
	Side     Side           `json:"side"`
	Trader   TraderID       `json:"trader"`
	Asset    market.Asset   `json:"asset"`
	Quantity money.Quantity `json:"quantity"`
	Price    money.Money    `json:"price"` // per unit of Asset
}

func NewBuy(trader TraderID, asset market.Asset, qty money.Quantity, price money.Money) Order {
	return Order{Side: Buy, Trader: trader, Asset: asset, Quantity: qty, Price: price}
}

func NewSell(trader TraderID, asset market.Asset, qty money.Quantity, price money.Money) Order {
	return Order{Side: Sell, Trader: trader, Asset: asset, Quantity: qty, Price: price}
}

// Equal reports structural equality. Decimal fields compare numerically.
func (o Order) Equal(other Order) bool {
	return o.Side == other.Side &&
		o.Trader == other.Trader &&
		o.Asset == other.Asset &&
		o.Quantity.Equal(other.Quantity) &&
		o.Price.Equal(other.Price)
}

// Validate checks the shape of an order. Business rules such as minimum size
// are not enforced here.
func (o Order) Validate() error {
	if !o.Side.Valid() {
		return &ValidationError{Field: "side", Reason: fmt.Sprintf("unknown side %d", o.Side)}
	}
	if o.Asset == "" {
		return &ValidationError{Field: "asset", Reason: "must be set"}
	}
	if err := money.CheckBounds(o.Quantity.Decimal); err != nil {
		return &ValidationError{Field: "quantity", Reason: err.Error()}
	}
	if !o.Quantity.IsPositive() {
		return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be positive, got %s", o.Quantity)}
	}
	if !o.Price.Currency.Valid() {
		return &ValidationError{Field: "price", Reason: fmt.Sprintf("malformed currency %q", o.Price.Currency)}
	}
	if err := money.CheckBounds(o.Price.Amount); err != nil {
		return &ValidationError{Field: "price", Reason: err.Error()}
	}
	if o.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: fmt.Sprintf("must not be negative, got %s", o.Price)}
	}
	return nil
}

func (o Order) String() string {
	return fmt.Sprintf("%s(trader=%d %s qty=%s @ %s)", o.Side, o.Trader, o.Asset, o.Quantity, o.Price)
}

// AggregatedOrder is one price level on one side of the board.
type AggregatedOrder struct {
	Side     Side           `json:"side"`
	Asset    market.Asset   `json:"asset"`
	Quantity money.Quantity `json:"quantity"`
	Price    money.Money    `json:"price"`
}

func (o Order) level() AggregatedOrder {
	return AggregatedOrder{Side: o.Side, Asset: o.Asset, Quantity: o.Quantity, Price: o.Price}
}

// Add merges two entries of the same level. Mixing assets or prices is a conflict.
func (a AggregatedOrder) Add(other AggregatedOrder) (AggregatedOrder, error) {
	if a.Side != other.Side || a.Asset != other.Asset || !a.Price.Equal(other.Price) {
		return AggregatedOrder{}, &AggregationConflictError{
			Side:   a.Side,
			Price:  a.Price,
			Assets: []market.Asset{a.Asset, other.Asset},
		}
	}
	a.Quantity = a.Quantity.Add(other.Quantity)
	return a, nil
}

func (a AggregatedOrder) Equal(other AggregatedOrder) bool {
	return a.Side == other.Side &&
		a.Asset == other.Asset &&
		a.Quantity.Equal(other.Quantity) &&
		a.Price.Equal(other.Price)
}
