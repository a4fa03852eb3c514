package api

import (
	"github.com/uhyunpark/liveboard/pkg/app/core/board"
	"github.com/uhyunpark/liveboard/pkg/app/core/market"
	"github.com/uhyunpark/liveboard/pkg/app/core/money"
	"github.com/uhyunpark/liveboard/pkg/app/core/orderbook"
)

// API request/response types for REST endpoints and WebSocket messages

// ==============================
// REST Response Types
// ==============================

// AssetInfo describes one tradable coin
type AssetInfo struct {
	Name   string `json:"name"`   // e.g., "Ethereum"
	Ticker string `json:"ticker"` // e.g., "ETH"
}

// PriceLevel is one aggregated level. Amounts are decimal strings.
type PriceLevel struct {
	Asset    string `json:"asset"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// DepthSnapshot represents both sides of the board
type DepthSnapshot struct {
	Currency  string       `json:"currency"`
	Bids      []PriceLevel `json:"bids"`      // Sorted high to low
	Asks      []PriceLevel `json:"asks"`      // Sorted low to high
	Timestamp int64        `json:"timestamp"` // Unix milliseconds
}

// SideSnapshot represents one side of the board
type SideSnapshot struct {
	Side      string       `json:"side"`
	Currency  string       `json:"currency"`
	Levels    []PriceLevel `json:"levels"`
	Timestamp int64        `json:"timestamp"`
}

// OrderInfo echoes an order back to the client
type OrderInfo struct {
	Side     string `json:"side"`
	Trader   int64  `json:"trader"`
	Asset    string `json:"asset"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

// PlaceOrderResponse is the response from order placement
type PlaceOrderResponse struct {
	Status string    `json:"status"` // "placed"
	Order  OrderInfo `json:"order"`
}

// CancelOrderResponse reports whether an open order matched
type CancelOrderResponse struct {
	Cancelled bool      `json:"cancelled"`
	Order     OrderInfo `json:"order"`
}

// HealthResponse is returned by /health
type HealthResponse struct {
	Status     string `json:"status"`
	OpenOrders int    `json:"open_orders"`
	WSClients  int    `json:"ws_clients"`
}

// ErrorResponse is returned for all errors
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ==============================
// REST Request Types
// ==============================

// OrderRequest is the payload for POST /api/v1/orders and /api/v1/orders/cancel.
// Cancel matches on every field, so clients resend the order exactly as placed.
type OrderRequest struct {
	Side     string `json:"side"` // "buy" or "sell"
	Trader   int64  `json:"trader"`
	Asset    string `json:"asset"`              // name or ticker
	Quantity string `json:"quantity"`           // decimal string, e.g. "350.1"
	Price    string `json:"price"`              // per coin, decimal string
	Currency string `json:"currency,omitempty"` // defaults to the board currency
}

// toOrder parses the request. Parse failures come back as *orderbook.ValidationError.
func (r OrderRequest) toOrder(boardCurrency money.Currency) (orderbook.Order, error) {
	side, err := orderbook.ParseSide(r.Side)
	if err != nil {
		return orderbook.Order{}, err
	}
	asset, err := market.ParseAsset(r.Asset)
	if err != nil {
		return orderbook.Order{}, &orderbook.ValidationError{Field: "asset", Reason: err.Error()}
	}
	qty, err := money.NewQuantity(r.Quantity)
	if err != nil {
		return orderbook.Order{}, &orderbook.ValidationError{Field: "quantity", Reason: err.Error()}
	}
	cur := boardCurrency
	if r.Currency != "" {
		if cur, err = money.ParseCurrency(r.Currency); err != nil {
			return orderbook.Order{}, &orderbook.ValidationError{Field: "currency", Reason: err.Error()}
		}
	}
	price, err := money.NewMoney(cur, r.Price)
	if err != nil {
		return orderbook.Order{}, &orderbook.ValidationError{Field: "price", Reason: err.Error()}
	}

	return orderbook.Order{
		Side:     side,
		Trader:   orderbook.TraderID(r.Trader),
		Asset:    asset,
		Quantity: qty,
		Price:    price,
	}, nil
}

// ==============================
// WebSocket Message Types
// ==============================

// WSSubscribeRequest is sent by client to subscribe to channels
type WSSubscribeRequest struct {
	Op       string   `json:"op"`       // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"` // e.g., ["depth"]
}

// WSAck confirms a subscribe/unsubscribe request
type WSAck struct {
	Type     string   `json:"type"` // "subscribed" or "unsubscribed"
	Channels []string `json:"channels"`
}

// DepthUpdate is broadcast after every accepted place or cancel
type DepthUpdate struct {
	Type string `json:"type"` // "depth"
	DepthSnapshot
}

// ==============================
// Conversions
// ==============================

func toPriceLevels(levels []orderbook.AggregatedOrder) []PriceLevel {
	out := make([]PriceLevel, len(levels))
	for i, l := range levels {
		out[i] = PriceLevel{
			Asset:    l.Asset.String(),
			Price:    l.Price.Amount.String(),
			Quantity: l.Quantity.String(),
		}
	}
	return out
}

func toDepthSnapshot(d board.Depth) DepthSnapshot {
	return DepthSnapshot{
		Currency:  d.Currency.String(),
		Bids:      toPriceLevels(d.Bids),
		Asks:      toPriceLevels(d.Asks),
		Timestamp: d.Timestamp.UnixMilli(),
	}
}

func toOrderInfo(o orderbook.Order) OrderInfo {
	return OrderInfo{
		Side:     o.Side.String(),
		Trader:   int64(o.Trader),
		Asset:    o.Asset.String(),
		Quantity: o.Quantity.String(),
		Price:    o.Price.Amount.String(),
		Currency: o.Price.Currency.String(),
	}
}
