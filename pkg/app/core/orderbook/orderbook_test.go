package orderbook

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/liveboard/pkg/app/core/market"
	"github.com/uhyunpark/liveboard/pkg/app/core/money"
)

func sell(trader TraderID, asset market.Asset, qty, price string) Order {
	return NewSell(trader, asset, money.MustQuantity(qty), money.MustMoney(money.GBP, price))
}

func buy(trader TraderID, asset market.Asset, qty, price string) Order {
	return NewBuy(trader, asset, money.MustQuantity(qty), money.MustMoney(money.GBP, price))
}

func TestRegistryPlaceAndFind(t *testing.T) {
	r := NewRegistry()
	order := sell(1, market.Bitcoin, "1", "10.20")

	if !r.Place(order) {
		t.Fatalf("Place() = false, want true")
	}
	if !r.Place(buy(1, market.Bitcoin, "1", "10.20")) {
		t.Fatalf("Place() buy = false, want true")
	}

	got, ok := r.Find(order)
	if !ok {
		t.Fatalf("Find() did not locate placed order")
	}
	if !got.Equal(order) {
		t.Errorf("Find() = %v, want %v", got, order)
	}

	// Numeric equality: 10.2 is the same price as 10.20
	if _, ok := r.Find(sell(1, market.Bitcoin, "1.0", "10.2")); !ok {
		t.Errorf("Find() should match numerically equal decimals")
	}
	if _, ok := r.Find(sell(2, market.Bitcoin, "1", "10.20")); ok {
		t.Errorf("Find() matched an order from another trader")
	}
}

func TestRegistryCancel(t *testing.T) {
	r := NewRegistry()
	order := sell(1, market.Bitcoin, "1", "10.20")
	r.Place(order)

	if !r.Cancel(order) {
		t.Fatalf("Cancel() = false, want true")
	}
	if _, ok := r.Find(order); ok {
		t.Errorf("order still present after cancel")
	}

	// Cancelling something absent leaves the registry untouched
	other := buy(2, market.Ethereum, "3", "1")
	r.Place(other)
	before := r.Snapshot()
	if r.Cancel(order) {
		t.Errorf("Cancel() of missing order = true, want false")
	}
	after := r.Snapshot()
	if len(before) != len(after) || !before[0].Equal(after[0]) {
		t.Errorf("registry changed after missing cancel: %v -> %v", before, after)
	}
}

func TestRegistryCancelRemovesOneDuplicate(t *testing.T) {
	r := NewRegistry()
	order := sell(1, market.Ethereum, "5", "2")
	r.Place(order)
	r.Place(order)

	if !r.Cancel(order) {
		t.Fatalf("first Cancel() = false")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 remaining duplicate, got %d", r.Len())
	}
	if !r.Cancel(order) {
		t.Fatalf("second Cancel() = false")
	}
	if r.Cancel(order) {
		t.Errorf("third Cancel() = true, want false")
	}
}

func TestRegistrySnapshotIsolation(t *testing.T) {
	r := NewRegistry()
	first := sell(1, market.Ethereum, "1", "1")
	second := sell(2, market.Ethereum, "2", "2")
	r.Place(first)
	r.Place(second)

	snap := r.Snapshot()
	r.Cancel(first)
	r.Place(sell(3, market.Ethereum, "3", "3"))

	if len(snap) != 2 {
		t.Fatalf("snapshot length = %d, want 2", len(snap))
	}
	if !snap[0].Equal(first) || !snap[1].Equal(second) {
		t.Errorf("snapshot lost insertion order or saw later mutations: %v", snap)
	}

	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Reset() left %d orders", r.Len())
	}
}

func TestOrderValidate(t *testing.T) {
	tests := []struct {
		name    string
		order   Order
		wantErr bool
	}{
		{name: "valid sell", order: sell(1, market.Bitcoin, "1", "10.20")},
		{name: "zero price is allowed", order: buy(1, market.Bitcoin, "1", "0")},
		{name: "zero quantity", order: sell(1, market.Bitcoin, "0", "10"), wantErr: true},
		{name: "negative price", order: sell(1, market.Bitcoin, "1", "-1"), wantErr: true},
		{name: "missing asset", order: sell(1, "", "1", "1"), wantErr: true},
		{
			name:    "unknown side",
			order:   Order{Trader: 1, Asset: market.Bitcoin, Quantity: money.MustQuantity("1"), Price: money.MustMoney(money.GBP, "1")},
			wantErr: true,
		},
		{
			name:    "price exponent too large",
			order:   NewSell(1, market.Ethereum, money.MustQuantity("1"), money.Money{Currency: money.GBP, Amount: decimal.New(1, 200000)}),
			wantErr: true,
		},
		{
			name:    "quantity scale too fine",
			order:   NewBuy(1, market.Ethereum, money.Quantity{Decimal: decimal.New(1, -200000)}, money.MustMoney(money.GBP, "1")),
			wantErr: true,
		},
		{
			name:    "malformed currency",
			order:   NewSell(1, market.Bitcoin, money.MustQuantity("1"), money.MustMoney("pounds", "1")),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("expected a ValidationError, got %T", err)
			}
		})
	}
}

func TestParseSide(t *testing.T) {
	for in, want := range map[string]Side{"buy": Buy, "BID": Buy, "sell": Sell, "asks": Sell} {
		got, err := ParseSide(in)
		if err != nil || got != want {
			t.Errorf("ParseSide(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSide("hold"); err == nil {
		t.Errorf("expected error for unknown side")
	}
}
