package money

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in      string
		want    Currency
		wantErr bool
	}{
		{in: "GBP", want: GBP},
		{in: " usd ", want: USD},
		{in: "GB", wantErr: true},
		{in: "G1P", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCurrency(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCurrency(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("expected ErrInvalidAmount, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCurrency(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if Currency("gbp").Valid() {
		t.Errorf("lower-case code should not be valid")
	}
	if !GBP.Valid() {
		t.Errorf("GBP should be valid")
	}
}

func TestMoneyCompareAndEqual(t *testing.T) {
	ten := MustMoney(GBP, "10.0")
	tenPlain := MustMoney(GBP, "10")
	five := MustMoney(GBP, "5.0")

	if !ten.Equal(tenPlain) {
		t.Errorf("10.0 GBP should equal 10 GBP")
	}
	if ten.Key() != tenPlain.Key() {
		t.Errorf("keys differ: %s vs %s", ten.Key(), tenPlain.Key())
	}
	if five.Cmp(ten) >= 0 {
		t.Errorf("5.0 should compare below 10.0")
	}

	// Ordering ignores currency, equality does not.
	tenUSD := MustMoney(USD, "10")
	if ten.Cmp(tenUSD) != 0 {
		t.Errorf("Cmp should ignore currency")
	}
	if ten.Equal(tenUSD) {
		t.Errorf("Equal should not ignore currency")
	}
}

func TestNewMoneyRejectsGarbage(t *testing.T) {
	if _, err := NewMoney(GBP, "ten"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestAmountBounds(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"13.6", true},
		{"0", true},
		{"999999999999999999", true},
		{"0.000000000000000001", true},
		{"10.2000", true},
		{"1e200000", false},
		{"1E2000000", false},
		{"1e-200000", false},
		{"0e200000", false},
		{"1000000000000000000", false},
		{"0.0000000000000000001", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, errM := NewMoney(GBP, tt.in)
			_, errQ := NewQuantity(tt.in)
			for _, err := range []error{errM, errQ} {
				if tt.ok && err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if !tt.ok && !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("expected ErrInvalidAmount, got %v", err)
				}
			}
		})
	}

	var q Quantity
	if err := json.Unmarshal([]byte(`"1e200000"`), &q); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("unmarshal huge exponent: got %v", err)
	}
}

func TestQuantity(t *testing.T) {
	sum := MustQuantity("350.1").Add(MustQuantity("3.5"))
	if !sum.Equal(MustQuantity("353.6")) {
		t.Errorf("350.1 + 3.5 = %s, want 353.6", sum)
	}

	// Exact decimal addition, no float drift.
	drift := MustQuantity("0.1").Add(MustQuantity("0.2"))
	if !drift.Equal(MustQuantity("0.3")) {
		t.Errorf("0.1 + 0.2 = %s, want 0.3", drift)
	}

	if _, err := NewQuantity("-1"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative quantity should fail, got %v", err)
	}
	if ZeroQuantity.IsPositive() {
		t.Errorf("zero quantity should not be positive")
	}
}

func TestQuantityJSON(t *testing.T) {
	b, err := json.Marshal(MustQuantity("350.1"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"350.1"` {
		t.Errorf("marshal = %s, want \"350.1\"", b)
	}

	var q Quantity
	if err := json.Unmarshal([]byte(`"-2"`), &q); err == nil {
		t.Errorf("expected error for negative quantity")
	}
	if err := json.Unmarshal([]byte(`12.5`), &q); err != nil {
		t.Fatalf("unmarshal bare number: %v", err)
	}
	if !q.Equal(MustQuantity("12.5")) {
		t.Errorf("got %s, want 12.5", q)
	}
}
