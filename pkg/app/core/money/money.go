// Package money holds the exact-decimal value types used by the order board.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is wrapped by every parse failure in this package.
var ErrInvalidAmount = errors.New("invalid amount")

// Currency is an ISO-4217 code, e.g. "GBP".
type Currency string

const (
	GBP Currency = "GBP"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// ParseCurrency accepts a three letter code in any case.
func ParseCurrency(s string) (Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != 3 {
		return "", fmt.Errorf("currency %q: %w", s, ErrInvalidAmount)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("currency %q: %w", s, ErrInvalidAmount)
		}
	}
	return Currency(code), nil
}

// Valid reports whether c is already a well-formed upper-case code.
func (c Currency) Valid() bool {
	parsed, err := ParseCurrency(string(c))
	return err == nil && parsed == c
}

func (c Currency) String() string { return string(c) }

// Amounts are limited to MaxIntegerDigits before the point and MaxScale after
// it. Larger exponents make every String call expand into huge digit runs.
const (
	MaxIntegerDigits = 18
	MaxScale         = 18
)

// CheckBounds rejects amounts outside the digit limits above.
func CheckBounds(d decimal.Decimal) error {
	exp := int(d.Exponent())
	if exp < -MaxScale {
		return fmt.Errorf("more than %d decimal places: %w", MaxScale, ErrInvalidAmount)
	}
	if d.NumDigits()+exp > MaxIntegerDigits {
		return fmt.Errorf("more than %d integer digits: %w", MaxIntegerDigits, ErrInvalidAmount)
	}
	return nil
}

// Money is a price per unit of asset. Ordering looks at Amount only, so
// callers must keep one currency per book.
type Money struct {
	Currency Currency        `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func NewMoney(cur Currency, amount string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, fmt.Errorf("money %q: %w", amount, ErrInvalidAmount)
	}
	if err := CheckBounds(d); err != nil {
		return Money{}, fmt.Errorf("money %q: %w", amount, err)
	}
	return Money{Currency: cur, Amount: d}, nil
}

// MustMoney panics on a malformed amount. Meant for literals in tests and defaults.
func MustMoney(cur Currency, amount string) Money {
	m, err := NewMoney(cur, amount)
	if err != nil {
		panic(err)
	}
	return m
}

// Cmp compares amounts only.
func (m Money) Cmp(other Money) int { return m.Amount.Cmp(other.Amount) }

// Equal is true when currency and numeric amount match; 10.0 equals 10.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// Key is a canonical string for grouping equal prices.
func (m Money) Key() string {
	return string(m.Currency) + ":" + m.Amount.String()
}

func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

func (m Money) String() string {
	return m.Amount.String() + " " + string(m.Currency)
}

// Quantity is an exact, non-negative amount of an asset.
type Quantity struct {
	decimal.Decimal
}

// ZeroQuantity is the additive identity.
var ZeroQuantity = Quantity{decimal.Zero}

func NewQuantity(s string) (Quantity, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Quantity{}, fmt.Errorf("quantity %q: %w", s, ErrInvalidAmount)
	}
	if d.IsNegative() {
		return Quantity{}, fmt.Errorf("quantity %q is negative: %w", s, ErrInvalidAmount)
	}
	if err := CheckBounds(d); err != nil {
		return Quantity{}, fmt.Errorf("quantity %q: %w", s, err)
	}
	return Quantity{d}, nil
}

func MustQuantity(s string) Quantity {
	q, err := NewQuantity(s)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{q.Decimal.Add(other.Decimal)}
}

func (q Quantity) Equal(other Quantity) bool { return q.Decimal.Equal(other.Decimal) }

// UnmarshalJSON rejects negative quantities so bad input never reaches the book.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(b, &d); err != nil {
		return fmt.Errorf("quantity %s: %w", b, ErrInvalidAmount)
	}
	if d.IsNegative() {
		return fmt.Errorf("quantity %s is negative: %w", b, ErrInvalidAmount)
	}
	if err := CheckBounds(d); err != nil {
		return fmt.Errorf("quantity %s: %w", b, err)
	}
	q.Decimal = d
	return nil
}
