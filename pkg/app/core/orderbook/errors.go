package orderbook

import (
	"errors"
	"fmt"

	"github.com/uhyunpark/liveboard/pkg/app/core/market"
	"github.com/uhyunpark/liveboard/pkg/app/core/money"
)

var (
	ErrInvalidOrder        = errors.New("invalid order")
	ErrAggregationConflict = errors.New("aggregation conflict")
)

// ValidationError rejects a malformed order before it reaches the registry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidOrder }

// AggregationConflictError means one price level would have to hold more
// than one asset. It is a data integrity fault, not a transient one.
type AggregationConflictError struct {
	Side   Side
	Price  money.Money
	Assets []market.Asset
}

func (e *AggregationConflictError) Error() string {
	return fmt.Sprintf("aggregation conflict: %s level at %s mixes assets %v", e.Side, e.Price, e.Assets)
}

func (e *AggregationConflictError) Unwrap() error { return ErrAggregationConflict }

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
