package storage

import (
	"encoding/json"
	"fmt"

	"github.com/uhyunpark/liveboard/pkg/app/core/orderbook"
)

// Orders are stored as JSON so decimal amounts keep their exact string form.
func encodeOrder(o orderbook.Order) ([]byte, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}
	return b, nil
}

func decodeOrder(b []byte) (orderbook.Order, error) {
	var o orderbook.Order
	if err := json.Unmarshal(b, &o); err != nil {
		return orderbook.Order{}, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	return o, nil
}
