package orderbook

import (
	"container/heap"
	"fmt"
	"strings"
)

// DefaultDepth is how many price levels a summary shows per side.
const DefaultDepth = 10

// Grouping selects the key orders are merged under.
type Grouping int8

const (
	// GroupByAssetAndPrice keeps different assets at one price as separate levels.
	GroupByAssetAndPrice Grouping = iota
	// GroupByPrice merges on price alone and reports a conflict when a level
	// would mix assets.
	GroupByPrice
)

func (g Grouping) String() string {
	switch g {
	case GroupByAssetAndPrice:
		return "asset_price"
	case GroupByPrice:
		return "price"
	default:
		return "unknown"
	}
}

func ParseGrouping(s string) (Grouping, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asset_price", "asset-price":
		return GroupByAssetAndPrice, nil
	case "price":
		return GroupByPrice, nil
	default:
		return 0, fmt.Errorf("unknown grouping %q", s)
	}
}

func (g Grouping) key(o Order) string {
	if g == GroupByPrice {
		return o.Price.Key()
	}
	return string(o.Asset) + "|" + o.Price.Key()
}

type AggregateOptions struct {
	Depth    int // <= 0 means DefaultDepth
	Grouping Grouping
}

// Aggregate turns a snapshot into the best price levels for one side:
// asks lowest first, bids highest first. The input is not modified.
func Aggregate(orders []Order, side Side, opts AggregateOptions) ([]AggregatedOrder, error) {
	depth := opts.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}

	levels := make(map[string]*AggregatedOrder)
	var keys []string // first-seen order
	for _, o := range orders {
		if o.Side != side {
			continue
		}
		k := opts.Grouping.key(o)
		lvl, ok := levels[k]
		if !ok {
			l := o.level()
			levels[k] = &l
			keys = append(keys, k)
			continue
		}
		merged, err := lvl.Add(o.level())
		if err != nil {
			return nil, err
		}
		*lvl = merged
	}

	h := &levelHeap{better: betterFor(side)}
	for _, k := range keys {
		heap.Push(h, *levels[k])
		if h.Len() > depth {
			heap.Pop(h)
		}
	}

	out := make([]AggregatedOrder, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(AggregatedOrder)
	}
	return out, nil
}

// betterFor orders levels best first for a side. Equal prices only happen
// across assets (or currencies), which are tie-broken by name.
func betterFor(side Side) func(a, b AggregatedOrder) bool {
	return func(a, b AggregatedOrder) bool {
		if c := a.Price.Cmp(b.Price); c != 0 {
			if side == Buy {
				return c > 0
			}
			return c < 0
		}
		if a.Asset != b.Asset {
			return a.Asset < b.Asset
		}
		return a.Price.Currency < b.Price.Currency
	}
}
