package market

import (
	"fmt"
	"strings"
)

// Asset identifies a tradable coin. The zero value is not a valid asset.
type Asset string

const (
	Bitcoin  Asset = "Bitcoin"
	Ethereum Asset = "Ethereum"
	Litecoin Asset = "Litecoin"
	Ripple   Asset = "Ripple"
)

// tickers maps the built-in coins to their exchange tickers
var tickers = map[Asset]string{
	Bitcoin:  "BTC",
	Ethereum: "ETH",
	Litecoin: "LTC",
	Ripple:   "XRP",
}

// BuiltinAssets returns the coins known at compile time, in a stable order.
func BuiltinAssets() []Asset {
	return []Asset{Bitcoin, Ethereum, Litecoin, Ripple}
}

// Ticker returns the exchange ticker, or the upper-cased name for custom assets.
func (a Asset) Ticker() string {
	if t, ok := tickers[a]; ok {
		return t
	}
	return strings.ToUpper(string(a))
}

func (a Asset) String() string { return string(a) }

// ParseAsset resolves a built-in coin by name or ticker, case-insensitively.
// Unknown non-empty names are returned as custom assets; whether they may be
// traded is decided by the AssetRegistry.
func ParseAsset(s string) (Asset, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty asset name")
	}
	for a, t := range tickers {
		if strings.EqualFold(s, string(a)) || strings.EqualFold(s, t) {
			return a, nil
		}
	}
	return Asset(s), nil
}
