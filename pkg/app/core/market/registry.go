package market

import (
	"fmt"
	"sort"
	"sync"
)

// AssetRegistry tracks which assets may be traded on a board.
// Safe for concurrent use.
type AssetRegistry struct {
	mu     sync.RWMutex
	assets map[Asset]struct{}
}

// NewAssetRegistry creates an empty asset registry
func NewAssetRegistry() *AssetRegistry {
	return &AssetRegistry{
		assets: make(map[Asset]struct{}),
	}
}

// DefaultAssets returns a registry holding every built-in coin
func DefaultAssets() *AssetRegistry {
	ar := NewAssetRegistry()
	for _, a := range BuiltinAssets() {
		// Built-ins are distinct, Register cannot fail here
		_ = ar.Register(a)
	}
	return ar
}

// Register adds a new asset to the registry
// Returns error if the asset is empty or already registered
func (ar *AssetRegistry) Register(a Asset) error {
	if a == "" {
		return fmt.Errorf("cannot register empty asset")
	}

	ar.mu.Lock()
	defer ar.mu.Unlock()

	if _, exists := ar.assets[a]; exists {
		return fmt.Errorf("asset %s already registered", a)
	}

	ar.assets[a] = struct{}{}
	return nil
}

// Get returns the asset if registered
func (ar *AssetRegistry) Get(a Asset) (Asset, error) {
	ar.mu.RLock()
	defer ar.mu.RUnlock()

	if _, exists := ar.assets[a]; !exists {
		return "", fmt.Errorf("asset %s not found", a)
	}
	return a, nil
}

// List returns all registered assets sorted by name
func (ar *AssetRegistry) List() []Asset {
	ar.mu.RLock()
	defer ar.mu.RUnlock()

	assets := make([]Asset, 0, len(ar.assets))
	for a := range ar.assets {
		assets = append(assets, a)
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i] < assets[j]
	})
	return assets
}

// Remove drops an asset. Orders already on a board are left alone.
func (ar *AssetRegistry) Remove(a Asset) error {
	ar.mu.Lock()
	defer ar.mu.Unlock()

	if _, exists := ar.assets[a]; !exists {
		return fmt.Errorf("asset %s not found", a)
	}
	delete(ar.assets, a)
	return nil
}

// Count returns the total number of registered assets
func (ar *AssetRegistry) Count() int {
	ar.mu.RLock()
	defer ar.mu.RUnlock()
	return len(ar.assets)
}

// Exists checks if an asset is registered
func (ar *AssetRegistry) Exists(a Asset) bool {
	ar.mu.RLock()
	defer ar.mu.RUnlock()
	_, exists := ar.assets[a]
	return exists
}
