// Package cart owns the live cart for a client session: a Store holding
// the current snapshot and a Persistence adapter mirroring it to the
// session key-value store.
package cart

import (
	"go.uber.org/zap"

	"github.com/xenking/storefront-client/internal/domain/cart"
	"github.com/xenking/storefront-client/pkg/kvstore"
)

// StorageKey is the fixed key the serialized cart lives under.
const StorageKey = "storefront_cart"

// Persistence mirrors cart snapshots to a key-value store. Storage faults
// are a degradation, never a failure: Load falls back to an empty cart and
// Save/Clear log and move on, leaving the in-memory cart authoritative for
// the rest of the session.
type Persistence struct {
	kv kvstore.Store
	lg *zap.Logger
}

// NewPersistence creates a Persistence over the given store.
func NewPersistence(kv kvstore.Store, lg *zap.Logger) *Persistence {
	return &Persistence{kv: kv, lg: lg}
}

// Load reads and decodes the stored cart. A missing key, corrupt payload,
// or storage error all yield an empty cart; the session must never fail to
// start because of a storage problem.
func (p *Persistence) Load() cart.State {
	data, err := p.kv.Get(StorageKey)
	if err != nil {
		if err != kvstore.ErrNotFound {
			p.lg.Warn("Failed to load cart from storage", zap.Error(err))
		}
		return cart.Empty()
	}

	state, err := cart.DecodeSnapshot(data)
	if err != nil {
		p.lg.Warn("Stored cart is corrupt, starting empty", zap.Error(err))
		return cart.Empty()
	}
	return state
}

// Save serializes and writes the state. Write failures are swallowed.
func (p *Persistence) Save(state cart.State) {
	if err := p.kv.Set(StorageKey, cart.EncodeSnapshot(state)); err != nil {
		p.lg.Warn("Failed to save cart to storage", zap.Error(err))
	}
}

// Clear removes the stored entry. Failures are swallowed.
func (p *Persistence) Clear() {
	if err := p.kv.Delete(StorageKey); err != nil {
		p.lg.Warn("Failed to clear cart storage", zap.Error(err))
	}
}
