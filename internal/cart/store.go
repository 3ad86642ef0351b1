package cart

import (
	"sync"

	"github.com/xenking/storefront-client/internal/domain/cart"
	"github.com/xenking/storefront-client/internal/domain/money"
	"github.com/xenking/storefront-client/internal/domain/product"
)

// Store is the single owner of the live cart state for a session. All
// mutations go through the pure transitions in the domain package and
// trigger a persistence write; reads hand out snapshots, never the live
// slice. Construct exactly one Store at session start and inject it where
// the cart is needed.
type Store struct {
	mu       sync.Mutex
	state    cart.State
	persist  *Persistence
	currency string
}

// NewStore restores the previous session's cart (if any) and returns the
// store owning it. currency is the display/zero-value currency used when
// the cart is empty.
func NewStore(persist *Persistence, currency string) *Store {
	return &Store{
		state:    persist.Load(),
		persist:  persist,
		currency: currency,
	}
}

// Add merges qty units of p into the cart.
func (s *Store) Add(p product.Product, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cart.Add(s.state, p, qty)
	s.persist.Save(s.state)
}

// Remove drops the item matching productID, if present.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cart.Remove(s.state, productID)
	s.persist.Save(s.state)
}

// SetQuantity replaces an item's quantity; qty <= 0 removes the item.
func (s *Store) SetQuantity(productID, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cart.SetQuantity(s.state, productID, qty)
	s.persist.Save(s.state)
}

// Clear resets the cart to empty and removes the stored entry. This is the
// terminal step of a successful checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cart.Empty()
	s.persist.Clear()
}

// Snapshot returns an immutable copy of the current state.
func (s *Store) Snapshot() cart.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ItemCount returns the sum of quantities across all items.
func (s *Store) ItemCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cart.ItemCount(s.state)
}

// Subtotal returns the cart total in integer minor units.
func (s *Store) Subtotal() money.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cart.Subtotal(s.state, s.currency)
}
