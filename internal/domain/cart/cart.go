// Package cart defines the cart snapshot value type and the pure state
// transitions over it. A State is never mutated in place: every transition
// returns a fresh value, so identical inputs always produce value-equal
// outputs and callers can hold snapshots without defensive copying.
package cart

import (
	"github.com/xenking/storefront-client/internal/domain/money"
	"github.com/xenking/storefront-client/internal/domain/product"
)

// Item is one cart line: a product snapshot plus a quantity. Quantity is
// always >= 1 while the item exists; transitions that would drop it to
// zero remove the item instead.
type Item struct {
	Product  product.Product
	Quantity int64
}

// State is an immutable cart snapshot: an ordered list of items, unique by
// product id. Insertion order is preserved for display only.
type State struct {
	Items []Item
}

// Empty returns a cart with no items.
func Empty() State {
	return State{}
}

// IsEmpty reports whether the cart holds no items.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// Clone returns a deep-enough copy of the state. Item values copy by
// assignment; only the backing slice is shared, so Clone cuts that link.
func (s State) Clone() State {
	if len(s.Items) == 0 {
		return State{}
	}
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	return State{Items: items}
}

// Add returns a state with qty units of p added. If an item with the same
// product id exists, its quantity grows by qty and its stored snapshot is
// kept; otherwise a new item is appended. Quantity is not clamped against
// p.Stock here: stock is a point-in-time hint, enforced (if at all) by the
// caller at input time.
func Add(s State, p product.Product, qty int64) State {
	if qty < 1 {
		qty = 1
	}
	for i, item := range s.Items {
		if item.Product.ID == p.ID {
			items := make([]Item, len(s.Items))
			copy(items, s.Items)
			items[i].Quantity += qty
			return State{Items: items}
		}
	}
	items := make([]Item, len(s.Items), len(s.Items)+1)
	copy(items, s.Items)
	return State{Items: append(items, Item{Product: p, Quantity: qty})}
}

// Remove returns a state without the item matching productID. When no item
// matches, the result is value-equal to s.
func Remove(s State, productID int64) State {
	items := make([]Item, 0, len(s.Items))
	for _, item := range s.Items {
		if item.Product.ID != productID {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return State{}
	}
	return State{Items: items}
}

// SetQuantity returns a state with the matching item's quantity replaced.
// A quantity <= 0 is equivalent to Remove. The item's product snapshot is
// preserved unchanged.
func SetQuantity(s State, productID, qty int64) State {
	if qty <= 0 {
		return Remove(s, productID)
	}
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Quantity = qty
		}
	}
	return State{Items: items}
}

// Subtotal sums price × quantity across all items in integer minor units.
// The currency is taken from the first item; an empty cart yields a zero
// amount in the given fallback currency.
func Subtotal(s State, fallbackCurrency string) money.Money {
	currency := fallbackCurrency
	if len(s.Items) > 0 {
		currency = s.Items[0].Product.Price.Currency
	}
	total := money.New(0, currency)
	for _, item := range s.Items {
		total = total.Add(item.Product.Price.MulQty(item.Quantity))
	}
	return total
}

// ItemCount sums quantities across all items.
func ItemCount(s State) int64 {
	var n int64
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}
