package product

import (
	"github.com/go-faster/errors"

	"github.com/xenking/storefront-client/internal/domain/money"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a point-in-time snapshot of a catalog item. The cart stores a
// copy taken at add time; later catalog changes never alter items already
// in a cart. Stock is a hint from the read that produced the snapshot, not
// a reservation.
type Product struct {
	ID          int64
	SKU         string
	Title       string
	Description string
	Stock       int64
	Category    string
	Price       money.Money
}
