// Package checkout converts the current cart plus a shipping address into
// a remote order. It is the only component that crosses the line between
// the local mutable cart and the remote immutable order.
package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	cartstore "github.com/xenking/storefront-client/internal/cart"
	"github.com/xenking/storefront-client/internal/domain/cart"
	"github.com/xenking/storefront-client/internal/domain/order"
	"github.com/xenking/storefront-client/internal/identity"
)

// Sentinel errors reported before any remote call is attempted.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyCart        = errors.New("cart is empty")
)

// OrderCreator is the slice of the remote service the orchestrator needs.
type OrderCreator interface {
	CreateOrder(ctx context.Context, payload order.Payload, idempotencyKey string) (int64, error)
}

// Service orchestrates checkout: precondition checks, payload assembly
// from a captured snapshot, the remote call, and the clear-on-success
// reconciliation.
type Service struct {
	carts    *cartstore.Store
	orders   OrderCreator
	identity identity.Provider
	currency string
	lg       *zap.Logger
}

// NewService creates a checkout Service with the required dependencies.
// currency is the session currency used for an all-defaults total.
func NewService(
	carts *cartstore.Store,
	orders OrderCreator,
	ids identity.Provider,
	currency string,
	lg *zap.Logger,
) *Service {
	return &Service{
		carts:    carts,
		orders:   orders,
		identity: ids,
		currency: currency,
		lg:       lg,
	}
}

// Checkout submits the current cart with the given shipping address and
// optional contact email, returning the server-assigned order id.
//
// The cart snapshot is captured before the remote call; the live cart may
// keep changing while the call is in flight. On success the live cart is
// cleared — whatever it holds by then — and the id is returned. On any
// failure the live cart is left exactly as it was: retry is the user's
// decision, never this service's.
func (s *Service) Checkout(ctx context.Context, address order.Address, email string) (int64, error) {
	if _, ok := s.identity.Current(); !ok {
		return 0, ErrNotAuthenticated
	}

	snapshot := s.carts.Snapshot()
	if snapshot.IsEmpty() {
		return 0, ErrEmptyCart
	}

	if err := address.Validate(); err != nil {
		return 0, err
	}

	payload := order.Payload{
		Items:    snapshot.Items,
		Total:    cart.Subtotal(snapshot, s.currency),
		Email:    email,
		Shipping: address,
	}

	// One key per submission: a transport-level replay of this call is
	// the same order, a user-driven retry after a reported failure is a
	// new one.
	key := uuid.New().String()

	orderID, err := s.orders.CreateOrder(ctx, payload, key)
	if err != nil {
		s.lg.Warn("Checkout failed, cart preserved",
			zap.Int64("items", cart.ItemCount(snapshot)),
			zap.Error(err),
		)
		return 0, errors.Wrap(err, "create order")
	}

	// Order confirmed remotely; only now is the local cart cleared.
	s.carts.Clear()
	s.lg.Info("Order placed",
		zap.Int64("order_id", orderID),
		zap.Int64("total_minor_units", payload.Total.Value),
	)
	return orderID, nil
}
