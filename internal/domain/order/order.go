package order

import (
	"fmt"
	"time"

	"github.com/xenking/storefront-client/internal/domain/cart"
	"github.com/xenking/storefront-client/internal/domain/money"
)

// Address is a shipping destination. All fields are required except
// AddressLine2 and Phone.
type Address struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	Zipcode      string
	Country      string
	Phone        string
}

// MissingFieldError indicates a required address field was left empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("address: %s is required", e.Field)
}

// Validate checks that every required field is present. It reports the
// first missing field so the caller can point the user at it.
func (a Address) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"name", a.Name},
		{"address line 1", a.AddressLine1},
		{"city", a.City},
		{"zipcode", a.Zipcode},
		{"country", a.Country},
	}
	for _, f := range required {
		if f.value == "" {
			return &MissingFieldError{Field: f.name}
		}
	}
	return nil
}

// Payload is the order-creation request body: the cart snapshot being
// submitted, its total computed at request time, the shipping address, and
// an optional contact email.
type Payload struct {
	Items    []cart.Item
	Total    money.Money
	Email    string
	Shipping Address
}

// Order is a confirmed order as returned by the remote service. The id is
// server-assigned; the client never constructs one and never mutates an
// order after it is returned.
type Order struct {
	ID        int64
	Items     []cart.Item
	Total     money.Money
	Paid      bool
	Address   Address
	Timestamp time.Time
}
