// Package money provides an exact integer representation of monetary
// amounts. All arithmetic happens in minor units (cents for USD); the only
// conversion out of minor units is the one-way display projection in Format.
package money

import (
	"github.com/shopspring/decimal"
)

// Money is an amount in integer minor units of a currency.
type Money struct {
	Value    int64
	Currency string
}

// New creates a Money amount from minor units.
func New(value int64, currency string) Money {
	return Money{Value: value, Currency: currency}
}

// Add returns m + other. Both amounts must share a currency; mixing
// currencies is a programming error, so Add keeps m's currency code.
func (m Money) Add(other Money) Money {
	return Money{Value: m.Value + other.Value, Currency: m.Currency}
}

// MulQty returns the line total for qty units priced at m.
func (m Money) MulQty(qty int64) Money {
	return Money{Value: m.Value * qty, Currency: m.Currency}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Value == 0
}

// currency display metadata, keyed by ISO 4217 code. Unknown currencies
// fall back to a 2-digit exponent with the bare code as prefix.
var symbols = map[string]struct {
	symbol   string
	exponent int32
}{
	"USD": {"$", 2},
	"EUR": {"€", 2},
	"GBP": {"£", 2},
	"JPY": {"¥", 0},
}

// Format renders the amount for display, e.g. 1098 USD minor units as
// "$10.98". The result is presentation-only and is never parsed back.
func (m Money) Format() string {
	meta, ok := symbols[m.Currency]
	if !ok {
		meta.symbol = m.Currency + " "
		meta.exponent = 2
	}
	d := decimal.New(m.Value, -meta.exponent)
	return meta.symbol + d.StringFixed(meta.exponent)
}
