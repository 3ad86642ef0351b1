package money

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Encode writes the amount as a JSON object {"value": n, "currency": "USD"}.
func (m Money) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("value", func(e *jx.Encoder) { e.Int64(m.Value) })
		e.Field("currency", func(e *jx.Encoder) { e.Str(m.Currency) })
	})
}

// Decode parses a Money object. Both fields are required: an amount without
// a currency code is treated as corrupt input.
func Decode(d *jx.Decoder) (Money, error) {
	var (
		m           Money
		hasValue    bool
		hasCurrency bool
	)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "value":
			v, err := d.Int64()
			if err != nil {
				return errors.Wrap(err, "value")
			}
			m.Value = v
			hasValue = true
		case "currency":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "currency")
			}
			m.Currency = s
			hasCurrency = true
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return Money{}, errors.Wrap(err, "money object")
	}
	if !hasValue || !hasCurrency {
		return Money{}, errors.New("money: missing value or currency")
	}
	return m, nil
}
