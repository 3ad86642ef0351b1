package order

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront-client/internal/domain/cart"
	"github.com/xenking/storefront-client/internal/domain/money"
	"github.com/xenking/storefront-client/internal/domain/product"
)

// EncodePayload serializes the order-creation request body.
func EncodePayload(p Payload) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range p.Items {
					encodeCartItem(e, item)
				}
			})
		})
		e.Field("totalPrice", p.Total.Encode)
		if p.Email != "" {
			e.Field("email", func(e *jx.Encoder) { e.Str(p.Email) })
		}
		e.Field("shippingAddress", func(e *jx.Encoder) { encodeAddress(e, p.Shipping) })
	})
	return e.Bytes()
}

func encodeCartItem(e *jx.Encoder, item cart.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("product", item.Product.Encode)
		e.Field("quantity", func(e *jx.Encoder) { e.Int64(item.Quantity) })
	})
}

func encodeAddress(e *jx.Encoder, a Address) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(a.Name) })
		e.Field("addressLine1", func(e *jx.Encoder) { e.Str(a.AddressLine1) })
		if a.AddressLine2 != "" {
			e.Field("addressLine2", func(e *jx.Encoder) { e.Str(a.AddressLine2) })
		}
		e.Field("city", func(e *jx.Encoder) { e.Str(a.City) })
		e.Field("zipcode", func(e *jx.Encoder) { e.Str(a.Zipcode) })
		e.Field("country", func(e *jx.Encoder) { e.Str(a.Country) })
		if a.Phone != "" {
			e.Field("phoneNumber", func(e *jx.Encoder) { e.Str(a.Phone) })
		}
	})
}

// Decode parses an order as returned by the remote service.
func Decode(d *jx.Decoder) (Order, error) {
	var (
		o     Order
		hasID bool
	)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := d.Int64()
			if err != nil {
				return errors.Wrap(err, "id")
			}
			o.ID = id
			hasID = true
			return nil
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeCartItem(d)
				if err != nil {
					return err
				}
				o.Items = append(o.Items, item)
				return nil
			})
		case "totalPrice":
			m, err := money.Decode(d)
			if err != nil {
				return err
			}
			o.Total = m
			return nil
		case "paid":
			paid, err := d.Bool()
			if err != nil {
				return errors.Wrap(err, "paid")
			}
			o.Paid = paid
			return nil
		case "customerAddress":
			a, err := decodeAddress(d)
			if err != nil {
				return err
			}
			o.Address = a
			return nil
		case "timestamp":
			// Nanoseconds since epoch, matching the service's clock.
			ns, err := d.Int64()
			if err != nil {
				return errors.Wrap(err, "timestamp")
			}
			o.Timestamp = time.Unix(0, ns)
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return Order{}, errors.Wrap(err, "order object")
	}
	if !hasID {
		return Order{}, errors.New("order: missing id")
	}
	return o, nil
}

// DecodeList parses a JSON array of orders.
func DecodeList(d *jx.Decoder) ([]Order, error) {
	var out []Order
	if err := d.Arr(func(d *jx.Decoder) error {
		o, err := Decode(d)
		if err != nil {
			return err
		}
		out = append(out, o)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "order list")
	}
	return out, nil
}

func decodeCartItem(d *jx.Decoder) (cart.Item, error) {
	var item cart.Item
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "product":
			p, err := product.Decode(d)
			if err != nil {
				return err
			}
			item.Product = p
			return nil
		case "quantity":
			q, err := d.Int64()
			if err != nil {
				return errors.Wrap(err, "quantity")
			}
			item.Quantity = q
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return cart.Item{}, errors.Wrap(err, "order item")
	}
	return item, nil
}

func decodeAddress(d *jx.Decoder) (Address, error) {
	var a Address
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			a.Name, err = d.Str()
		case "addressLine1":
			a.AddressLine1, err = d.Str()
		case "addressLine2":
			a.AddressLine2, err = d.Str()
		case "city":
			a.City, err = d.Str()
		case "zipcode":
			a.Zipcode, err = d.Str()
		case "country":
			a.Country, err = d.Str()
		case "phoneNumber":
			a.Phone, err = d.Str()
		default:
			return d.Skip()
		}
		return errors.Wrap(err, key)
	}); err != nil {
		return Address{}, errors.Wrap(err, "address object")
	}
	return a, nil
}
