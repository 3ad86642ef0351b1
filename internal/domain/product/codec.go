package product

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront-client/internal/domain/money"
)

// Encode writes the product snapshot as a JSON object. The same shape is
// used on the wire and in the persisted cart.
func (p Product) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
		e.Field("sku", func(e *jx.Encoder) { e.Str(p.SKU) })
		e.Field("title", func(e *jx.Encoder) { e.Str(p.Title) })
		if p.Description != "" {
			e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		}
		e.Field("stock", func(e *jx.Encoder) { e.Int64(p.Stock) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("price", p.Price.Encode)
	})
}

// Decode parses a product object. ID, title, and price are required; a
// snapshot without them cannot participate in cart arithmetic and is
// treated as corrupt.
func Decode(d *jx.Decoder) (Product, error) {
	var (
		p        Product
		hasID    bool
		hasTitle bool
		hasPrice bool
	)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Int64()
			hasID = err == nil
		case "sku":
			p.SKU, err = d.Str()
		case "title":
			p.Title, err = d.Str()
			hasTitle = err == nil
		case "description":
			p.Description, err = d.Str()
		case "stock":
			p.Stock, err = d.Int64()
		case "category":
			p.Category, err = d.Str()
		case "price":
			p.Price, err = money.Decode(d)
			hasPrice = err == nil
		default:
			return d.Skip()
		}
		return errors.Wrap(err, key)
	}); err != nil {
		return Product{}, errors.Wrap(err, "product object")
	}
	if !hasID || !hasTitle || !hasPrice {
		return Product{}, errors.New("product: missing id, title, or price")
	}
	return p, nil
}

// DecodeList parses a JSON array of products.
func DecodeList(d *jx.Decoder) ([]Product, error) {
	var out []Product
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := Decode(d)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "product list")
	}
	return out, nil
}
