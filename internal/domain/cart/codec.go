package cart

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront-client/internal/domain/product"
)

// snapshotVersion tags the persisted form so future layout changes can be
// detected instead of misparsed.
const snapshotVersion = 1

// EncodeSnapshot serializes a cart state into its self-describing stored
// form: {"version": 1, "items": [{"product": {...}, "quantity": n}, ...]}.
func EncodeSnapshot(s State) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(snapshotVersion) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range s.Items {
					encodeItem(e, item)
				}
			})
		})
	})
	return e.Bytes()
}

func encodeItem(e *jx.Encoder, item Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("product", item.Product.Encode)
		e.Field("quantity", func(e *jx.Encoder) { e.Int64(item.Quantity) })
	})
}

// DecodeSnapshot parses a stored cart. Any structural problem — wrong
// version, malformed item, non-positive quantity, duplicate product id —
// is an error so callers can fall back to an empty cart instead of
// loading a half-broken one.
func DecodeSnapshot(data []byte) (State, error) {
	var (
		s       State
		version int
		seen    = make(map[int64]struct{})
	)
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "version":
			v, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "version")
			}
			version = v
			return nil
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeItem(d)
				if err != nil {
					return err
				}
				if _, dup := seen[item.Product.ID]; dup {
					return errors.Errorf("duplicate product id %d", item.Product.ID)
				}
				seen[item.Product.ID] = struct{}{}
				s.Items = append(s.Items, item)
				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return State{}, errors.Wrap(err, "cart snapshot")
	}
	if version != snapshotVersion {
		return State{}, errors.Errorf("unsupported snapshot version %d", version)
	}
	return s, nil
}

func decodeItem(d *jx.Decoder) (Item, error) {
	var (
		item   Item
		hasQty bool
	)
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
			hasQty = true
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return Item{}, errors.Wrap(err, "cart item")
	}
	if !hasQty || item.Quantity < 1 {
		return Item{}, errors.New("cart item: quantity must be >= 1")
	}
	return item, nil
}
