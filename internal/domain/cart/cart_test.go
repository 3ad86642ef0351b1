package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront-client/internal/domain/money"
	"github.com/xenking/storefront-client/internal/domain/product"
)

func newTestProduct(id int64, title string, cents int64) product.Product {
	return product.Product{
		ID:       id,
		SKU:      "SKU-" + title,
		Title:    title,
		Stock:    10,
		Category: "test",
		Price:    money.New(cents, "USD"),
	}
}

func TestAdd_NewItem(t *testing.T) {
	p := newTestProduct(1, "Widget", 199)

	s := Add(Empty(), p, 2)

	require.Len(t, s.Items, 1)
	assert.Equal(t, p, s.Items[0].Product)
	assert.Equal(t, int64(2), s.Items[0].Quantity)
}

func TestAdd_ExistingItemIncrementsQuantity(t *testing.T) {
	p := newTestProduct(1, "Widget", 199)
	s := Add(Empty(), p, 2)

	s = Add(s, p, 3)

	require.Len(t, s.Items, 1, "adding an existing product must not create a second entry")
	assert.Equal(t, int64(5), s.Items[0].Quantity)
}

func TestAdd_KeepsOriginalSnapshot(t *testing.T) {
	p := newTestProduct(1, "Widget", 199)
	s := Add(Empty(), p, 1)

	changed := p
	changed.Price = money.New(999, "USD")
	s = Add(s, changed, 1)

	// The stored snapshot from the first add wins; a later catalog read
	// with a different price does not retroactively alter the line.
	assert.Equal(t, int64(199), s.Items[0].Product.Price.Value)
	assert.Equal(t, int64(2), s.Items[0].Quantity)
}

func TestAdd_DefaultsToOne(t *testing.T) {
	s := Add(Empty(), newTestProduct(1, "Widget", 199), 0)
	assert.Equal(t, int64(1), s.Items[0].Quantity)
}

func TestAdd_DoesNotMutateInput(t *testing.T) {
	p1 := newTestProduct(1, "Widget", 199)
	p2 := newTestProduct(2, "Gadget", 501)
	orig := Add(Empty(), p1, 1)

	_ = Add(orig, p2, 1)
	_ = Add(orig, p1, 5)

	require.Len(t, orig.Items, 1)
	assert.Equal(t, int64(1), orig.Items[0].Quantity)
}

func TestRemove(t *testing.T) {
	s := Add(Empty(), newTestProduct(1, "Widget", 199), 1)
	s = Add(s, newTestProduct(2, "Gadget", 501), 1)

	s = Remove(s, 1)

	require.Len(t, s.Items, 1)
	assert.Equal(t, int64(2), s.Items[0].Product.ID)
}

func TestRemove_AbsentIDIsNoop(t *testing.T) {
	s := Add(Empty(), newTestProduct(1, "Widget", 199), 2)

	got := Remove(s, 42)

	assert.Equal(t, s, got)
}

func TestSetQuantity(t *testing.T) {
	p := newTestProduct(1, "Widget", 199)
	s := Add(Empty(), p, 2)

	s = SetQuantity(s, 1, 7)

	assert.Equal(t, int64(7), s.Items[0].Quantity)
	assert.Equal(t, p, s.Items[0].Product, "product snapshot must be preserved")
}

func TestSetQuantity_NonPositiveRemoves(t *testing.T) {
	for _, qty := range []int64{0, -1, -100} {
		s := Add(Empty(), newTestProduct(1, "Widget", 199), 2)
		s = Add(s, newTestProduct(2, "Gadget", 501), 1)

		got := SetQuantity(s, 1, qty)

		assert.Equal(t, Remove(s, 1), got)
	}
}

func TestSubtotal(t *testing.T) {
	s := Add(Empty(), newTestProduct(1, "Widget", 199), 3)
	s = Add(s, newTestProduct(2, "Gadget", 501), 1)

	total := Subtotal(s, "USD")

	assert.Equal(t, int64(199*3+501), total.Value)
	assert.Equal(t, "USD", total.Currency)
}

func TestSubtotal_Empty(t *testing.T) {
	total := Subtotal(Empty(), "USD")
	assert.True(t, total.IsZero())
	assert.Equal(t, "USD", total.Currency)
}

func TestItemCount(t *testing.T) {
	s := Add(Empty(), newTestProduct(1, "Widget", 199), 3)
	s = Add(s, newTestProduct(2, "Gadget", 501), 2)

	assert.Equal(t, int64(5), ItemCount(s))
	assert.Equal(t, int64(0), ItemCount(Empty()))
}

func TestClone_Independent(t *testing.T) {
	s := Add(Empty(), newTestProduct(1, "Widget", 199), 1)
	c := s.Clone()

	c.Items[0].Quantity = 99

	assert.Equal(t, int64(1), s.Items[0].Quantity)
}
