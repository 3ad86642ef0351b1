package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront-client/internal/domain/cart"
	"github.com/xenking/storefront-client/internal/domain/money"
	"github.com/xenking/storefront-client/internal/domain/order"
	"github.com/xenking/storefront-client/internal/domain/product"
	"github.com/xenking/storefront-client/internal/identity"
)

const productJSON = `{"id":7,"sku":"SKU-7","title":"Widget","stock":5,"category":"tools","price":{"value":199,"currency":"USD"}}`

func newTestClient(t *testing.T, handler http.Handler, ids identity.Provider) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, srv.Client(), ids)
	require.NoError(t, err)
	return c, srv
}

func TestClient_Products(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		_, _ = w.Write([]byte(`[` + productJSON + `]`))
	}), nil)

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Title)
	assert.Equal(t, int64(199), products[0].Price.Value)
}

func TestClient_ProductsByCategoryAndSearch(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products":
			assert.Equal(t, "tools", r.URL.Query().Get("category"))
		case "/api/products/search":
			assert.Equal(t, "widg", r.URL.Query().Get("q"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[` + productJSON + `]`))
	}), nil)

	_, err := c.ProductsByCategory(context.Background(), "tools")
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "widg")
	require.NoError(t, err)
}

func TestClient_Product(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/7", r.URL.Path)
		_, _ = w.Write([]byte(productJSON))
	}), nil)

	p, err := c.Product(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
}

func TestClient_ProductNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"message":"no such product"}`))
	}), nil)

	_, err := c.Product(context.Background(), 999)
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestClient_NegativeFilterSkipsNetwork(t *testing.T) {
	var calls int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(productJSON))
	}), nil)

	c.SetNegativeFilter(BuildFilter([]product.Product{{ID: 7}}))

	_, err := c.Product(context.Background(), 123456)
	require.ErrorIs(t, err, product.ErrNotFound)
	assert.Equal(t, 0, calls, "a filtered-out id must not hit the service")

	p, err := c.Product(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
}

func TestClient_CreateOrder(t *testing.T) {
	ids := identity.Static{Principal: identity.Principal{Name: "ada"}, Present: true}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "Bearer ada", r.Header.Get("Authorization"))
		assert.Equal(t, "attempt-1", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"orderId":42}`))
	}), ids)

	payload := order.Payload{
		Items: []cart.Item{{
			Product:  product.Product{ID: 7, Title: "Widget", Price: money.New(199, "USD")},
			Quantity: 3,
		}},
		Total: money.New(597, "USD"),
		Shipping: order.Address{
			Name: "Ada", AddressLine1: "12 Way", City: "London", Zipcode: "N1", Country: "UK",
		},
	}

	orderID, err := c.CreateOrder(context.Background(), payload, "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), orderID)
}

func TestClient_CreateOrderRejected(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"message":"stock changed"}`))
	}), nil)

	_, err := c.CreateOrder(context.Background(), order.Payload{}, "")

	var sErr *StatusError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, http.StatusUnprocessableEntity, sErr.HTTPStatus)
	assert.Equal(t, "stock changed", sErr.Message)
	assert.Contains(t, sErr.Error(), "stock changed")
}

func TestClient_StatusErrorWithOpaqueBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>upstream exploded</html>`))
	}), nil)

	_, err := c.Products(context.Background())

	var sErr *StatusError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, http.StatusBadGateway, sErr.HTTPStatus)
}

func TestClient_OrderAndMyOrders(t *testing.T) {
	orderJSON := `{"id":42,"items":[],"totalPrice":{"value":597,"currency":"USD"},"paid":true,"timestamp":1725000000000000000}`
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/orders/42":
			_, _ = w.Write([]byte(orderJSON))
		case "/api/orders/43":
			w.WriteHeader(http.StatusNotFound)
		case "/api/orders":
			_, _ = w.Write([]byte(`[` + orderJSON + `]`))
		}
	}), nil)

	o, err := c.Order(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, o.Paid)

	_, err = c.Order(context.Background(), 43)
	require.ErrorIs(t, err, ErrOrderNotFound)

	all, err := c.MyOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(42), all[0].ID)
}

func TestClient_TransportError(t *testing.T) {
	c, err := New("http://127.0.0.1:1", nil, nil)
	require.NoError(t, err)

	_, err = c.Products(context.Background())
	require.Error(t, err)

	var sErr *StatusError
	assert.False(t, errors.As(err, &sErr), "transport errors are not status errors")
}
