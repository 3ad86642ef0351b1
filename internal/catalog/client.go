// Package catalog talks to the remote catalog/order service. The service
// is the single authority for products and orders; this client converts
// its JSON responses into domain snapshots and maps every non-success
// response to a typed error.
package catalog

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront-client/internal/domain/order"
	"github.com/xenking/storefront-client/internal/domain/product"
	"github.com/xenking/storefront-client/internal/identity"
)

// maxBodyBytes caps response bodies; the full catalog fits well under it.
const maxBodyBytes = 16 << 20

// Client is an HTTP client for the catalog/order service.
type Client struct {
	base     *url.URL
	http     *http.Client
	identity identity.Provider

	// filter, when set, short-circuits product lookups for ids that
	// certainly do not exist, skipping the network round trip. Built by
	// catalog-sync; false positives just fall through to the service.
	filter *bloom.BloomFilter
}

// New creates a Client for the service at baseURL.
func New(baseURL string, httpClient *http.Client, ids identity.Provider) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse service url %q", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: u, http: httpClient, identity: ids}, nil
}

// SetNegativeFilter installs a bloom filter over known product ids.
func (c *Client) SetNegativeFilter(f *bloom.BloomFilter) {
	c.filter = f
}

// Products fetches the full catalog.
func (c *Client) Products(ctx context.Context) ([]product.Product, error) {
	data, err := c.get(ctx, "/api/products", "")
	if err != nil {
		return nil, err
	}
	return product.DecodeList(jx.DecodeBytes(data))
}

// ProductsByCategory fetches the catalog filtered to one category.
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]product.Product, error) {
	q := url.Values{"category": {category}}
	data, err := c.get(ctx, "/api/products", q.Encode())
	if err != nil {
		return nil, err
	}
	return product.DecodeList(jx.DecodeBytes(data))
}

// Search fetches products matching a free-text term.
func (c *Client) Search(ctx context.Context, term string) ([]product.Product, error) {
	q := url.Values{"q": {term}}
	data, err := c.get(ctx, "/api/products/search", q.Encode())
	if err != nil {
		return nil, err
	}
	return product.DecodeList(jx.DecodeBytes(data))
}

// Product fetches a single product snapshot. Returns product.ErrNotFound
// when the id does not exist.
func (c *Client) Product(ctx context.Context, id int64) (*product.Product, error) {
	if c.filter != nil && !c.filter.TestString(strconv.FormatInt(id, 10)) {
		return nil, product.ErrNotFound
	}

	data, err := c.get(ctx, "/api/products/"+strconv.FormatInt(id, 10), "")
	if err != nil {
		var sErr *StatusError
		if errors.As(err, &sErr) && sErr.HTTPStatus == http.StatusNotFound {
			return nil, product.ErrNotFound
		}
		return nil, err
	}
	p, err := product.Decode(jx.DecodeBytes(data))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateOrder submits an order payload and returns the server-assigned
// order id. idempotencyKey deduplicates transport-level replays of one
// submission; the service may ignore it.
func (c *Client) CreateOrder(ctx context.Context, payload order.Payload, idempotencyKey string) (int64, error) {
	body := order.EncodePayload(payload)
	data, err := c.do(ctx, http.MethodPost, "/api/orders", "", body, idempotencyKey)
	if err != nil {
		return 0, err
	}

	var orderID int64
	found := false
	if err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		if key != "orderId" {
			return d.Skip()
		}
		id, err := d.Int64()
		if err != nil {
			return errors.Wrap(err, "orderId")
		}
		orderID = id
		found = true
		return nil
	}); err != nil {
		return 0, errors.Wrap(err, "decode create order response")
	}
	if !found {
		return 0, errors.New("create order response missing orderId")
	}
	return orderID, nil
}

// Order fetches one of the caller's orders. Returns order id mismatches
// and unknown ids as ErrOrderNotFound.
func (c *Client) Order(ctx context.Context, id int64) (*order.Order, error) {
	data, err := c.get(ctx, "/api/orders/"+strconv.FormatInt(id, 10), "")
	if err != nil {
		var sErr *StatusError
		if errors.As(err, &sErr) && sErr.HTTPStatus == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	o, err := order.Decode(jx.DecodeBytes(data))
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// MyOrders fetches every order belonging to the current principal.
func (c *Client) MyOrders(ctx context.Context) ([]order.Order, error) {
	data, err := c.get(ctx, "/api/orders", "")
	if err != nil {
		return nil, err
	}
	return order.DecodeList(jx.DecodeBytes(data))
}

func (c *Client) get(ctx context.Context, path, rawQuery string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, rawQuery, nil, "")
}

// do performs one request against the service, attaching the session
// bearer token when a principal is present.
func (c *Client) do(ctx context.Context, method, path, rawQuery string, body []byte, idempotencyKey string) ([]byte, error) {
	u := c.base.ResolveReference(&url.URL{Path: path, RawQuery: rawQuery})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	if c.identity != nil {
		if principal, ok := c.identity.Current(); ok {
			req.Header.Set("Authorization", "Bearer "+principal.Token())
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s %s response", method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, data)
	}
	return data, nil
}
