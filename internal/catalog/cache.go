package catalog

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"

	"github.com/xenking/storefront-client/internal/domain/product"
)

// Cache file names under the cache directory.
const (
	cacheFile  = "catalog.json.gz"
	filterFile = "catalog.bloom"
)

// filterFPR is the accepted false-positive rate for the id filter. A false
// positive only costs one wasted round trip.
const filterFPR = 0.001

// Cache is an offline copy of the catalog: a compressed product dump for
// browsing without the service, and a bloom filter over product ids for
// cheap negative lookups.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create cache dir")
	}
	return &Cache{dir: dir}, nil
}

// WriteProducts stores the product dump as a pgzip-compressed JSON array.
// The write goes through a temp file and rename, so readers never observe
// a partial dump.
func (c *Cache) WriteProducts(products []product.Product) error {
	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for _, p := range products {
			p.Encode(e)
		}
	})

	tmp, err := os.CreateTemp(c.dir, ".tmp-catalog-*")
	if err != nil {
		return errors.Wrap(err, "create temp dump")
	}
	tmpName := tmp.Name()

	gz := pgzip.NewWriter(tmp)
	if _, err := gz.Write(e.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "write dump")
	}
	if err := gz.Close(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "flush dump")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "close dump")
	}
	if err := os.Rename(tmpName, filepath.Join(c.dir, cacheFile)); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "commit dump")
	}
	return nil
}

// ReadProducts loads the stored product dump.
func (c *Cache) ReadProducts() ([]product.Product, error) {
	f, err := os.Open(filepath.Join(c.dir, cacheFile))
	if err != nil {
		return nil, errors.Wrap(err, "open dump")
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "open gzip stream")
	}
	defer func() { _ = gz.Close() }()

	d := jx.Decode(gz, 4096)
	products, err := product.DecodeList(d)
	if err != nil {
		return nil, errors.Wrap(err, "decode dump")
	}
	return products, nil
}

// BuildFilter creates a bloom filter holding every product id in the dump.
func BuildFilter(products []product.Product) *bloom.BloomFilter {
	n := uint(len(products))
	if n == 0 {
		n = 1
	}
	f := bloom.NewWithEstimates(n, filterFPR)
	for _, p := range products {
		f.AddString(strconv.FormatInt(p.ID, 10))
	}
	return f
}

// WriteFilter stores the id filter next to the dump.
func (c *Cache) WriteFilter(f *bloom.BloomFilter) error {
	out, err := os.Create(filepath.Join(c.dir, filterFile))
	if err != nil {
		return errors.Wrap(err, "create filter file")
	}
	defer func() { _ = out.Close() }()

	if _, err := f.WriteTo(out); err != nil {
		return errors.Wrap(err, "write filter")
	}
	return nil
}

// ReadFilter loads the stored id filter. A missing or unreadable filter is
// reported as an error; callers treat it as "no filter" and skip the
// negative-lookup optimization.
func (c *Cache) ReadFilter() (*bloom.BloomFilter, error) {
	f, err := os.Open(filepath.Join(c.dir, filterFile))
	if err != nil {
		return nil, errors.Wrap(err, "open filter file")
	}
	defer func() { _ = f.Close() }()

	var filter bloom.BloomFilter
	if _, err := filter.ReadFrom(f); err != nil {
		return nil, errors.Wrap(err, "read filter")
	}
	return &filter, nil
}
