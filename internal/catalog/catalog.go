package catalog

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
)

// Product is the external, read-only record the storefront renders and
// prices against.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
}

// Source retrieves the full catalog. Implementations are expected to be
// called once per view derivation (no caching across loads).
type Source interface {
	List(ctx context.Context) ([]Product, error)
}

// Index resolves cart keys (product-id strings) to products.
type Index map[int64]Product

// BuildIndex maps products by id for line resolution.
func BuildIndex(products []Product) Index {
	idx := make(Index, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}

// Resolve looks up the product for a cart key. A key that does not parse or
// has no matching product resolves to false; callers treat such lines as
// silently dropped, per the stale-entry degradation policy.
func (i Index) Resolve(cartKey string) (Product, bool) {
	id, err := strconv.ParseInt(cartKey, 10, 64)
	if err != nil {
		return Product{}, false
	}
	p, ok := i[id]
	return p, ok
}
