package storefront

import (
	"context"

	"github.com/shadeworks/storefront/internal/catalog"
	"github.com/shadeworks/storefront/pkg/logger"
)

// ShopView is the shop page state: the product grid plus the cart badge.
type ShopView struct {
	Products  []catalog.Product
	CartCount int
}

// CatalogBrowser renders the shop page and handles add-to-cart.
type CatalogBrowser struct {
	store   CartStore
	catalog catalog.Source
	logg    *logger.Logger
}

// NewCatalogBrowser builds the shop page presenter.
func NewCatalogBrowser(deps Deps) (*CatalogBrowser, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return &CatalogBrowser{
		store:   deps.Store,
		catalog: deps.Catalog,
		logg:    deps.Logger,
	}, nil
}

// Browse fetches the product grid and the current cart badge count. Unlike
// the cart page, the shop page has nothing to render without the catalog, so
// a catalog failure surfaces as an error.
func (b *CatalogBrowser) Browse(ctx context.Context) (ShopView, error) {
	products, err := b.catalog.List(ctx)
	if err != nil {
		if b.logg != nil {
			b.logg.Error(ctx, "catalog load failed for shop view", err)
		}
		return ShopView{}, dependencyErr(err, "load catalog")
	}
	return ShopView{
		Products:  products,
		CartCount: b.store.Load(ctx).TotalItemCount(),
	}, nil
}

// Add increments productID in the cart and returns the refreshed view. The
// badge count reflects the persisted state, never an optimistic local bump.
func (b *CatalogBrowser) Add(ctx context.Context, productID string) (ShopView, error) {
	if _, err := b.store.Add(ctx, productID); err != nil {
		return ShopView{}, dependencyErr(err, "persist cart addition")
	}
	return b.Browse(ctx)
}
