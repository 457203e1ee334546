package storefront

import (
	"context"

	"github.com/shadeworks/storefront/internal/cart"
	"github.com/shadeworks/storefront/internal/catalog"
	"github.com/shadeworks/storefront/internal/checkout"
	"github.com/shadeworks/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

// CartLine is one rendered cart row.
type CartLine struct {
	Product   catalog.Product
	Quantity  int
	LineTotal decimal.Decimal
}

// CartView is the fully derived cart page state. CheckoutEnabled gates the
// checkout entry point; it is false for an empty cart and while the catalog
// is unreachable.
type CartView struct {
	Lines           []CartLine
	Subtotal        decimal.Decimal
	TotalItems      int
	Empty           bool
	CatalogFailed   bool
	CheckoutEnabled bool
}

// CartPresenter renders the cart page and applies its mutations. Every
// mutation persists first and then re-derives the complete view.
type CartPresenter struct {
	store   CartStore
	catalog catalog.Source
	logg    *logger.Logger
}

// NewCartPresenter builds the cart page presenter.
func NewCartPresenter(deps Deps) (*CartPresenter, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return &CartPresenter{
		store:   deps.Store,
		catalog: deps.Catalog,
		logg:    deps.Logger,
	}, nil
}

// View derives the current cart page state. A catalog failure degrades the
// view rather than erroring: the page renders with CatalogFailed set and
// checkout disabled, because the persisted cart itself is intact.
func (p *CartPresenter) View(ctx context.Context) CartView {
	return p.derive(ctx, p.store.Load(ctx))
}

// SetQuantity persists the new quantity for productID and returns the
// re-derived view. Quantities below 1 are clamped by the store.
func (p *CartPresenter) SetQuantity(ctx context.Context, productID string, quantity int) (CartView, error) {
	updated, err := p.store.SetQuantity(ctx, productID, quantity)
	if err != nil {
		return CartView{}, dependencyErr(err, "persist quantity change")
	}
	return p.derive(ctx, updated), nil
}

// Remove deletes productID from the cart and returns the re-derived view.
func (p *CartPresenter) Remove(ctx context.Context, productID string) (CartView, error) {
	updated, err := p.store.Remove(ctx, productID)
	if err != nil {
		return CartView{}, dependencyErr(err, "persist cart removal")
	}
	return p.derive(ctx, updated), nil
}

func (p *CartPresenter) derive(ctx context.Context, c cart.Cart) CartView {
	view := CartView{
		Lines:      []CartLine{},
		Subtotal:   decimal.Zero,
		TotalItems: c.TotalItemCount(),
		Empty:      c.IsEmpty(),
	}

	products, err := p.catalog.List(ctx)
	if err != nil {
		if p.logg != nil {
			p.logg.Error(ctx, "catalog load failed for cart view", err)
		}
		view.CatalogFailed = true
		return view
	}

	summary := checkout.BuildSummary(c, catalog.BuildIndex(products))
	for _, line := range summary.Lines {
		view.Lines = append(view.Lines, CartLine{
			Product:   line.Product,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		})
	}
	view.Subtotal = summary.Charges.Subtotal
	view.CheckoutEnabled = !view.Empty
	return view
}
