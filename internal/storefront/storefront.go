// Package storefront derives the customer-facing views: the shop page with
// its cart badge and the cart page with its line items and subtotal. Views
// are recomputed in full after every mutation; nothing is patched in place.
package storefront

import (
	"context"
	"errors"

	"github.com/shadeworks/storefront/internal/cart"
	"github.com/shadeworks/storefront/internal/catalog"
	pkgerrors "github.com/shadeworks/storefront/pkg/errors"
	"github.com/shadeworks/storefront/pkg/logger"
)

// CartStore is the slice of the cart store the presenters need.
type CartStore interface {
	Load(ctx context.Context) cart.Cart
	Add(ctx context.Context, productID string) (cart.Cart, error)
	SetQuantity(ctx context.Context, productID string, quantity int) (cart.Cart, error)
	Remove(ctx context.Context, productID string) (cart.Cart, error)
}

// Deps carries the shared presenter dependencies. Logger is optional.
type Deps struct {
	Store   CartStore
	Catalog catalog.Source
	Logger  *logger.Logger
}

func (d Deps) validate() error {
	if d.Store == nil {
		return errors.New("cart store required")
	}
	if d.Catalog == nil {
		return errors.New("catalog source required")
	}
	return nil
}

func dependencyErr(err error, msg string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
