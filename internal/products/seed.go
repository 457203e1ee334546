package products

import (
	"context"

	pkgerrors "github.com/shadeworks/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

func defaultProducts() []Product {
	return []Product{
		{
			Name:        "Classic Aviator Sunglasses",
			Description: "Timeless aviator frames with UV400 protection and mirrored lenses.",
			Price:       decimal.RequireFromString("59.99"),
			ImageURL:    "/static/images/aviator.png",
		},
		{
			Name:        "Retro Round Sunglasses",
			Description: "Vintage-inspired round sunglasses with polarized lenses.",
			Price:       decimal.RequireFromString("45.50"),
			ImageURL:    "/static/images/retro.png",
		},
		{
			Name:        "Sporty Wraparound Shades",
			Description: "Durable wraparound sunglasses designed for outdoor sports.",
			Price:       decimal.RequireFromString("39.00"),
			ImageURL:    "/static/images/sporty.png",
		},
		{
			Name:        "Lucky Purchase",
			Description: "Try your luck! Mystery sunglasses at an amazing price.",
			Price:       decimal.RequireFromString("1.00"),
			ImageURL:    "/static/images/lucky.png",
		},
	}
}

// SeedDefaults inserts the starter catalog when the products table is empty.
// A populated table is left untouched, so reseeding is safe on every boot.
func (s *service) SeedDefaults(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}
	if count > 0 {
		return nil
	}
	for _, row := range defaultProducts() {
		row := row
		if _, err := s.repo.Create(ctx, &row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seed products")
		}
	}
	return nil
}
