package checkout

import (
	"sort"

	"github.com/shadeworks/storefront/internal/cart"
	"github.com/shadeworks/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// OrderLine is a frozen cart line as transmitted to order creation.
type OrderLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// SummaryLine is one resolved cart entry ready for rendering.
type SummaryLine struct {
	Product   catalog.Product
	Quantity  int
	LineTotal decimal.Decimal
}

// Summary is the order summary built once in BUILDING_SUMMARY and reused
// across submission retries (the cart is not re-read on retry).
type Summary struct {
	Lines   []SummaryLine
	Charges ChargeBreakdown
}

// BuildSummary joins the cart against the catalog index. Entries that do not
// resolve to a product are dropped from the lines and totals; the underlying
// cart entry is left in place.
func BuildSummary(c cart.Cart, idx catalog.Index) Summary {
	lines := make([]SummaryLine, 0, len(c))
	subtotal := decimal.Zero
	for key, qty := range c {
		product, ok := idx.Resolve(key)
		if !ok {
			continue
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
		lines = append(lines, SummaryLine{
			Product:   product,
			Quantity:  qty,
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Product.ID < lines[j].Product.ID
	})

	return Summary{
		Lines:   lines,
		Charges: ComputeCharges(subtotal),
	}
}

// OrderLines freezes the summary into the order-creation payload shape.
func (s Summary) OrderLines() []OrderLine {
	lines := make([]OrderLine, 0, len(s.Lines))
	for _, line := range s.Lines {
		lines = append(lines, OrderLine{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
		})
	}
	return lines
}
