package checkout

import "github.com/shopspring/decimal"

// TaxRate is the fixed 13% VAT applied at checkout. The service and delivery
// charges are reserved for future policy and always emitted as explicit zeros.
var TaxRate = decimal.RequireFromString("0.13")

// ChargeBreakdown carries the order totals at full precision. Values are
// rounded to 2 decimals only where they cross a display or wire boundary.
type ChargeBreakdown struct {
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	ServiceCharge  decimal.Decimal
	DeliveryCharge decimal.Decimal
	Total          decimal.Decimal
}

// ComputeCharges derives the breakdown from a pre-tax subtotal.
func ComputeCharges(subtotal decimal.Decimal) ChargeBreakdown {
	tax := subtotal.Mul(TaxRate)
	service := decimal.Zero
	delivery := decimal.Zero
	return ChargeBreakdown{
		Subtotal:       subtotal,
		Tax:            tax,
		ServiceCharge:  service,
		DeliveryCharge: delivery,
		Total:          subtotal.Add(tax).Add(service).Add(delivery),
	}
}

// round2 truncates a monetary value to the 2-decimal wire representation.
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
