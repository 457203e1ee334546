package checkout

import "strings"

// CustomerInput carries the freeform customer fields. Values are trimmed of
// surrounding whitespace when captured; no further validation happens here.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

func (in CustomerInput) trimmed() CustomerInput {
	return CustomerInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	}
}

// Session is the ephemeral snapshot captured at submission. It is discarded
// on failure; a retry captures fresh customer input against the same summary.
type Session struct {
	Customer CustomerInput
	Lines    []OrderLine
	Charges  ChargeBreakdown
}

func (s *Session) orderRequest() OrderRequest {
	return OrderRequest{
		CustomerName:    s.Customer.Name,
		CustomerEmail:   s.Customer.Email,
		CustomerPhone:   s.Customer.Phone,
		CustomerAddress: s.Customer.Address,
		Cart:            s.Lines,
		TaxAmount:       round2(s.Charges.Tax),
		ServiceCharge:   round2(s.Charges.ServiceCharge),
		DeliveryCharge:  round2(s.Charges.DeliveryCharge),
	}
}
