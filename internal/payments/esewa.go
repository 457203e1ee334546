// Package payments integrates the eSewa ePay v2 form flow: signing the
// hosted-form fields for payment initiation and verifying the signed
// callback payload the gateway sends the browser back with.
package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/shadeworks/storefront/pkg/config"
)

// Signer produces the base64 HMAC-SHA256 signatures eSewa expects.
type Signer struct {
	productCode string
	secretKey   []byte
}

// NewSigner builds a signer from the gateway configuration.
func NewSigner(cfg config.GatewayConfig) (*Signer, error) {
	if cfg.ProductCode == "" {
		return nil, fmt.Errorf("gateway product code required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("gateway secret key required")
	}
	return &Signer{
		productCode: cfg.ProductCode,
		secretKey:   []byte(cfg.SecretKey),
	}, nil
}

// ProductCode returns the merchant code the signer signs for.
func (s *Signer) ProductCode() string {
	return s.productCode
}

// SignInitiation signs the form fields for payment initiation. The signed
// string covers total_amount, transaction_uuid and product_code, in exactly
// that order.
func (s *Signer) SignInitiation(totalAmount, transactionUUID string) string {
	data := fmt.Sprintf(
		"total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, transactionUUID, s.productCode,
	)
	return s.sign(data)
}

// CallbackPayload is the base64 JSON document eSewa appends to the success
// redirect. Amounts arrive as strings formatted by the gateway.
type CallbackPayload struct {
	TransactionCode  string `json:"transaction_code"`
	Status           string `json:"status"`
	TotalAmount      string `json:"total_amount"`
	TransactionUUID  string `json:"transaction_uuid"`
	ProductCode      string `json:"product_code"`
	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`
}

// SignCallback recomputes the callback signature over the fields eSewa
// signs on its side. The product code is taken from configuration, not from
// the payload.
func (s *Signer) SignCallback(p CallbackPayload) string {
	data := fmt.Sprintf(
		"transaction_code=%s,status=%s,total_amount=%s,transaction_uuid=%s,product_code=%s,signed_field_names=%s",
		p.TransactionCode, p.Status, p.TotalAmount, p.TransactionUUID, s.productCode, p.SignedFieldNames,
	)
	return s.sign(data)
}

func (s *Signer) sign(data string) string {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
