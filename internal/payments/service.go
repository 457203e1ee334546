package payments

import (
	"context"
	"crypto/hmac"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shadeworks/storefront/internal/orders"
	"github.com/shadeworks/storefront/pkg/config"
	pkgerrors "github.com/shadeworks/storefront/pkg/errors"
	"github.com/shadeworks/storefront/pkg/logger"
)

// Service exposes payment initiation and callback verification.
type Service interface {
	Initiate(ctx context.Context, orderID int64) (*Initiation, error)
	VerifyCallback(ctx context.Context, encodedData string) (*CallbackPayload, error)
}

// Initiation is the gateway handoff instruction returned to the storefront.
type Initiation struct {
	GatewayURL string            `json:"gatewayUrl"`
	FormData   map[string]string `json:"formData"`
}

type orderStore interface {
	GetOrder(ctx context.Context, id int64) (*orders.OrderDTO, error)
	MarkStatus(ctx context.Context, transactionUUID string, status orders.Status) error
}

type service struct {
	orders  orderStore
	signer  *Signer
	formURL string
	baseURL string
	logg    *logger.Logger
}

// NewService constructs a payment service instance. Logger is optional.
func NewService(store orderStore, signer *Signer, cfg config.GatewayConfig, baseURL string, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("order store required")
	}
	if signer == nil {
		return nil, fmt.Errorf("signer required")
	}
	if cfg.FormURL == "" {
		return nil, fmt.Errorf("gateway form url required")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("public base url required")
	}
	return &service{
		orders:  store,
		signer:  signer,
		formURL: cfg.FormURL,
		baseURL: strings.TrimRight(baseURL, "/"),
		logg:    logg,
	}, nil
}

// Initiate builds the signed hosted-form fields for the order. The callback
// URLs point back at this service; the failure URL carries status=fail so
// the callback can short-circuit without a payload.
func (s *service) Initiate(ctx context.Context, orderID int64) (*Initiation, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	totalAmount := formatAmount(order.TotalAmount)
	signature := s.signer.SignInitiation(totalAmount, order.TransactionUUID)

	return &Initiation{
		GatewayURL: s.formURL,
		FormData: map[string]string{
			"amount":                  formatAmount(order.Amount),
			"tax_amount":              formatAmount(order.TaxAmount),
			"total_amount":            totalAmount,
			"transaction_uuid":        order.TransactionUUID,
			"product_code":            s.signer.ProductCode(),
			"product_service_charge":  formatAmount(order.ServiceCharge),
			"product_delivery_charge": formatAmount(order.DeliveryCharge),
			"success_url":             s.baseURL + "/esewa-callback",
			"failure_url":             s.baseURL + "/esewa-callback?status=fail",
			"signed_field_names":      "total_amount,transaction_uuid,product_code",
			"signature":               signature,
		},
	}, nil
}

// VerifyCallback decodes the base64 payload from the gateway redirect,
// checks its signature and, for a COMPLETE status, marks the order as
// COMPLETED. Any decode, signature or status problem is a validation error;
// the order stays INITIATED.
func (s *service) VerifyCallback(ctx context.Context, encodedData string) (*CallbackPayload, error) {
	if encodedData == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing callback data")
	}

	decoded, err := base64.StdEncoding.DecodeString(encodedData)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode callback data")
	}

	var payload CallbackPayload
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse callback payload")
	}

	expected := s.signer.SignCallback(payload)
	if !hmac.Equal([]byte(expected), []byte(payload.Signature)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "callback signature mismatch")
	}
	if payload.Status != "COMPLETE" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unexpected callback status %q", payload.Status))
	}

	if err := s.orders.MarkStatus(ctx, payload.TransactionUUID, orders.StatusCompleted); err != nil {
		return nil, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "transaction_uuid", payload.TransactionUUID), "payment completed")
	}
	return &payload, nil
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
