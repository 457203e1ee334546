package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/shadeworks/storefront/pkg/errors"
)

// OrderRequest is the order-creation payload. Charge amounts cross the wire
// rounded to 2 decimals; the cart lines are the frozen summary lines.
type OrderRequest struct {
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	CustomerPhone   string      `json:"customerPhone"`
	CustomerAddress string      `json:"customerAddress"`
	Cart            []OrderLine `json:"cart"`
	TaxAmount       float64     `json:"tax_amount"`
	ServiceCharge   float64     `json:"service_charge"`
	DeliveryCharge  float64     `json:"delivery_charge"`
}

// GatewayInstruction is the payment-initiation response: where to POST and
// the exact fields to post, opaque to the caller.
type GatewayInstruction struct {
	GatewayURL string            `json:"gatewayUrl"`
	FormData   map[string]string `json:"formData"`
}

// OrderCreator submits an order and returns its identifier.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (int64, error)
}

// PaymentInitiator starts a payment for a created order.
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, orderID int64) (*GatewayInstruction, error)
}

// OrderServiceClient talks to the order-creation endpoint over HTTP.
type OrderServiceClient struct {
	baseURL string
	http    *http.Client
}

// NewOrderServiceClient builds an order client. A zero timeout leaves
// requests unbounded.
func NewOrderServiceClient(baseURL string, timeout time.Duration) (*OrderServiceClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("order service base url required")
	}
	return &OrderServiceClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type orderResponse struct {
	OrderID int64  `json:"orderId"`
	Error   string `json:"error"`
}

// CreateOrder POSTs the order payload. A response carrying an error field is
// a failure regardless of status code.
func (c *OrderServiceClient) CreateOrder(ctx context.Context, req OrderRequest) (int64, error) {
	var payload orderResponse
	if err := c.post(ctx, "/api/order", req, &payload); err != nil {
		return 0, err
	}
	if payload.Error != "" {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, payload.Error)
	}
	if payload.OrderID == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "order service returned no order id")
	}
	return payload.OrderID, nil
}

func (c *OrderServiceClient) post(ctx context.Context, path string, body any, out any) error {
	return postJSON(ctx, c.http, c.baseURL+path, body, out)
}

// PaymentServiceClient talks to the payment-initiation endpoint over HTTP.
type PaymentServiceClient struct {
	baseURL string
	http    *http.Client
}

func NewPaymentServiceClient(baseURL string, timeout time.Duration) (*PaymentServiceClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("payment service base url required")
	}
	return &PaymentServiceClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type initiateRequest struct {
	OrderID int64 `json:"orderId"`
}

type initiateResponse struct {
	GatewayURL string            `json:"gatewayUrl"`
	FormData   map[string]string `json:"formData"`
	Error      string            `json:"error"`
}

// InitiatePayment exchanges an order id for the gateway handoff instruction.
func (c *PaymentServiceClient) InitiatePayment(ctx context.Context, orderID int64) (*GatewayInstruction, error) {
	var payload initiateResponse
	if err := postJSON(ctx, c.http, c.baseURL+"/api/initiate-payment", initiateRequest{OrderID: orderID}, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, payload.Error)
	}
	if payload.GatewayURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment service returned no gateway url")
	}
	return &GatewayInstruction{
		GatewayURL: payload.GatewayURL,
		FormData:   payload.FormData,
	}, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call service")
	}
	defer resp.Body.Close()

	// Error bodies still decode into out so the service's message survives;
	// a body that does not decode falls back to the status code.
	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("service responded with status %d", resp.StatusCode))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, "decode response")
	}
	return nil
}
