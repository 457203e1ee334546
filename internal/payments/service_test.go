package payments

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/shadeworks/storefront/internal/orders"
	"github.com/shadeworks/storefront/pkg/config"
	pkgerrors "github.com/shadeworks/storefront/pkg/errors"
)

func testGatewayConfig() config.GatewayConfig {
	return config.GatewayConfig{
		ProductCode: "EPAYTEST",
		SecretKey:   "8gBm/:&EnhH.1/q",
		FormURL:     "https://rc-epay.esewa.com.np/api/epay/main/v2/form",
	}
}

type stubOrderStore struct {
	order    *orders.OrderDTO
	getErr   error
	statuses map[string]orders.Status
}

func (s *stubOrderStore) GetOrder(context.Context, int64) (*orders.OrderDTO, error) {
	return s.order, s.getErr
}

func (s *stubOrderStore) MarkStatus(_ context.Context, transactionUUID string, status orders.Status) error {
	if s.statuses == nil {
		s.statuses = map[string]orders.Status{}
	}
	s.statuses[transactionUUID] = status
	return nil
}

func testOrder() *orders.OrderDTO {
	return &orders.OrderDTO{
		ID:              7,
		TransactionUUID: "11111111-2222-3333-4444-555555555555",
		Amount:          250.00,
		TaxAmount:       32.50,
		ServiceCharge:   0,
		DeliveryCharge:  0,
		TotalAmount:     282.50,
		Status:          orders.StatusInitiated,
	}
}

func testSigner(t *testing.T) *Signer {
	t.Helper()
	signer, err := NewSigner(testGatewayConfig())
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	return signer
}

func testPaymentService(t *testing.T, store *stubOrderStore) Service {
	t.Helper()
	svc, err := NewService(store, testSigner(t), testGatewayConfig(), "http://localhost:8000", nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSignInitiationKnownVector(t *testing.T) {
	t.Parallel()

	// HMAC-SHA256 over "total_amount=100,transaction_uuid=11-201-13,
	// product_code=EPAYTEST" with the sandbox key.
	signer := testSigner(t)
	got := signer.SignInitiation("100", "11-201-13")
	if got != "5DZywcrTKD0gia/rsSMcrRHmJl+4Tbol6S+lWgdJ94E=" {
		t.Fatalf("unexpected signature: %s", got)
	}
}

func TestInitiateBuildsSignedForm(t *testing.T) {
	t.Parallel()

	store := &stubOrderStore{order: testOrder()}
	svc := testPaymentService(t, store)

	initiation, err := svc.Initiate(context.Background(), 7)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if initiation.GatewayURL != testGatewayConfig().FormURL {
		t.Fatalf("unexpected gateway url: %s", initiation.GatewayURL)
	}

	form := initiation.FormData
	expectations := map[string]string{
		"amount":                  "250.00",
		"tax_amount":              "32.50",
		"total_amount":            "282.50",
		"transaction_uuid":        "11111111-2222-3333-4444-555555555555",
		"product_code":            "EPAYTEST",
		"product_service_charge":  "0.00",
		"product_delivery_charge": "0.00",
		"success_url":             "http://localhost:8000/esewa-callback",
		"failure_url":             "http://localhost:8000/esewa-callback?status=fail",
		"signed_field_names":      "total_amount,transaction_uuid,product_code",
	}
	for key, want := range expectations {
		if form[key] != want {
			t.Fatalf("field %s: want %q, got %q", key, want, form[key])
		}
	}
	if form["signature"] != testSigner(t).SignInitiation("282.50", "11111111-2222-3333-4444-555555555555") {
		t.Fatalf("unexpected signature: %s", form["signature"])
	}
}

func TestInitiateUnknownOrder(t *testing.T) {
	t.Parallel()

	store := &stubOrderStore{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	svc := testPaymentService(t, store)

	_, err := svc.Initiate(context.Background(), 99)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func encodeCallback(t *testing.T, payload CallbackPayload) string {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func signedCallback(t *testing.T, status string) CallbackPayload {
	t.Helper()
	payload := CallbackPayload{
		TransactionCode:  "000AWEO",
		Status:           status,
		TotalAmount:      "282.50",
		TransactionUUID:  "11111111-2222-3333-4444-555555555555",
		ProductCode:      "EPAYTEST",
		SignedFieldNames: "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names",
	}
	payload.Signature = testSigner(t).SignCallback(payload)
	return payload
}

func TestVerifyCallbackMarksOrderCompleted(t *testing.T) {
	t.Parallel()

	store := &stubOrderStore{}
	svc := testPaymentService(t, store)

	payload, err := svc.VerifyCallback(context.Background(), encodeCallback(t, signedCallback(t, "COMPLETE")))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if payload.TransactionUUID != "11111111-2222-3333-4444-555555555555" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if store.statuses[payload.TransactionUUID] != orders.StatusCompleted {
		t.Fatal("expected order marked COMPLETED")
	}
}

func TestVerifyCallbackRejectsTamperedPayload(t *testing.T) {
	t.Parallel()

	store := &stubOrderStore{}
	svc := testPaymentService(t, store)

	payload := signedCallback(t, "COMPLETE")
	payload.TotalAmount = "1.00"

	_, err := svc.VerifyCallback(context.Background(), encodeCallback(t, payload))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.statuses) != 0 {
		t.Fatal("tampered callback must not touch order status")
	}
}

func TestVerifyCallbackRejectsNonCompleteStatus(t *testing.T) {
	t.Parallel()

	store := &stubOrderStore{}
	svc := testPaymentService(t, store)

	_, err := svc.VerifyCallback(context.Background(), encodeCallback(t, signedCallback(t, "PENDING")))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.statuses) != 0 {
		t.Fatal("non-complete callback must not touch order status")
	}
}

func TestVerifyCallbackRejectsGarbage(t *testing.T) {
	t.Parallel()

	svc := testPaymentService(t, &stubOrderStore{})

	for _, data := range []string{"", "not-base64!!", base64.StdEncoding.EncodeToString([]byte("not json"))} {
		if _, err := svc.VerifyCallback(context.Background(), data); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}
