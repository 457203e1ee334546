package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/shadeworks/storefront/pkg/errors"
)

func TestCreateOrderDecodesOrderID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/order" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.CustomerName != "Asha" || len(req.Cart) != 1 {
			t.Errorf("unexpected payload: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"orderId":42}`))
	}))
	defer srv.Close()

	client, err := NewOrderServiceClient(srv.URL, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	orderID, err := client.CreateOrder(context.Background(), OrderRequest{
		CustomerName: "Asha",
		Cart:         []OrderLine{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if orderID != 42 {
		t.Fatalf("expected order 42, got %d", orderID)
	}
}

func TestCreateOrderErrorFieldIsFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"unknown product in cart"}`))
	}))
	defer srv.Close()

	client, err := NewOrderServiceClient(srv.URL, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.CreateOrder(context.Background(), OrderRequest{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if typed.Message() != "unknown product in cart" {
		t.Fatalf("expected the service message to survive, got %q", typed.Message())
	}
}

func TestCreateOrderTransportFailure(t *testing.T) {
	t.Parallel()

	client, err := NewOrderServiceClient("http://127.0.0.1:1", 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.CreateOrder(context.Background(), OrderRequest{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestInitiatePaymentDecodesInstruction(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/initiate-payment" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req initiateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID != 42 {
			t.Errorf("unexpected request: %+v %v", req, err)
		}
		w.Write([]byte(`{"gatewayUrl":"https://gateway.example/form","formData":{"amount":"250.00","signature":"sig"}}`))
	}))
	defer srv.Close()

	client, err := NewPaymentServiceClient(srv.URL, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	instruction, err := client.InitiatePayment(context.Background(), 42)
	if err != nil {
		t.Fatalf("initiate payment: %v", err)
	}
	if instruction.GatewayURL != "https://gateway.example/form" {
		t.Fatalf("unexpected gateway url: %s", instruction.GatewayURL)
	}
	if instruction.FormData["signature"] != "sig" {
		t.Fatalf("unexpected form data: %v", instruction.FormData)
	}
}

func TestInitiatePaymentErrorField(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"order not found"}`))
	}))
	defer srv.Close()

	client, err := NewPaymentServiceClient(srv.URL, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.InitiatePayment(context.Background(), 9)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "order not found" {
		t.Fatalf("expected service error message, got %v", err)
	}
}

func TestPostJSONUndedecodableErrorBodyFallsBackToStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	client, err := NewPaymentServiceClient(srv.URL, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.InitiatePayment(context.Background(), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
