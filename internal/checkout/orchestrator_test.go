package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shadeworks/storefront/internal/cart"
	"github.com/shadeworks/storefront/internal/catalog"
	pkgerrors "github.com/shadeworks/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubCartStore struct {
	cart    cart.Cart
	cleared int
}

func (s *stubCartStore) Load(context.Context) cart.Cart {
	return s.cart.Clone()
}

func (s *stubCartStore) Clear(context.Context) error {
	s.cleared++
	s.cart = cart.Cart{}
	return nil
}

type stubCatalog struct {
	products []catalog.Product
	err      error
}

func (s *stubCatalog) List(context.Context) ([]catalog.Product, error) {
	return s.products, s.err
}

type stubOrders struct {
	orderID  int64
	err      error
	requests []OrderRequest
}

func (s *stubOrders) CreateOrder(_ context.Context, req OrderRequest) (int64, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return 0, s.err
	}
	return s.orderID, nil
}

type stubPayments struct {
	instruction *GatewayInstruction
	err         error
	calls       int
}

func (s *stubPayments) InitiatePayment(context.Context, int64) (*GatewayInstruction, error) {
	s.calls++
	return s.instruction, s.err
}

type captureRedirect struct {
	form  *GatewayForm
	err   error
	calls int
}

func (c *captureRedirect) Redirect(_ context.Context, form *GatewayForm) error {
	c.calls++
	c.form = form
	return c.err
}

func testCatalog() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Aviator", Price: decimal.RequireFromString("100.00")},
		{ID: 2, Name: "Retro", Price: decimal.RequireFromString("50.00")},
	}
}

func testOrchestrator(t *testing.T, store *stubCartStore, cat *stubCatalog, orders *stubOrders, payments *stubPayments, redirect *captureRedirect) *Orchestrator {
	t.Helper()
	orch, err := NewOrchestrator(Params{
		Store:    store,
		Catalog:  cat,
		Orders:   orders,
		Payments: payments,
		Redirect: redirect,
	})
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return orch
}

func testInstruction() *GatewayInstruction {
	return &GatewayInstruction{
		GatewayURL: "https://gateway.example/form",
		FormData:   map[string]string{"amount": "250.00", "signature": "abc"},
	}
}

func TestBuildSummaryEmptyCartIsTerminal(t *testing.T) {
	t.Parallel()

	store := &stubCartStore{cart: cart.Cart{}}
	orch := testOrchestrator(t, store, &stubCatalog{products: testCatalog()}, &stubOrders{}, &stubPayments{}, &captureRedirect{})

	if _, err := orch.BuildSummary(context.Background()); err == nil {
		t.Fatal("expected error for empty cart")
	}
	if orch.Phase() != PhaseEmpty {
		t.Fatalf("expected EMPTY, got %s", orch.Phase())
	}
	if !orch.Phase().IsTerminal() {
		t.Fatal("EMPTY must be terminal")
	}
	if orch.SubmitEnabled() {
		t.Fatal("submission must stay disabled")
	}
}

func TestBuildSummaryCatalogFailureIsTerminal(t *testing.T) {
	t.Parallel()

	store := &stubCartStore{cart: cart.Cart{"1": 1}}
	orch := testOrchestrator(t, store, &stubCatalog{err: errors.New("boom")}, &stubOrders{}, &stubPayments{}, &captureRedirect{})

	if _, err := orch.BuildSummary(context.Background()); err == nil {
		t.Fatal("expected error for catalog failure")
	}
	if orch.Phase() != PhaseLoadFailed {
		t.Fatalf("expected LOAD_FAILED, got %s", orch.Phase())
	}
	if store.cleared != 0 {
		t.Fatal("cart must remain untouched")
	}
}

func TestBuildSummaryReachesReady(t *testing.T) {
	t.Parallel()

	store := &stubCartStore{cart: cart.Cart{"1": 2, "2": 1}}
	orch := testOrchestrator(t, store, &stubCatalog{products: testCatalog()}, &stubOrders{}, &stubPayments{}, &captureRedirect{})

	summary, err := orch.BuildSummary(context.Background())
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}
	if orch.Phase() != PhaseReady || !orch.SubmitEnabled() {
		t.Fatalf("expected READY, got %s", orch.Phase())
	}
	if !summary.Charges.Total.Equal(decimal.RequireFromString("282.50")) {
		t.Fatalf("unexpected total: %s", summary.Charges.Total)
	}

	if _, err := orch.BuildSummary(context.Background()); err == nil {
		t.Fatal("expected state conflict on second build")
	}
}

func TestSubmitBeforeReadyIsStateConflict(t *testing.T) {
	t.Parallel()

	store := &stubCartStore{cart: cart.Cart{"1": 1}}
	orch := testOrchestrator(t, store, &stubCatalog{products: testCatalog()}, &stubOrders{}, &stubPayments{}, &captureRedirect{})

	err := orch.Submit(context.Background(), CustomerInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSubmitHappyPathClearsCartBeforeRedirect(t *testing.T) {
	t.Parallel()

	store := &stubCartStore{cart: cart.Cart{"1": 2, "2": 1}}
	orders := &stubOrders{orderID: 7}
	payments := &stubPayments{instruction: testInstruction()}

	var clearedAtRedirect int
	redirect := &captureRedirect{}
	orch, err := NewOrchestrator(Params{
		Store:    store,
		Catalog:  &stubCatalog{products: testCatalog()},
		Orders:   orders,
		Payments: payments,
		Redirect: RedirectorFunc(func(ctx context.Context, form *GatewayForm) error {
			clearedAtRedirect = store.cleared
			return redirect.Redirect(ctx, form)
		}),
	})
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	if _, err := orch.BuildSummary(context.Background()); err != nil {
		t.Fatalf("build summary: %v", err)
	}
	if err := orch.Submit(context.Background(), CustomerInput{Name: "  Asha  ", Email: "asha@example.com"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if orch.Phase() != PhaseDone {
		t.Fatalf("expected DONE, got %s", orch.Phase())
	}
	if store.cleared != 1 {
		t.Fatalf("expected exactly one clear, got %d", store.cleared)
	}
	if clearedAtRedirect != 1 {
		t.Fatal("cart must be cleared before the redirect fires")
	}
	if redirect.calls != 1 || redirect.form == nil || redirect.form.Action != "https://gateway.example/form" {
		t.Fatalf("unexpected redirect: %+v", redirect.form)
	}

	if len(orders.requests) != 1 {
		t.Fatalf("expected one order request, got %d", len(orders.requests))
	}
	req := orders.requests[0]
	if req.CustomerName != "Asha" {
		t.Fatalf("expected trimmed customer name, got %q", req.CustomerName)
	}
	if req.TaxAmount != 32.50 {
		t.Fatalf("unexpected tax amount: %v", req.TaxAmount)
	}
	if len(req.Cart) != 2 || req.Cart[0].ProductID != 1 || req.Cart[0].Quantity != 2 {
		t.Fatalf("unexpected order lines: %v", req.Cart)
	}
}

func TestSubmitOrderFailureReentersReadyAndKeepsCart(t *testing.T) {
	t.Parallel()

	store := &stubCartStore{cart: cart.Cart{"1": 1}}
	orders := &stubOrders{err: errors.New("order service down")}
	payments := &stubPayments{instruction: testInstruction()}
	redirect := &captureRedirect{}
	orch := testOrchestrator(t, store, &stubCatalog{products: testCatalog()}, orders, payments, redirect)

	if _, err := orch.BuildSummary(context.Background()); err != nil {
		t.Fatalf("build summary: %v", err)
	}
	if err := orch.Submit(context.Background(), CustomerInput{Name: "Asha"}); err == nil {
		t.Fatal("expected submission failure")
	}

	if orch.Phase() != PhaseReady || !orch.SubmitEnabled() {
		t.Fatalf("expected re-entry to READY, got %s", orch.Phase())
	}
	if store.cleared != 0 {
		t.Fatal("cart must not be cleared on order failure")
	}
	if payments.calls != 0 {
		t.Fatal("payment must not be initiated after order failure")
	}
	if redirect.calls != 0 {
		t.Fatal("redirect must not fire after order failure")
	}

	// The same frozen summary backs the retry.
	orders.err = nil
	orders.orderID = 9
	if err := orch.Submit(context.Background(), CustomerInput{Name: "Asha"}); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if orch.Phase() != PhaseDone {
		t.Fatalf("expected DONE after retry, got %s", orch.Phase())
	}
}

func TestSubmitPaymentFailureKeepsCartAndOrderVisible(t *testing.T) {
	t.Parallel()

	store := &stubCartStore{cart: cart.Cart{"1": 1}}
	orders := &stubOrders{orderID: 5}
	payments := &stubPayments{err: errors.New("gateway unavailable")}
	redirect := &captureRedirect{}
	orch := testOrchestrator(t, store, &stubCatalog{products: testCatalog()}, orders, payments, redirect)

	if _, err := orch.BuildSummary(context.Background()); err != nil {
		t.Fatalf("build summary: %v", err)
	}
	if err := orch.Submit(context.Background(), CustomerInput{}); err == nil {
		t.Fatal("expected submission failure")
	}

	if orch.Phase() != PhaseReady {
		t.Fatalf("expected READY, got %s", orch.Phase())
	}
	if store.cleared != 0 {
		t.Fatal("cart must survive a payment initiation failure")
	}
	if redirect.calls != 0 {
		t.Fatal("redirect must not fire without a gateway instruction")
	}
	// A retry creates a second order; the first stays dangling server-side.
	if err := func() error { payments.err = nil; payments.instruction = testInstruction(); return orch.Submit(context.Background(), CustomerInput{}) }(); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if len(orders.requests) != 2 {
		t.Fatalf("expected a fresh order per attempt, got %d", len(orders.requests))
	}
}

func TestSubmitAfterDoneIsStateConflict(t *testing.T) {
	t.Parallel()

	store := &stubCartStore{cart: cart.Cart{"1": 1}}
	orch := testOrchestrator(t, store, &stubCatalog{products: testCatalog()}, &stubOrders{orderID: 1}, &stubPayments{instruction: testInstruction()}, &captureRedirect{})

	if _, err := orch.BuildSummary(context.Background()); err != nil {
		t.Fatalf("build summary: %v", err)
	}
	if err := orch.Submit(context.Background(), CustomerInput{}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	err := orch.Submit(context.Background(), CustomerInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict after DONE, got %v", err)
	}
}

func TestOrderRequestWireShape(t *testing.T) {
	t.Parallel()

	session := &Session{
		Customer: CustomerInput{Name: "Asha", Email: "a@example.com", Phone: "98", Address: "KTM"},
		Lines:    []OrderLine{{ProductID: 1, Quantity: 2}},
		Charges:  ComputeCharges(decimal.RequireFromString("250.00")),
	}

	encoded, err := json.Marshal(session.orderRequest())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"customerName", "customerEmail", "customerPhone", "customerAddress", "cart", "tax_amount", "service_charge", "delivery_charge"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing key %q in %s", key, encoded)
		}
	}
	if decoded["tax_amount"] != 32.5 {
		t.Fatalf("unexpected tax_amount: %v", decoded["tax_amount"])
	}
}
