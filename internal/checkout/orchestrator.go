package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/shadeworks/storefront/internal/cart"
	"github.com/shadeworks/storefront/internal/catalog"
	pkgerrors "github.com/shadeworks/storefront/pkg/errors"
	"github.com/shadeworks/storefront/pkg/logger"
	"github.com/shadeworks/storefront/pkg/metrics"
)

// CartStore is the slice of the cart store the orchestrator needs.
type CartStore interface {
	Load(ctx context.Context) cart.Cart
	Clear(ctx context.Context) error
}

// Redirector performs the irreversible gateway handoff. In the server-side
// flow this writes the auto-submitting form to the response.
type Redirector interface {
	Redirect(ctx context.Context, form *GatewayForm) error
}

// RedirectorFunc adapts a function to the Redirector interface.
type RedirectorFunc func(ctx context.Context, form *GatewayForm) error

func (f RedirectorFunc) Redirect(ctx context.Context, form *GatewayForm) error {
	return f(ctx, form)
}

// Params carries the orchestrator dependencies. Logger and Metrics are
// optional; everything else is required.
type Params struct {
	Store    CartStore
	Catalog  catalog.Source
	Orders   OrderCreator
	Payments PaymentInitiator
	Redirect Redirector
	Logger   *logger.Logger
	Metrics  *metrics.CheckoutMetrics
}

// Orchestrator drives a single checkout session through its phases. It is
// not safe for concurrent use; each session owns one orchestrator.
type Orchestrator struct {
	store    CartStore
	catalog  catalog.Source
	orders   OrderCreator
	payments PaymentInitiator
	redirect Redirector
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics

	phase   Phase
	summary *Summary
	session *Session
}

func NewOrchestrator(p Params) (*Orchestrator, error) {
	if p.Store == nil {
		return nil, errors.New("cart store required")
	}
	if p.Catalog == nil {
		return nil, errors.New("catalog source required")
	}
	if p.Orders == nil {
		return nil, errors.New("order creator required")
	}
	if p.Payments == nil {
		return nil, errors.New("payment initiator required")
	}
	if p.Redirect == nil {
		return nil, errors.New("redirector required")
	}
	return &Orchestrator{
		store:    p.Store,
		catalog:  p.Catalog,
		orders:   p.Orders,
		payments: p.Payments,
		redirect: p.Redirect,
		logg:     p.Logger,
		metrics:  p.Metrics,
		phase:    PhaseBuildingSummary,
	}, nil
}

// Phase returns the current checkout phase.
func (o *Orchestrator) Phase() Phase {
	return o.phase
}

// Summary returns the frozen order summary, or nil before READY is reached.
func (o *Orchestrator) Summary() *Summary {
	return o.summary
}

// SubmitEnabled reports whether a submission may start right now.
func (o *Orchestrator) SubmitEnabled() bool {
	return o.phase == PhaseReady
}

// BuildSummary loads the cart, fetches the catalog and freezes the order
// summary. An empty cart ends the session in EMPTY; a catalog failure ends
// it in LOAD_FAILED. On success the session parks in READY.
func (o *Orchestrator) BuildSummary(ctx context.Context) (*Summary, error) {
	if o.phase != PhaseBuildingSummary {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "summary already built for this session")
	}

	loaded := o.store.Load(ctx)
	if loaded.IsEmpty() {
		o.setPhase(ctx, PhaseEmpty)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	products, err := o.catalog.List(ctx)
	if err != nil {
		o.setPhase(ctx, PhaseLoadFailed)
		if o.logg != nil {
			o.logg.Error(ctx, "catalog load failed", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog for checkout")
	}

	summary := BuildSummary(loaded, catalog.BuildIndex(products))
	o.summary = &summary
	o.setPhase(ctx, PhaseReady)
	return o.summary, nil
}

// Submit runs the submission pipeline against the frozen summary: create the
// order, initiate the payment, clear the cart, hand off to the gateway. A
// failure in either network step discards the session snapshot and re-enters
// READY so the customer can retry without rebuilding the summary.
func (o *Orchestrator) Submit(ctx context.Context, input CustomerInput) error {
	if o.phase != PhaseReady {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is not ready for submission")
	}

	start := time.Now()
	o.session = &Session{
		Customer: input.trimmed(),
		Lines:    o.summary.OrderLines(),
		Charges:  o.summary.Charges,
	}

	o.setPhase(ctx, PhaseSubmittingOrder)
	orderID, err := o.orders.CreateOrder(ctx, o.session.orderRequest())
	if err != nil {
		return o.failSubmission(ctx, start, "create order", err)
	}
	ctx = o.withOrderID(ctx, orderID)

	o.setPhase(ctx, PhaseInitiatingPayment)
	instruction, err := o.payments.InitiatePayment(ctx, orderID)
	if err != nil {
		return o.failSubmission(ctx, start, "initiate payment", err)
	}

	form, err := NewGatewayForm(instruction)
	if err != nil {
		return o.failSubmission(ctx, start, "build gateway form", err)
	}

	o.setPhase(ctx, PhaseRedirecting)

	// The payment is committed at this point, so the cart must not survive
	// the handoff. A failed clear is logged but never blocks the redirect;
	// a stale cart is recoverable, an unpaid committed order is not.
	if err := o.store.Clear(ctx); err != nil && o.logg != nil {
		o.logg.Warn(ctx, "cart clear failed after payment initiation")
	}

	redirectErr := o.redirect.Redirect(ctx, form)
	o.setPhase(ctx, PhaseDone)
	o.metrics.ObserveSubmit("success", time.Since(start))
	return redirectErr
}

func (o *Orchestrator) failSubmission(ctx context.Context, start time.Time, step string, err error) error {
	o.session = nil
	o.setPhase(ctx, PhaseReady)
	o.metrics.ObserveSubmit("failure", time.Since(start))
	if o.logg != nil {
		o.logg.Error(ctx, "checkout submission failed", err)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
}

func (o *Orchestrator) setPhase(ctx context.Context, p Phase) {
	o.phase = p
	o.metrics.ObservePhase(p.String())
	if o.logg != nil {
		o.logg.Info(o.logg.WithPhase(ctx, p.String()), "checkout phase entered")
	}
}

func (o *Orchestrator) withOrderID(ctx context.Context, orderID int64) context.Context {
	if o.logg == nil {
		return ctx
	}
	return o.logg.WithField(ctx, "order_id", orderID)
}
