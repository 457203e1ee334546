package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shadeworks/storefront/api/responses"
	"github.com/shadeworks/storefront/api/validators"
	"github.com/shadeworks/storefront/internal/orders"
	pkgerrors "github.com/shadeworks/storefront/pkg/errors"
	"github.com/shadeworks/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

type orderLineRequest struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  int   `json:"quantity"`
}

type createOrderRequest struct {
	CustomerName    string             `json:"customerName"`
	CustomerEmail   string             `json:"customerEmail"`
	CustomerPhone   string             `json:"customerPhone"`
	CustomerAddress string             `json:"customerAddress"`
	Cart            []orderLineRequest `json:"cart" validate:"required,min=1,dive"`
	TaxAmount       float64            `json:"tax_amount"`
	ServiceCharge   float64            `json:"service_charge"`
	DeliveryCharge  float64            `json:"delivery_charge"`
}

func (req createOrderRequest) input() orders.CreateOrderInput {
	lines := make([]orders.CartLine, 0, len(req.Cart))
	for _, line := range req.Cart {
		quantity := line.Quantity
		if quantity == 0 {
			quantity = 1
		}
		lines = append(lines, orders.CartLine{ProductID: line.ProductID, Quantity: quantity})
	}
	return orders.CreateOrderInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Cart:            lines,
		TaxAmount:       decimal.NewFromFloat(req.TaxAmount),
		ServiceCharge:   decimal.NewFromFloat(req.ServiceCharge),
		DeliveryCharge:  decimal.NewFromFloat(req.DeliveryCharge),
	}
}

// CreateOrder handles the storefront order submission and answers with the
// flat contract shape, {"orderId": n} on success and {"error": m} otherwise.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeLenientJSONBody(r, &req); err != nil {
			responses.WriteContractError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateOrder(r.Context(), req.input())
		if err != nil {
			responses.WriteContractError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, map[string]int64{"orderId": dto.ID})
	}
}

// AdminListOrders serves all orders, newest first, for the admin dashboard.
func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dtos, err := svc.ListOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

// AdminOrderDetail serves a single order with its line items.
func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "orderId")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
			return
		}
		dto, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

type orderStatusRequest struct {
	Status orders.Status `json:"status" validate:"required,oneof=INITIATED COMPLETED FAILED"`
}

// AdminUpdateOrderStatus forces an order status, keyed by transaction uuid.
// Used to reconcile orders the gateway callback never reached.
func AdminUpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionUUID := chi.URLParam(r, "transactionUuid")
		if transactionUUID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "transaction uuid required"))
			return
		}
		var req orderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.MarkStatus(r.Context(), transactionUUID, req.Status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(req.Status)})
	}
}
