package controllers

import (
	"net/http"

	"github.com/shadeworks/storefront/api/responses"
	"github.com/shadeworks/storefront/api/validators"
	"github.com/shadeworks/storefront/internal/payments"
	"github.com/shadeworks/storefront/pkg/logger"
)

type initiatePaymentRequest struct {
	OrderID int64 `json:"orderId" validate:"required,gt=0"`
}

// InitiatePayment answers the storefront with the gateway handoff
// instruction, {"gatewayUrl": u, "formData": {...}}.
func InitiatePayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req initiatePaymentRequest
		if err := validators.DecodeLenientJSONBody(r, &req); err != nil {
			responses.WriteContractError(r.Context(), logg, w, err)
			return
		}
		initiation, err := svc.Initiate(r.Context(), req.OrderID)
		if err != nil {
			responses.WriteContractError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, initiation)
	}
}

// EsewaCallback terminates the gateway redirect. The browser lands here with
// either status=fail or a signed base64 payload; the user always ends up on
// a result page, never an error response.
func EsewaCallback(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") == "fail" {
			http.Redirect(w, r, "/failure.html", http.StatusSeeOther)
			return
		}

		if _, err := svc.VerifyCallback(r.Context(), r.URL.Query().Get("data")); err != nil {
			if logg != nil {
				logg.Warn(r.Context(), "gateway callback rejected")
			}
			http.Redirect(w, r, "/failure.html", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/success.html", http.StatusSeeOther)
	}
}
