package controllers

import (
	"net/http"

	"github.com/shoplivedeals/livedeals-backend/api/responses"
	"github.com/shoplivedeals/livedeals-backend/api/validators"
	checkoutsvc "github.com/shoplivedeals/livedeals-backend/internal/checkout"
	"github.com/shoplivedeals/livedeals-backend/internal/payments"
	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	"github.com/shoplivedeals/livedeals-backend/pkg/logger"
)

type checkoutCustomerRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"omitempty,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"omitempty,max=500"`
	Zip     string `json:"zip" validate:"omitempty,max=12"`
}

type checkoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type checkoutRequest struct {
	Customer checkoutCustomerRequest `json:"customer"`
	Items    []checkoutItemRequest   `json:"items" validate:"required,min=1,dive"`
}

type checkoutOrderResponse struct {
	ID           string `json:"id"`
	VendorID     string `json:"vendor_id"`
	Status       string `json:"status"`
	TotalAmount  string `json:"total_amount"`
	TaxAmount    string `json:"tax_amount"`
	VendorPayout string `json:"vendor_payout"`
}

type checkoutResponse struct {
	SessionID string                   `json:"session_id"`
	Orders    []checkoutOrderResponse  `json:"orders"`
	Gateway   *payments.SessionRequest `json:"payment_session"`
}

// Checkout accepts a cart, reserves stock, creates per-vendor pending orders
// and returns the gateway session payload.
func Checkout(service checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkoutsvc.Input{
			Customer: checkoutsvc.CustomerDetails{
				ID:      validators.SanitizeString(req.Customer.ID, 64),
				Name:    validators.SanitizeString(req.Customer.Name, 200),
				Email:   validators.SanitizeString(req.Customer.Email, 254),
				Phone:   validators.SanitizeString(req.Customer.Phone, 20),
				Address: validators.SanitizeString(req.Customer.Address, 500),
				Zip:     validators.SanitizeString(req.Customer.Zip, 12),
			},
		}
		for _, item := range req.Items {
			input.Lines = append(input.Lines, checkoutsvc.Line{
				ProductID: item.ProductID,
				Qty:       item.Quantity,
			})
		}

		result, err := service.Execute(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			SessionID: result.SessionID,
			Orders:    toCheckoutOrders(result.Orders),
			Gateway:   result.Gateway,
		})
	}
}

func toCheckoutOrders(orders []models.Order) []checkoutOrderResponse {
	out := make([]checkoutOrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, checkoutOrderResponse{
			ID:           order.ID,
			VendorID:     order.VendorID,
			Status:       string(order.Status),
			TotalAmount:  order.TotalAmount.StringFixed(2),
			TaxAmount:    order.TaxAmount.StringFixed(2),
			VendorPayout: order.VendorPayout.StringFixed(2),
		})
	}
	return out
}
