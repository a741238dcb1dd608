package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shoplivedeals/livedeals-backend/api/middleware"
	"github.com/shoplivedeals/livedeals-backend/api/responses"
	"github.com/shoplivedeals/livedeals-backend/api/validators"
	"github.com/shoplivedeals/livedeals-backend/internal/orders"
	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	"github.com/shoplivedeals/livedeals-backend/pkg/enums"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
	"github.com/shoplivedeals/livedeals-backend/pkg/logger"
)

type updateOrderRequest struct {
	Status         *string `json:"status" validate:"omitempty,max=32"`
	TrackingNumber *string `json:"tracking_number" validate:"omitempty,max=100"`
	CourierPartner *string `json:"courier_partner" validate:"omitempty,max=100"`
}

type orderItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	PriceAtSale string `json:"price_at_sale"`
	Quantity    int    `json:"quantity"`
	LineTotal   string `json:"line_total"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerPhone   string              `json:"customer_phone"`
	ShippingAddress string              `json:"shipping_address"`
	TotalAmount     string              `json:"total_amount"`
	TaxAmount       string              `json:"tax_amount"`
	PlatformFee     string              `json:"platform_fee"`
	VendorPayout    string              `json:"vendor_payout"`
	TrackingNumber  *string             `json:"tracking_number,omitempty"`
	CourierPartner  *string             `json:"courier_partner,omitempty"`
	Items           []orderItemResponse `json:"items"`
}

// VendorListOrders returns the caller's orders, items included, newest first.
func VendorListOrders(service orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID := middleware.VendorIDFromContext(r.Context())
		list, err := service.ListForVendor(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]orderResponse, 0, len(list))
		for i := range list {
			out = append(out, toOrderResponse(&list[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// VendorUpdateOrder applies a partial fulfillment update to one of the
// caller's orders.
func VendorUpdateOrder(service orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "orderId")

		var req updateOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.UpdateInput{
			OrderID:        orderID,
			VendorID:       middleware.VendorIDFromContext(r.Context()),
			TrackingNumber: req.TrackingNumber,
			CourierPartner: req.CourierPartner,
		}
		if req.Status != nil {
			status, err := enums.ParseOrderStatus(*req.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
				return
			}
			input.Status = &status
		}

		updated, err := service.Update(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(updated))
	}
}

func toOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			PriceAtSale: item.PriceAtSale.StringFixed(2),
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal.StringFixed(2),
		})
	}
	return orderResponse{
		ID:              order.ID,
		Status:          string(order.Status),
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		TotalAmount:     order.TotalAmount.StringFixed(2),
		TaxAmount:       order.TaxAmount.StringFixed(2),
		PlatformFee:     order.PlatformFee.StringFixed(2),
		VendorPayout:    order.VendorPayout.StringFixed(2),
		TrackingNumber:  order.TrackingNumber,
		CourierPartner:  order.CourierPartner,
		Items:           items,
	}
}
