package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shoplivedeals/livedeals-backend/api/controllers"
	webhookcontrollers "github.com/shoplivedeals/livedeals-backend/api/controllers/webhooks"
	"github.com/shoplivedeals/livedeals-backend/api/middleware"
	checkoutsvc "github.com/shoplivedeals/livedeals-backend/internal/checkout"
	"github.com/shoplivedeals/livedeals-backend/internal/orders"
	product "github.com/shoplivedeals/livedeals-backend/internal/products"
	"github.com/shoplivedeals/livedeals-backend/internal/vendors"
	paymentwebhook "github.com/shoplivedeals/livedeals-backend/internal/webhooks/payment"
	"github.com/shoplivedeals/livedeals-backend/pkg/config"
	"github.com/shoplivedeals/livedeals-backend/pkg/db"
	"github.com/shoplivedeals/livedeals-backend/pkg/enums"
	"github.com/shoplivedeals/livedeals-backend/pkg/logger"
	"github.com/shoplivedeals/livedeals-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	CheckoutSvc   checkoutsvc.Service
	ProductSvc    product.Service
	OrdersSvc     orders.Service
	VendorsRepo   vendors.Repository
	WebhookSvc    *paymentwebhook.Service
	WebhookVerify *paymentwebhook.Verifier
	WebhookGuard  *paymentwebhook.IdempotencyGuard
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	checkoutPolicy := middleware.NewRateLimitPolicy(
		"checkout",
		cfg.RateLimit.CheckoutWindow,
		cfg.RateLimit.CheckoutIPLimit,
		cfg.RateLimit.CheckoutEmailLimit,
	)

	var redisPinger redis.Pinger
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// public storefront surface
		r.Get("/products", controllers.PublicListProducts(deps.ProductSvc, logg))
		r.Get("/vendors/status", controllers.VendorApplicationStatus(deps.VendorsRepo, logg))
		r.Group(func(r chi.Router) {
			if deps.Redis != nil {
				r.Use(
					middleware.RateLimit(checkoutPolicy, deps.Redis, logg),
					middleware.Idempotency(deps.Redis, logg),
				)
			}
			r.Post("/checkout", controllers.Checkout(deps.CheckoutSvc, logg))
		})

		r.Post("/webhooks/payment", webhookcontrollers.PaymentWebhook(deps.WebhookSvc, deps.WebhookVerify, deps.WebhookGuard, logg))

		// vendor surface
		r.Route("/vendor", func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, logg),
				middleware.RequireRole(enums.ActorRoleVendor.String(), logg),
				middleware.VendorContext(deps.VendorsRepo, logg),
			)
			if deps.Redis != nil {
				r.Use(middleware.Idempotency(deps.Redis, logg))
			}
			r.Get("/products", controllers.VendorListProducts(deps.ProductSvc, logg))
			r.Post("/products", controllers.VendorCreateProduct(deps.ProductSvc, logg))
			r.Patch("/products/{productId}", controllers.VendorUpdateProduct(deps.ProductSvc, logg))
			r.Delete("/products/{productId}", controllers.VendorDeleteProduct(deps.ProductSvc, logg))
			r.Get("/orders", controllers.VendorListOrders(deps.OrdersSvc, logg))
			r.Put("/orders/{orderId}", controllers.VendorUpdateOrder(deps.OrdersSvc, logg))
		})
	})

	return r
}
