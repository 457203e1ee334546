package routes

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/shadeworks/storefront/api/controllers"
	"github.com/shadeworks/storefront/api/middleware"
	"github.com/shadeworks/storefront/internal/orders"
	"github.com/shadeworks/storefront/internal/payments"
	"github.com/shadeworks/storefront/internal/products"
	"github.com/shadeworks/storefront/pkg/config"
	"github.com/shadeworks/storefront/pkg/logger"
	"github.com/shadeworks/storefront/pkg/metrics"
	pkgredis "github.com/shadeworks/storefront/pkg/redis"
)

// staticDir holds the storefront pages the gateway callback redirects to.
const staticDir = "web"

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *pkgredis.Client,
	productsService products.Service,
	ordersService orders.Service,
	paymentsService payments.Service,
	requestMetrics *metrics.RequestMetrics,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(requestMetrics),
		middleware.CORS(),
	)

	var idempotencyStore pkgredis.IdempotencyStore
	var redisPinger controllers.Pinger
	if redisClient != nil {
		idempotencyStore = redisClient
		redisPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, redisPinger))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/products", controllers.ListProducts(productsService, logg))
		r.Post("/order", controllers.CreateOrder(ordersService, logg))
		r.Post("/initiate-payment", controllers.InitiatePayment(paymentsService, logg))

		r.Route("/admin/v1", func(r chi.Router) {
			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(productsService, logg))
				r.Post("/", controllers.AdminCreateProduct(productsService, logg))
				r.Put("/{productId}", controllers.AdminUpdateProduct(productsService, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(productsService, logg))
			})
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(ordersService, logg))
				r.Get("/{orderId}", controllers.AdminOrderDetail(ordersService, logg))
				r.Post("/{transactionUuid}/status", controllers.AdminUpdateOrderStatus(ordersService, logg))
			})
		})
	})

	r.Get("/esewa-callback", controllers.EsewaCallback(paymentsService, logg))

	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}

	return r
}
