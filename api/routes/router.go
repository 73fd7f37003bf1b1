package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openshophq/openshop-backend/api/controllers"
	"github.com/openshophq/openshop-backend/api/middleware"
	"github.com/openshophq/openshop-backend/internal/auth"
	"github.com/openshophq/openshop-backend/internal/businesses"
	cartsvc "github.com/openshophq/openshop-backend/internal/cart"
	checkoutsvc "github.com/openshophq/openshop-backend/internal/checkout"
	couponsvc "github.com/openshophq/openshop-backend/internal/coupons"
	marketingsvc "github.com/openshophq/openshop-backend/internal/marketing"
	productsvc "github.com/openshophq/openshop-backend/internal/products"
	"github.com/openshophq/openshop-backend/internal/webhooks"
	"github.com/openshophq/openshop-backend/pkg/config"
	"github.com/openshophq/openshop-backend/pkg/db"
	"github.com/openshophq/openshop-backend/pkg/logger"
	"github.com/openshophq/openshop-backend/pkg/metrics"
	"github.com/openshophq/openshop-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Auth       auth.Service
	Businesses businesses.Service
	Products   productsvc.Service
	Cart       cartsvc.Service
	Checkout   checkoutsvc.Service
	Coupons    couponsvc.Service
	Marketing  marketingsvc.Service
	Payments   *webhooks.PaymentService
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/me", controllers.AuthProfile(svcs.Auth, logg))
			r.Put("/me", controllers.AuthUpdateProfile(svcs.Auth, logg))
		})
	})

	r.Post("/webhook/payment", controllers.PaymentWebhook(svcs.Payments, logg))

	r.Route("/marketing", func(r chi.Router) {
		r.Post("/subscribe", controllers.MarketingSubscribe(svcs.Marketing, logg))
		r.Post("/unsubscribe", controllers.MarketingUnsubscribe(svcs.Marketing, logg))
	})

	// Cross-business catalog search is the only unauthenticated read surface.
	r.Get("/products", controllers.SearchProducts(svcs.Products, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/businesses", func(r chi.Router) {
			r.Get("/", controllers.ListBusinesses(svcs.Businesses, logg))
			r.Post("/", controllers.CreateBusiness(svcs.Businesses, logg))

			r.Route("/{businessId}", func(r chi.Router) {
				r.Put("/", controllers.UpdateBusiness(svcs.Businesses, logg))
				r.Delete("/", controllers.DeleteBusiness(svcs.Businesses, logg))
				r.Post("/favorite", controllers.FavoriteBusiness(svcs.Businesses, logg))
				r.Delete("/favorite", controllers.UnfavoriteBusiness(svcs.Businesses, logg))

				r.Get("/products", controllers.ListBusinessProducts(svcs.Products, logg))
				r.Post("/products", controllers.CreateProduct(svcs.Products, logg))
				r.Post("/products/batch_upload", controllers.BatchUploadProducts(svcs.Products, logg))

				r.Post("/coupons", controllers.CreateCoupon(svcs.Coupons, logg))
				r.Get("/coupons", controllers.ListCoupons(svcs.Coupons, logg))
			})
		})

		r.Get("/products/favorites", controllers.ListFavoriteProducts(svcs.Products, logg))
		r.Put("/products/{productId}", controllers.UpdateProduct(svcs.Products, logg))
		r.Post("/products/{productId}/toggle_favorite", controllers.ToggleFavoriteProduct(svcs.Products, logg))
		r.Post("/products/{productId}/images", controllers.AddProductImage(svcs.Products, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(svcs.Cart, logg))
			r.Post("/items", controllers.AddCartItems(svcs.Cart, logg))
			r.Patch("/delete_order", controllers.DeleteCartItems(svcs.Cart, logg))
			r.Post("/checkout", controllers.CheckoutCart(svcs.Checkout, logg))
		})
	})

	return r
}
