package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-cart/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-cart/api/controllers/cart"
	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/internal/cartstore"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/angelmondragon/storefront-cart/pkg/redis"
)

// Deps collects what the router hands to controllers and middleware.
// Redis is optional: without it rate limiting and idempotency are off.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Pages       *controllers.PageEnv
	Store       cartstore.Store
	Redis       *redis.Client
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger
	carts := d.Pages.Carts

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
	)

	// typed nils must not reach the middleware as non-nil interfaces
	var (
		limiter     redis.RateLimiter
		idempotency redis.IdempotencyStore
		redisPinger controllers.Pinger
	)
	if d.Redis != nil {
		limiter, idempotency, redisPinger = d.Redis, d.Redis, d.Redis
	}
	mutations := middleware.RateLimit(
		middleware.NewRateLimitPolicy("cart", cfg.RateLimit.Window, cfg.RateLimit.Limit),
		limiter,
		logg,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"cart_store": d.Store,
			"redis":      redisPinger,
		}))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Visitor(cfg.Visitor, logg))

		r.Get("/", controllers.CatalogPage(d.Pages))
		r.Get("/cart", controllers.CartPage(d.Pages))

		r.Group(func(r chi.Router) {
			r.Use(mutations)
			r.Post("/cart/add", controllers.CartAdd(d.Pages))
			r.Post("/cart/items/{id}/increment", controllers.CartItemAction(d.Pages, enums.CartActionIncrement))
			r.Post("/cart/items/{id}/decrement", controllers.CartItemAction(d.Pages, enums.CartActionDecrement))
			r.Post("/cart/items/{id}/remove", controllers.CartItemAction(d.Pages, enums.CartActionRemove))
			r.Post("/cart/items/{id}/quantity", controllers.CartItemAction(d.Pages, enums.CartActionQuantity))
			r.Post("/cart/clear", controllers.CartClear(d.Pages))
			r.Post("/cart/checkout", controllers.CartCheckout(d.Pages))
		})
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(
			middleware.CORS(cfg.CORS.AllowedOrigins),
			middleware.Visitor(cfg.Visitor, logg),
		)

		r.Get("/", cartcontrollers.CartFetch(carts, logg))
		r.Get("/badge", cartcontrollers.CartBadge(carts, logg))

		r.Group(func(r chi.Router) {
			r.Use(mutations)
			r.Delete("/", cartcontrollers.CartClear(carts, logg))
			r.Post("/items", cartcontrollers.CartAddItem(carts, logg))
			r.Put("/items/{id}/quantity", cartcontrollers.CartSetQuantity(carts, logg))
			r.Post("/items/{id}/increment", cartcontrollers.CartIncrement(carts, logg))
			r.Post("/items/{id}/decrement", cartcontrollers.CartDecrement(carts, logg))
			r.Delete("/items/{id}", cartcontrollers.CartRemoveItem(carts, logg))
			r.With(middleware.Idempotency(idempotency, middleware.DefaultIdempotencyTTL, logg)).
				Post("/checkout", cartcontrollers.CartCheckout(carts, logg))
		})
	})

	return r
}
