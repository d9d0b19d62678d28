package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tillpointhq/tillpoint-backend/api/controllers"
	"github.com/tillpointhq/tillpoint-backend/api/middleware"
	authsvc "github.com/tillpointhq/tillpoint-backend/internal/auth"
	"github.com/tillpointhq/tillpoint-backend/internal/cart"
	checkoutsvc "github.com/tillpointhq/tillpoint-backend/internal/checkout"
	ordersvc "github.com/tillpointhq/tillpoint-backend/internal/orders"
	productsvc "github.com/tillpointhq/tillpoint-backend/internal/products"
	"github.com/tillpointhq/tillpoint-backend/pkg/config"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
	"github.com/tillpointhq/tillpoint-backend/pkg/metrics"
	"github.com/tillpointhq/tillpoint-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	Redis        *redis.Client
	Backend      controllers.Pinger
	CartRegistry *cart.Registry
	APIMetrics   *metrics.APIMetrics
	Registry     *prometheus.Registry

	Products productsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Auth     authsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.APIMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"redis":   pinger(deps.Redis),
			"backend": deps.Backend,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(signupPolicy, deps.Redis, logg)).Post("/signup", controllers.Signup(deps.Auth, logg))
		r.Post("/refresh", controllers.RefreshSession(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/logout", controllers.Logout(deps.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.CartRegistry, cfg.Tax.Rate, logg))
				r.Delete("/", controllers.ClearCart(deps.CartRegistry, cfg.Tax.Rate, deps.APIMetrics, logg))
				r.Post("/items", controllers.AddCartItem(deps.CartRegistry, cfg.Tax.Rate, deps.APIMetrics, logg))
				r.Patch("/items/{productID}", controllers.UpdateCartItem(deps.CartRegistry, cfg.Tax.Rate, deps.APIMetrics, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", controllers.SubmitCheckout(deps.Checkout, deps.CartRegistry, cfg.Tax.Rate, logg))
				r.Post("/cancel", controllers.CancelCheckout(deps.CartRegistry, cfg.Tax.Rate, logg))
				r.Post("/hold", controllers.HoldOrder())
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/ping", controllers.PrivatePing())
			r.Get("/me", controllers.Profile(deps.Auth, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(deps.Orders, logg))
				r.Get("/{orderID}", controllers.GetOrder(deps.Orders, logg))
			})
		})
	})

	return r
}

// pinger hides the typed-nil pitfall when the redis client is absent.
func pinger(c *redis.Client) controllers.Pinger {
	if c == nil {
		return nil
	}
	return c
}
