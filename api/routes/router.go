package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justbecho/justbecho-backend/api/controllers"
	"github.com/justbecho/justbecho-backend/api/middleware"
	authsvc "github.com/justbecho/justbecho-backend/internal/auth"
	cartsvc "github.com/justbecho/justbecho-backend/internal/cart"
	checkoutsvc "github.com/justbecho/justbecho-backend/internal/checkout"
	orderssvc "github.com/justbecho/justbecho-backend/internal/orders"
	userssvc "github.com/justbecho/justbecho-backend/internal/users"
	"github.com/justbecho/justbecho-backend/pkg/auth/session"
	"github.com/justbecho/justbecho-backend/pkg/config"
	"github.com/justbecho/justbecho-backend/pkg/db"
	"github.com/justbecho/justbecho-backend/pkg/logger"
	"github.com/justbecho/justbecho-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface: public auth endpoints, the
// authenticated storefront routes, health probes, and metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database *db.Client,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	authService authsvc.Service,
	usersService userssvc.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService orderssvc.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient, logg))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	idempotency := middleware.Idempotency(redisClient, cfg.Checkout, logg)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(idempotency).Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
			r.Post("/logout", controllers.AuthLogout(authService, logg))
			r.Get("/me", controllers.UsersMe(usersService, logg))
			r.Put("/profile", controllers.UsersUpdateProfile(usersService, logg))
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(idempotency)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Post("/add", controllers.CartAddItem(cartService, logg))
			r.Put("/update/{itemId}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/remove/{itemId}", controllers.CartRemoveItem(cartService, logg))
			r.Delete("/clear", controllers.CartClear(cartService, logg))
			r.Put("/item/{itemId}/becho-protect", controllers.CartSetBechoProtect(cartService, logg))
		})

		r.Route("/razorpay", func(r chi.Router) {
			r.Post("/create-order", controllers.CheckoutCreateOrder(checkoutService, logg))
			r.Post("/verify-payment", controllers.CheckoutVerifyPayment(checkoutService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/{orderId}", controllers.OrdersGet(ordersService, logg))
		})
	})

	return r
}
