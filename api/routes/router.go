package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/bookstore-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/bookstore-backend/api/controllers/cart"
	"github.com/angelmondragon/bookstore-backend/api/middleware"
	"github.com/angelmondragon/bookstore-backend/internal/cart"
	checkoutsvc "github.com/angelmondragon/bookstore-backend/internal/checkout"
	"github.com/angelmondragon/bookstore-backend/internal/permissions"
	"github.com/angelmondragon/bookstore-backend/internal/roles"
	"github.com/angelmondragon/bookstore-backend/pkg/config"
	"github.com/angelmondragon/bookstore-backend/pkg/enums"
	"github.com/angelmondragon/bookstore-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	pingers map[string]controllers.Pinger,
	gatherer prometheus.Gatherer,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	permissionService permissions.Service,
	roleService roles.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, pingers, logg))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(cfg.Cart.SnapshotTTL, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(cartService, logg))
				r.Delete("/", cartcontrollers.CartClear(cartService, logg))
				r.Post("/items", cartcontrollers.CartAddItem(cartService, logg))
				r.Get("/items/{bookId}", cartcontrollers.CartItemStatus(cartService, logg))
				r.Patch("/items/{bookId}", cartcontrollers.CartUpdateQuantity(cartService, logg))
				r.Delete("/items/{bookId}", cartcontrollers.CartRemoveItem(cartService, logg))
			})

			r.Route("/buy-now", func(r chi.Router) {
				r.Get("/", cartcontrollers.BuyNowFetch(cartService, logg))
				r.Put("/", cartcontrollers.BuyNowSet(cartService, logg))
				r.Delete("/", cartcontrollers.BuyNowClear(cartService, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/preview", controllers.CheckoutPreview(checkoutService, logg))
				r.Post("/complete", controllers.CheckoutComplete(checkoutService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/me/permissions", controllers.MyPermissions(permissionService, logg))
		})
	})

	r.Route("/api/admin/v1/roles", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		require := func(action enums.Action) func(http.Handler) http.Handler {
			return middleware.RequirePermission(permissionService, enums.PermissionModeAll, enums.ResourceRole, []enums.Action{action}, logg)
		}

		r.With(require(enums.ActionViewMany)).Get("/", controllers.AdminRolesList(roleService, logg))
		r.With(require(enums.ActionCreate)).Post("/", controllers.AdminRoleCreate(roleService, logg))
		r.With(require(enums.ActionViewOne)).Get("/{id}", controllers.AdminRoleDetail(roleService, logg))
		r.With(require(enums.ActionUpdate)).Patch("/{id}", controllers.AdminRoleUpdate(roleService, logg))
		r.With(require(enums.ActionDelete)).Delete("/{id}", controllers.AdminRoleDelete(roleService, logg))
		r.With(require(enums.ActionUpdate)).Put("/{id}/users/{userId}", controllers.AdminRoleAssign(roleService, logg))
		r.With(require(enums.ActionUpdate)).Delete("/{id}/users/{userId}", controllers.AdminRoleUnassign(roleService, logg))
	})

	return r
}
