package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/trendmart/storefront/internal/api/handlers"
	"github.com/trendmart/storefront/internal/api/middleware"
)

// Deps carries the constructed handlers into the router.
type Deps struct {
	Log           *zap.Logger
	AdminToken    string
	Cart          *handlers.CartHandler
	Coupons       *handlers.CouponHandler
	Checkout      *handlers.CheckoutHandler
	Orders        *handlers.OrderHandler
	Notifications *handlers.NotificationHandler
	Products      *handlers.ProductHandler
	Wishlist      *handlers.WishlistHandler
	Admin         *handlers.AdminHandler
}

// NewRouter builds the HTTP router for the storefront service.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(d.Log))

	// Public catalog and image serving.
	r.Get("/products", d.Products.List)
	r.Get("/products/{productID}", d.Products.Get)
	r.Get("/images/products/{productID}", d.Products.ServeImage)

	// Customer-facing routes; all require a signed-in user.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", d.Cart.Get)
			r.Delete("/", d.Cart.Clear)
			r.Post("/items", d.Cart.AddItem)
			r.Put("/items/{productID}", d.Cart.UpdateItem)
			r.Delete("/items/{productID}", d.Cart.RemoveItem)
		})

		r.Post("/coupons/verify", d.Coupons.Verify)

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", d.Checkout.Start)
			r.Get("/", d.Checkout.Get)
			r.Post("/delivery", d.Checkout.SubmitDelivery)
			r.Post("/payment", d.Checkout.SubmitPayment)
			r.Post("/back", d.Checkout.Back)
			r.Post("/confirm", d.Checkout.Confirm)
			r.Get("/return", d.Checkout.PaymentReturn)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", d.Orders.List)
			r.Get("/{orderID}", d.Orders.Get)
			r.Post("/{orderID}/cancel", d.Orders.Cancel)
			r.Post("/{orderID}/refund", d.Orders.Refund)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", d.Notifications.List)
			r.Get("/recent", d.Notifications.Recent)
			r.Get("/unread-count", d.Notifications.UnreadCount)
			r.Post("/read-all", d.Notifications.MarkAllRead)
			r.Post("/{notificationID}/read", d.Notifications.MarkRead)
			r.Delete("/{notificationID}", d.Notifications.Delete)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", d.Wishlist.List)
			r.Post("/", d.Wishlist.Add)
			r.Delete("/{productID}", d.Wishlist.Remove)
		})
	})

	// Admin routes.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Admin(d.AdminToken))

		r.Get("/dashboard", d.Admin.Dashboard)
		r.Post("/coupons", d.Coupons.Create)
		r.Post("/notifications", d.Notifications.Send)
		r.Route("/products", func(r chi.Router) {
			r.Post("/", d.Products.Create)
			r.Put("/{productID}", d.Products.Update)
			r.Delete("/{productID}", d.Products.Delete)
			r.Post("/{productID}/image", d.Products.UploadImage)
		})
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
