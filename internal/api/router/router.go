package router

import (
	"net/http"

	"github.com/RoyceAzure/lab/shopcenter/internal/api"
	m "github.com/RoyceAzure/lab/shopcenter/internal/api/middleware"
	"github.com/RoyceAzure/lab/shopcenter/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func SetupRouter(server *api.Server, tokenMaker token.Maker, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.AuthPayloadMiddleware(tokenMaker))
	r.Use(m.LoggerMiddleware(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", server.AuthHandler.Register)
			r.Post("/login", server.AuthHandler.Login)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", server.ProductHandler.ListProducts)
			r.Get("/{slug}", server.ProductHandler.GetProduct)
			r.With(m.AdminMiddleware).Post("/", server.ProductHandler.CreateProduct)
			r.With(m.AdminMiddleware).Put("/{id}", server.ProductHandler.UpdateProduct)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", server.ProductHandler.ListCategories)
			r.With(m.AdminMiddleware).Post("/", server.ProductHandler.CreateCategory)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(m.AuthMiddleware)
			r.Get("/", server.CartHandler.GetCart)
			r.Delete("/", server.CartHandler.ClearCart)
			r.Post("/items", server.CartHandler.AddItem)
			r.Put("/items/{productId}", server.CartHandler.UpdateItem)
			r.Delete("/items/{productId}", server.CartHandler.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(m.AuthMiddleware)
			r.Get("/", server.OrderHandler.GetMyOrders)
			r.Post("/", server.OrderHandler.CreateOrder)
			r.With(m.AdminMiddleware).Get("/all", server.OrderHandler.GetAllOrders)
			r.Get("/{orderNumber}", server.OrderHandler.GetOrder)
			r.Put("/{orderNumber}/cancel", server.OrderHandler.CancelOrder)
			r.With(m.AdminMiddleware).Put("/{orderNumber}/status", server.OrderHandler.UpdateOrderStatus)
		})

		r.Route("/payments", func(r chi.Router) {
			// the gateway calls this one unauthenticated; the HMAC signature
			// over the raw body is the credential
			r.Post("/webhook", server.PaymentHandler.Webhook)

			r.Group(func(r chi.Router) {
				r.Use(m.AuthMiddleware)
				r.Post("/create-checkout-session", server.PaymentHandler.CreateCheckoutSession)
				r.Get("/status/{orderId}", server.PaymentHandler.GetPaymentStatus)
			})
		})
	})

	return r
}
