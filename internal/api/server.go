package api

import (
	"github.com/RoyceAzure/lab/shopcenter/internal/api/handler"
)

// Server bundles the HTTP handlers for the router.
type Server struct {
	AuthHandler    *handler.AuthHandler
	CartHandler    *handler.CartHandler
	ProductHandler *handler.ProductHandler
	OrderHandler   *handler.OrderHandler
	PaymentHandler *handler.PaymentHandler
}
