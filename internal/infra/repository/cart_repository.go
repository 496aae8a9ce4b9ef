package repository

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/google/uuid"
)

var ErrCartItemNotFound = errors.New("cart item not found")

// ICartRepository is the injected cart store. Carts are transient and owned
// by exactly one identity; implementations are last-write-wins per identity
// and need no cross-identity coordination.
type ICartRepository interface {
	// Get returns the identity's cart, an empty one when absent.
	Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	// AddItem merges by product id (quantities sum).
	AddItem(ctx context.Context, userID uuid.UUID, item model.CartItem) (*model.Cart, error)
	// UpdateItem sets the quantity, removing the line when quantity <= 0.
	// Returns ErrCartItemNotFound when the product is not in the cart.
	UpdateItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) (*model.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*model.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}
