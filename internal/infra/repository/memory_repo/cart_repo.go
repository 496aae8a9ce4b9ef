package memory_repo

import (
	"context"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository"
	"github.com/google/uuid"
)

// CartRepo keeps carts in a process-local map. Single-node deployments only;
// the redis_repo implementation covers everything distributed.
type CartRepo struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*model.Cart
}

func NewCartRepo() *CartRepo {
	return &CartRepo{carts: make(map[uuid.UUID]*model.Cart)}
}

func (r *CartRepo) Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(userID), nil
}

func (r *CartRepo) AddItem(ctx context.Context, userID uuid.UUID, item model.CartItem) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.getOrCreate(userID)
	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			// refresh the display snapshot as well
			cart.Items[i].Name = item.Name
			cart.Items[i].Slug = item.Slug
			cart.Items[i].Price = item.Price
			cart.Items[i].Image = item.Image
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}
	cart.UpdatedAt = time.Now()
	return r.snapshot(userID), nil
}

func (r *CartRepo) UpdateItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.getOrCreate(userID)
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			if quantity <= 0 {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			} else {
				cart.Items[i].Quantity = quantity
			}
			cart.UpdatedAt = time.Now()
			return r.snapshot(userID), nil
		}
	}
	return nil, repository.ErrCartItemNotFound
}

func (r *CartRepo) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// a miss must not allocate a cart entry
	cart, ok := r.carts[userID]
	if !ok {
		return r.snapshot(userID), nil
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			break
		}
	}
	cart.UpdatedAt = time.Now()
	return r.snapshot(userID), nil
}

func (r *CartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

func (r *CartRepo) getOrCreate(userID uuid.UUID) *model.Cart {
	cart, ok := r.carts[userID]
	if !ok {
		cart = &model.Cart{UserID: userID, UpdatedAt: time.Now()}
		r.carts[userID] = cart
	}
	return cart
}

// snapshot copies the cart so callers never alias the guarded state.
func (r *CartRepo) snapshot(userID uuid.UUID) *model.Cart {
	cart, ok := r.carts[userID]
	if !ok {
		return &model.Cart{UserID: userID, Items: []model.CartItem{}}
	}
	items := make([]model.CartItem, len(cart.Items))
	copy(items, cart.Items)
	return &model.Cart{UserID: userID, Items: items, UpdatedAt: cart.UpdatedAt}
}

var _ repository.ICartRepository = (*CartRepo)(nil)
