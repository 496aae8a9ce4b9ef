package redis_repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CartRepo keeps one hash per identity, field = product id, value = the
// JSON-encoded line. A companion meta hash carries updated_at.
type CartRepo struct {
	cartCache *redis.Client
	ttl       time.Duration
}

func NewCartRepo(cartCache *redis.Client, ttl time.Duration) *CartRepo {
	return &CartRepo{cartCache: cartCache, ttl: ttl}
}

func generateCartItemKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:%s:items", userID)
}

func generateCartMetaKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:%s:meta", userID)
}

func (r *CartRepo) Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	itemsKey := generateCartItemKey(userID)

	fields, err := r.cartCache.HGetAll(ctx, itemsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	cart := &model.Cart{UserID: userID, Items: []model.CartItem{}}
	for productID, raw := range fields {
		var item model.CartItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("invalid cart line for product %s: %w", productID, err)
		}
		if item.Quantity > 0 {
			cart.Items = append(cart.Items, item)
		}
	}
	// HGetAll ordering is unspecified
	sort.Slice(cart.Items, func(i, j int) bool {
		return cart.Items[i].ProductID.String() < cart.Items[j].ProductID.String()
	})

	updatedAt, err := r.cartCache.HGet(ctx, generateCartMetaKey(userID), "updated_at").Result()
	if err == nil {
		if ts, perr := time.Parse(time.RFC3339Nano, updatedAt); perr == nil {
			cart.UpdatedAt = ts
		}
	} else if err != redis.Nil {
		return nil, fmt.Errorf("failed to get cart meta: %w", err)
	}

	return cart, nil
}

func (r *CartRepo) AddItem(ctx context.Context, userID uuid.UUID, item model.CartItem) (*model.Cart, error) {
	itemsKey := generateCartItemKey(userID)
	field := item.ProductID.String()

	raw, err := r.cartCache.HGet(ctx, itemsKey, field).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get cart line: %w", err)
	}
	if err == nil {
		var existing model.CartItem
		if uerr := json.Unmarshal([]byte(raw), &existing); uerr == nil {
			item.Quantity += existing.Quantity
		}
	}

	if err := r.setLine(ctx, userID, field, item); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

func (r *CartRepo) UpdateItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) (*model.Cart, error) {
	itemsKey := generateCartItemKey(userID)
	field := productID.String()

	raw, err := r.cartCache.HGet(ctx, itemsKey, field).Result()
	if err == redis.Nil {
		return nil, repository.ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart line: %w", err)
	}

	if quantity <= 0 {
		if err := r.cartCache.HDel(ctx, itemsKey, field).Err(); err != nil {
			return nil, fmt.Errorf("failed to delete cart line: %w", err)
		}
		if err := r.touch(ctx, userID); err != nil {
			return nil, err
		}
		return r.Get(ctx, userID)
	}

	var item model.CartItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, fmt.Errorf("invalid cart line for product %s: %w", field, err)
	}
	item.Quantity = quantity

	if err := r.setLine(ctx, userID, field, item); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

func (r *CartRepo) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*model.Cart, error) {
	itemsKey := generateCartItemKey(userID)

	if err := r.cartCache.HDel(ctx, itemsKey, productID.String()).Err(); err != nil {
		return nil, fmt.Errorf("failed to delete cart line: %w", err)
	}
	if err := r.touch(ctx, userID); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

func (r *CartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	err := r.cartCache.Del(ctx, generateCartItemKey(userID), generateCartMetaKey(userID)).Err()
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *CartRepo) setLine(ctx context.Context, userID uuid.UUID, field string, item model.CartItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode cart line: %w", err)
	}

	itemsKey := generateCartItemKey(userID)
	metaKey := generateCartMetaKey(userID)

	pipe := r.cartCache.TxPipeline()
	pipe.HSet(ctx, itemsKey, field, raw)
	pipe.HSet(ctx, metaKey, "updated_at", time.Now().Format(time.RFC3339Nano))
	if r.ttl > 0 {
		pipe.Expire(ctx, itemsKey, r.ttl)
		pipe.Expire(ctx, metaKey, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write cart line: %w", err)
	}
	return nil
}

func (r *CartRepo) touch(ctx context.Context, userID uuid.UUID) error {
	err := r.cartCache.HSet(ctx, generateCartMetaKey(userID), "updated_at", time.Now().Format(time.RFC3339Nano)).Err()
	if err != nil {
		return fmt.Errorf("failed to update cart meta: %w", err)
	}
	return nil
}

var _ repository.ICartRepository = (*CartRepo)(nil)
