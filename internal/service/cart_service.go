package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/RoyceAzure/lab/shopcenter/internal/errs"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository/db"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartView is a cart plus its derived totals.
type CartView struct {
	Items     []model.CartItem `json:"items"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	ItemCount int              `json:"itemCount"`
}

type ICartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartView, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartView, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type CartService struct {
	dbDao    db.IStore
	cartRepo repository.ICartRepository
}

func NewCartService(dbDao db.IStore, cartRepo repository.ICartRepository) ICartService {
	return &CartService{
		dbDao:    dbDao,
		cartRepo: cartRepo,
	}
}

func (c *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := c.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to load cart", err)
	}
	return newCartView(cart), nil
}

func (c *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, errs.New(errs.KindInvalidInput, "quantity must be at least 1")
	}

	product, err := c.dbDao.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "product not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to load product", err)
	}
	if !product.IsActive {
		return nil, errs.New(errs.KindNotFound, "product not found")
	}

	// the stock check covers what the cart already holds
	cart, err := c.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to load cart", err)
	}
	if cart.Quantity(productID)+quantity > product.Stock {
		return nil, errs.Newf(errs.KindInsufficientStock,
			"insufficient stock for %s: requested %d, available %d",
			product.Name, cart.Quantity(productID)+quantity, product.Stock)
	}

	cart, err = c.cartRepo.AddItem(ctx, userID, model.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Slug:      product.Slug,
		Price:     product.Price,
		Image:     product.FirstImage(),
		Quantity:  quantity,
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to update cart", err)
	}
	return newCartView(cart), nil
}

func (c *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartView, error) {
	if quantity > 0 {
		product, err := c.dbDao.GetProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errs.New(errs.KindNotFound, "product not found")
			}
			return nil, errs.Wrap(errs.KindInternal, "failed to load product", err)
		}
		if quantity > product.Stock {
			return nil, errs.Newf(errs.KindInsufficientStock,
				"insufficient stock for %s: requested %d, available %d",
				product.Name, quantity, product.Stock)
		}
	}

	cart, err := c.cartRepo.UpdateItem(ctx, userID, productID, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return nil, errs.New(errs.KindNotFound, "item not in cart")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to update cart", err)
	}
	return newCartView(cart), nil
}

func (c *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartView, error) {
	cart, err := c.cartRepo.RemoveItem(ctx, userID, productID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to update cart", err)
	}
	return newCartView(cart), nil
}

func (c *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := c.cartRepo.Clear(ctx, userID); err != nil {
		return errs.Wrap(errs.KindInternal, "failed to clear cart", err)
	}
	return nil
}

// CalculateTotals derives the money totals for a set of cart lines. Each line
// is rounded to cents before summation so the cart total always matches the
// order total built from the same lines.
func CalculateTotals(items []model.CartItem) (subtotal decimal.Decimal, itemCount int) {
	subtotal = decimal.Zero
	for _, it := range items {
		line := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
		subtotal = subtotal.Add(line)
		itemCount += it.Quantity
	}
	return subtotal, itemCount
}

func newCartView(cart *model.Cart) *CartView {
	subtotal, count := CalculateTotals(cart.Items)
	items := cart.Items
	if items == nil {
		items = []model.CartItem{}
	}
	return &CartView{Items: items, Subtotal: subtotal, ItemCount: count}
}
