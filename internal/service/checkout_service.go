package service

import (
	"context"
	"errors"
	"strings"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/RoyceAzure/lab/shopcenter/internal/errs"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/producer"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shopcenter/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderNumberAttempts bounds the regenerate-and-retry loop on a duplicate
// order number. Collisions need matching millisecond + 4 random chars, so
// one retry is already rare.
const orderNumberAttempts = 3

type ICheckoutService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, address model.ShippingAddress, notes string) (*model.Order, error)
}

type CheckoutService struct {
	dbDao         db.IStore
	cartRepo      repository.ICartRepository
	orderProducer producer.IOrderProducer
	logger        zerolog.Logger
}

func NewCheckoutService(dbDao db.IStore, cartRepo repository.ICartRepository, orderProducer producer.IOrderProducer, logger zerolog.Logger) ICheckoutService {
	return &CheckoutService{
		dbDao:         dbDao,
		cartRepo:      cartRepo,
		orderProducer: orderProducer,
		logger:        logger,
	}
}

// CreateOrder turns the identity's cart into a pending order. The whole
// reservation runs in one transaction: every product row is locked, stock is
// checked and decremented, and the order is inserted, so two concurrent
// checkouts can never both take the last unit.
func (c *CheckoutService) CreateOrder(ctx context.Context, userID uuid.UUID, address model.ShippingAddress, notes string) (*model.Order, error) {
	if missing := address.MissingFields(); len(missing) > 0 {
		return nil, errs.Newf(errs.KindInvalidInput,
			"shipping address missing required fields: %s", strings.Join(missing, ", "))
	}

	cart, err := c.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to load cart", err)
	}
	if len(cart.Items) == 0 {
		return nil, errs.New(errs.KindInvalidInput, "cart is empty")
	}

	var created *model.Order
	err = c.dbDao.ExecTx(ctx, func(tx db.IStore) error {
		subtotal := decimal.Zero
		items := make([]model.OrderItem, 0, len(cart.Items))

		for _, line := range cart.Items {
			product, err := tx.GetProductForUpdate(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errs.Newf(errs.KindInvalidInput, "product %s is unavailable", line.Name)
				}
				return err
			}
			if product.Stock < line.Quantity {
				return errs.Newf(errs.KindInsufficientStock,
					"insufficient stock for %s: requested %d, available %d",
					product.Name, line.Quantity, product.Stock)
			}

			// re-price from the locked row, cart snapshots may be stale
			lineSubtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
			subtotal = subtotal.Add(lineSubtotal)
			items = append(items, model.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
				Subtotal:  lineSubtotal,
			})

			if err := tx.DeductStock(ctx, product.ID, line.Quantity); err != nil {
				return err
			}
		}

		order := &model.Order{
			UserID:          userID,
			Status:          model.OrderStatusPending,
			PaymentStatus:   model.PaymentStatusPending,
			ShippingAddress: address,
			Notes:           notes,
			Subtotal:        subtotal,
			ShippingCost:    decimal.Zero,
			Tax:             decimal.Zero,
			Total:           subtotal,
			Items:           items,
		}

		for attempt := 0; attempt < orderNumberAttempts; attempt++ {
			order.OrderNumber = util.GenerateOrderNumber()
			err := tx.CreateOrder(ctx, order)
			if err == nil {
				created = order
				return nil
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
		}
		return errs.New(errs.KindInternal, "failed to allocate a unique order number")
	})
	if err != nil {
		if kind := errs.KindOf(err); kind != errs.KindInternal {
			return nil, err
		}
		if errors.Is(err, db.ErrStockConflict) {
			return nil, errs.Wrap(errs.KindInsufficientStock, "stock changed during checkout", err)
		}
		return nil, errs.Wrap(errs.KindInternal, "checkout failed", err)
	}

	// the order is committed; a cart that fails to clear is an inconvenience,
	// not a reason to fail the checkout
	if err := c.cartRepo.Clear(ctx, userID); err != nil {
		c.logger.Error().Err(err).
			Str("order_number", created.OrderNumber).
			Msg("order committed but cart clear failed")
	}

	full, err := c.dbDao.GetOrderByID(ctx, created.ID)
	if err != nil {
		// order exists, reload is cosmetic
		c.logger.Warn().Err(err).Str("order_number", created.OrderNumber).
			Msg("failed to reload order after checkout")
		full = created
	}

	if c.orderProducer != nil {
		if err := c.orderProducer.Publish(ctx, producer.EventOrderCreated, full); err != nil {
			c.logger.Error().Err(err).Str("order_number", full.OrderNumber).
				Msg("failed to publish order created event")
		}
	}
	return full, nil
}
