package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/shopcenter/internal/constants"
	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/RoyceAzure/lab/shopcenter/internal/errs"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/producer"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository/db"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// OrderPage is one page of orders plus paging metadata.
type OrderPage struct {
	Orders   []model.Order `json:"orders"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

type IOrderService interface {
	GetMyOrders(ctx context.Context, userID uuid.UUID, page, pageSize int, status *model.OrderStatus) (*OrderPage, error)
	GetByOrderNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*model.Order, error)
	GetAllOrders(ctx context.Context, page, pageSize int, status *model.OrderStatus) (*OrderPage, error)
	CancelOrder(ctx context.Context, userID uuid.UUID, orderNumber string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderNumber string, status model.OrderStatus) (*model.Order, error)
}

type OrderService struct {
	dbDao           db.IStore
	orderProducer   producer.IOrderProducer
	allowCancelPaid bool
	logger          zerolog.Logger
}

func NewOrderService(dbDao db.IStore, orderProducer producer.IOrderProducer, allowCancelPaid bool, logger zerolog.Logger) IOrderService {
	return &OrderService{
		dbDao:           dbDao,
		orderProducer:   orderProducer,
		allowCancelPaid: allowCancelPaid,
		logger:          logger,
	}
}

func (o *OrderService) GetMyOrders(ctx context.Context, userID uuid.UUID, page, pageSize int, status *model.OrderStatus) (*OrderPage, error) {
	page, pageSize = normalizePaging(page, pageSize)
	orders, total, err := o.dbDao.ListOrdersByUserID(ctx, userID, page, pageSize, status)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to list orders", err)
	}
	return &OrderPage{Orders: orders, Total: total, Page: page, PageSize: pageSize}, nil
}

func (o *OrderService) GetByOrderNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*model.Order, error) {
	order, err := o.dbDao.GetOrderByNumberForUser(ctx, orderNumber, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "order not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to load order", err)
	}
	return order, nil
}

func (o *OrderService) GetAllOrders(ctx context.Context, page, pageSize int, status *model.OrderStatus) (*OrderPage, error) {
	page, pageSize = normalizePaging(page, pageSize)
	orders, total, err := o.dbDao.ListAllOrders(ctx, page, pageSize, status)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to list orders", err)
	}
	return &OrderPage{Orders: orders, Total: total, Page: page, PageSize: pageSize}, nil
}

// CancelOrder flips the order to cancelled and gives its stock back in the
// same transaction. Orders that no longer hold stock are not touched.
func (o *OrderService) CancelOrder(ctx context.Context, userID uuid.UUID, orderNumber string) (*model.Order, error) {
	var cancelled *model.Order
	err := o.dbDao.ExecTx(ctx, func(tx db.IStore) error {
		order, err := tx.GetOrderByNumberForUser(ctx, orderNumber, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.New(errs.KindNotFound, "order not found")
			}
			return err
		}
		if !order.Cancellable(o.allowCancelPaid) {
			return errs.Newf(errs.KindInvalidTransition,
				"order in status %s cannot be cancelled", order.Status)
		}

		for _, item := range order.Items {
			if err := tx.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.UpdateOrderFields(ctx, order.ID, map[string]any{
			"status": model.OrderStatusCancelled,
		}); err != nil {
			return err
		}
		order.Status = model.OrderStatusCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		if errs.KindOf(err) != errs.KindInternal {
			return nil, err
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to cancel order", err)
	}

	if o.orderProducer != nil {
		if err := o.orderProducer.Publish(ctx, producer.EventOrderCancelled, cancelled); err != nil {
			o.logger.Error().Err(err).Str("order_number", cancelled.OrderNumber).
				Msg("failed to publish order cancelled event")
		}
	}
	return cancelled, nil
}

// UpdateOrderStatus is the privileged fulfilment path. It refuses cancelled
// and refunded so stock restoration can only happen through CancelOrder.
func (o *OrderService) UpdateOrderStatus(ctx context.Context, orderNumber string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, errs.Newf(errs.KindInvalidInput, "unknown order status %q", status)
	}
	if status == model.OrderStatusCancelled || status == model.OrderStatusRefunded {
		return nil, errs.Newf(errs.KindInvalidTransition,
			"status %s cannot be set directly", status)
	}

	order, err := o.dbDao.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "order not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to load order", err)
	}

	if err := o.dbDao.UpdateOrderFields(ctx, order.ID, map[string]any{
		"status": status,
	}); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to update order status", err)
	}
	order.Status = status
	return order, nil
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = constants.DefaultPaging
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPagingSize
	}
	if pageSize > constants.MaxPagingSize {
		pageSize = constants.MaxPagingSize
	}
	return page, pageSize
}
