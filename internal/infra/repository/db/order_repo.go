package db

import (
	"context"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateOrder persists the order together with its items (gorm walks the
// association). Item prices are immutable after this point.
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *OrderRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := s.preloaded(ctx).First(&order, "orders.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderRepo) GetOrderByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := s.preloaded(ctx).First(&order, "orders.id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	var order model.Order
	err := s.preloaded(ctx).First(&order, "order_number = ?", orderNumber).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderRepo) GetOrderByNumberForUser(ctx context.Context, orderNumber string, userID uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := s.preloaded(ctx).First(&order, "order_number = ? AND user_id = ?", orderNumber, userID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderRepo) GetOrderBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	var order model.Order
	err := s.preloaded(ctx).First(&order, "gateway_session_id = ?", sessionID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderRepo) GetOrderByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	var order model.Order
	err := s.preloaded(ctx).First(&order, "gateway_payment_id = ?", paymentID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderRepo) ListOrdersByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int, status *model.OrderStatus) ([]model.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)
	return s.list(ctx, query, page, pageSize, status)
}

func (s *OrderRepo) ListAllOrders(ctx context.Context, page, pageSize int, status *model.OrderStatus) ([]model.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Order{})
	return s.list(ctx, query, page, pageSize, status)
}

func (s *OrderRepo) UpdateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Omit("Items").Save(order).Error
}

// UpdateOrderFields applies a partial update, used by the reconciler so a
// webhook never clobbers columns it does not own.
func (s *OrderRepo) UpdateOrderFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return s.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (s *OrderRepo) list(ctx context.Context, query *gorm.DB, page, pageSize int, status *model.OrderStatus) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

func (s *OrderRepo) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product")
}
