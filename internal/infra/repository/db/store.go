package db

import (
	"context"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IStore is the unified ledger interface the services depend on. ExecTx hands
// the callback a store bound to one transaction; every repo call made through
// it shares that transaction.
type IStore interface {
	ExecTx(ctx context.Context, fn func(IStore) error) error

	IProductRepository
	IOrderRepository
	ICategoryRepository
	IUserRepository
}

type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	GetActiveProducts(ctx context.Context, page, pageSize int, categoryID *uuid.UUID) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, product *model.Product) error

	// GetProductForUpdate takes an exclusive row lock; only meaningful inside
	// ExecTx. Inactive products are not returned.
	GetProductForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	DeductStock(ctx context.Context, id uuid.UUID, quantity int) error
	RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error
}

type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetOrderByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	GetOrderByNumberForUser(ctx context.Context, orderNumber string, userID uuid.UUID) (*model.Order, error)
	GetOrderBySessionID(ctx context.Context, sessionID string) (*model.Order, error)
	GetOrderByPaymentID(ctx context.Context, paymentID string) (*model.Order, error)
	ListOrdersByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int, status *model.OrderStatus) ([]model.Order, int64, error)
	ListAllOrders(ctx context.Context, page, pageSize int, status *model.OrderStatus) ([]model.Order, int64, error)
	UpdateOrder(ctx context.Context, order *model.Order) error
	UpdateOrderFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

type ICategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetAllCategories(ctx context.Context) ([]model.Category, error)
}

type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type Store struct {
	dao *DbDao
	*ProductRepo
	*OrderRepo
	*CategoryRepo
	*UserRepo
}

func NewStore(conn *gorm.DB) *Store {
	dao := NewDbDao(conn)
	return &Store{
		dao:          dao,
		ProductRepo:  NewProductRepo(dao),
		OrderRepo:    NewOrderRepo(dao),
		CategoryRepo: NewCategoryRepo(dao),
		UserRepo:     NewUserRepo(dao),
	}
}

func (s *Store) ExecTx(ctx context.Context, fn func(IStore) error) error {
	return s.dao.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) InitMigrate() error {
	return s.dao.InitMigrate()
}

var _ IStore = (*Store)(nil)
