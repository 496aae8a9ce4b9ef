package service

import (
	"context"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeStore is an in-memory db.IStore. ExecTx holds one mutex for the whole
// callback, which serializes "transactions" the way the row lock does against
// postgres. It does not roll back, so tests arrange failures before mutation.
type fakeStore struct {
	mu   *sync.Mutex
	data *fakeData

	// set on the store handed to an ExecTx callback, whose caller already
	// holds the mutex
	inTx bool
}

type fakeData struct {
	products   map[uuid.UUID]*model.Product
	orders     map[uuid.UUID]*model.Order
	categories map[uuid.UUID]*model.Category
	users      map[uuid.UUID]*model.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		mu: &sync.Mutex{},
		data: &fakeData{
			products:   make(map[uuid.UUID]*model.Product),
			orders:     make(map[uuid.UUID]*model.Order),
			categories: make(map[uuid.UUID]*model.Category),
			users:      make(map[uuid.UUID]*model.User),
		},
	}
}

func (s *fakeStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *fakeStore) ExecTx(ctx context.Context, fn func(db.IStore) error) error {
	defer s.lock()()
	return fn(&fakeStore{mu: s.mu, data: s.data, inTx: true})
}

// ---- products ----

func (s *fakeStore) CreateProduct(ctx context.Context, product *model.Product) error {
	defer s.lock()()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	for _, p := range s.data.products {
		if p.Slug == product.Slug {
			return gorm.ErrDuplicatedKey
		}
		if p.SKU != nil && product.SKU != nil && *p.SKU == *product.SKU {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *product
	s.data.products[product.ID] = &cp
	return nil
}

func (s *fakeStore) GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	defer s.lock()()
	p, ok := s.data.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	defer s.lock()()
	for _, p := range s.data.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) GetActiveProducts(ctx context.Context, page, pageSize int, categoryID *uuid.UUID) ([]model.Product, int64, error) {
	defer s.lock()()
	var out []model.Product
	for _, p := range s.data.products {
		if !p.IsActive {
			continue
		}
		if categoryID != nil && p.CategoryID != *categoryID {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) UpdateProduct(ctx context.Context, product *model.Product) error {
	defer s.lock()()
	if _, ok := s.data.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, p := range s.data.products {
		if p.ID != product.ID && p.Slug == product.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *product
	s.data.products[product.ID] = &cp
	return nil
}

func (s *fakeStore) GetProductForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	defer s.lock()()
	p, ok := s.data.products[id]
	if !ok || !p.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) DeductStock(ctx context.Context, id uuid.UUID, quantity int) error {
	defer s.lock()()
	p, ok := s.data.products[id]
	if !ok || p.Stock < quantity {
		return db.ErrStockConflict
	}
	p.Stock -= quantity
	return nil
}

func (s *fakeStore) RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error {
	defer s.lock()()
	p, ok := s.data.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += quantity
	return nil
}

// ---- orders ----

func (s *fakeStore) CreateOrder(ctx context.Context, order *model.Order) error {
	defer s.lock()()
	for _, o := range s.data.orders {
		if o.OrderNumber == order.OrderNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	cp := copyOrder(order)
	s.data.orders[order.ID] = cp
	return nil
}

func (s *fakeStore) GetOrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	defer s.lock()()
	o, ok := s.data.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s.loaded(o), nil
}

func (s *fakeStore) GetOrderByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error) {
	defer s.lock()()
	o, ok := s.data.orders[id]
	if !ok || o.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.loaded(o), nil
}

func (s *fakeStore) GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	defer s.lock()()
	for _, o := range s.data.orders {
		if o.OrderNumber == orderNumber {
			return s.loaded(o), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) GetOrderByNumberForUser(ctx context.Context, orderNumber string, userID uuid.UUID) (*model.Order, error) {
	defer s.lock()()
	for _, o := range s.data.orders {
		if o.OrderNumber == orderNumber && o.UserID == userID {
			return s.loaded(o), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) GetOrderBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	defer s.lock()()
	for _, o := range s.data.orders {
		if o.GatewaySessionID == sessionID {
			return s.loaded(o), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) GetOrderByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	defer s.lock()()
	for _, o := range s.data.orders {
		if o.GatewayPaymentID == paymentID {
			return s.loaded(o), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) ListOrdersByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int, status *model.OrderStatus) ([]model.Order, int64, error) {
	defer s.lock()()
	var out []model.Order
	for _, o := range s.data.orders {
		if o.UserID != userID {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, *s.loaded(o))
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) ListAllOrders(ctx context.Context, page, pageSize int, status *model.OrderStatus) ([]model.Order, int64, error) {
	defer s.lock()()
	var out []model.Order
	for _, o := range s.data.orders {
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, *s.loaded(o))
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) UpdateOrder(ctx context.Context, order *model.Order) error {
	defer s.lock()()
	if _, ok := s.data.orders[order.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.data.orders[order.ID] = copyOrder(order)
	return nil
}

func (s *fakeStore) UpdateOrderFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	defer s.lock()()
	o, ok := s.data.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			o.Status = v.(model.OrderStatus)
		case "payment_status":
			o.PaymentStatus = v.(model.PaymentStatus)
		case "gateway_session_id":
			o.GatewaySessionID = v.(string)
		case "gateway_payment_id":
			o.GatewayPaymentID = v.(string)
		case "paid_at":
			t := v.(time.Time)
			o.PaidAt = &t
		}
	}
	return nil
}

// ---- categories ----

func (s *fakeStore) CreateCategory(ctx context.Context, category *model.Category) error {
	defer s.lock()()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	for _, c := range s.data.categories {
		if c.Slug == category.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *category
	s.data.categories[category.ID] = &cp
	return nil
}

func (s *fakeStore) GetCategoryByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	defer s.lock()()
	c, ok := s.data.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) GetAllCategories(ctx context.Context) ([]model.Category, error) {
	defer s.lock()()
	var out []model.Category
	for _, c := range s.data.categories {
		out = append(out, *c)
	}
	return out, nil
}

// ---- users ----

func (s *fakeStore) CreateUser(ctx context.Context, user *model.User) error {
	defer s.lock()()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, u := range s.data.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *user
	s.data.users[user.ID] = &cp
	return nil
}

func (s *fakeStore) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	defer s.lock()()
	u, ok := s.data.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	defer s.lock()()
	for _, u := range s.data.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// loaded mirrors the repo preloads: items come back with their product.
func (s *fakeStore) loaded(o *model.Order) *model.Order {
	cp := copyOrder(o)
	for i := range cp.Items {
		if p, ok := s.data.products[cp.Items[i].ProductID]; ok {
			pc := *p
			cp.Items[i].Product = &pc
		}
	}
	return cp
}

func copyOrder(o *model.Order) *model.Order {
	cp := *o
	cp.Items = make([]model.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

var _ db.IStore = (*fakeStore)(nil)
