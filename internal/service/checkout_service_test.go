package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/RoyceAzure/lab/shopcenter/internal/errs"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/producer"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository/memory_repo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// recordingProducer captures published events instead of touching kafka.
type recordingProducer struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingProducer) Publish(ctx context.Context, eventType string, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType+":"+order.OrderNumber)
	return nil
}

func (r *recordingProducer) Close() error { return nil }

func (r *recordingProducer) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if strings.HasPrefix(e, eventType+":") {
			n++
		}
	}
	return n
}

func testAddress() model.ShippingAddress {
	return model.ShippingAddress{
		Street:  "1 Main St",
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62704",
		Country: "US",
	}
}

func TestCreateOrderHappyPath(t *testing.T) {
	store := newFakeStore()
	carts := memory_repo.NewCartRepo()
	events := &recordingProducer{}
	cartSvc := NewCartService(store, carts)
	svc := NewCheckoutService(store, carts, events, zerolog.Nop())
	ctx := context.Background()
	userID := uuid.New()

	a := seedProduct(t, store, "10.005", 5)
	b := seedProduct(t, store, "5.00", 5)
	_, err := cartSvc.AddItem(ctx, userID, a.ID, 2)
	require.NoError(t, err)
	_, err = cartSvc.AddItem(ctx, userID, b.ID, 1)
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, userID, testAddress(), "leave at door")
	require.NoError(t, err)

	require.Equal(t, model.OrderStatusPending, order.Status)
	require.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	require.Regexp(t, `^ORD-[0-9A-Z]+-[0-9A-Z]{4}$`, order.OrderNumber)
	require.Len(t, order.Items, 2)
	require.True(t, order.Total.Equal(decimal.RequireFromString("25.01")),
		"got %s", order.Total)

	// stock reserved
	gotA, err := store.GetProductByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, 3, gotA.Stock)

	// cart cleared after commit
	view, err := cartSvc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, view.Items)

	require.Equal(t, 1, events.count(producer.EventOrderCreated))
}

func TestCreateOrderEmptyCart(t *testing.T) {
	store := newFakeStore()
	svc := NewCheckoutService(store, memory_repo.NewCartRepo(), nil, zerolog.Nop())

	_, err := svc.CreateOrder(context.Background(), uuid.New(), testAddress(), "")
	require.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
	require.Contains(t, errs.MessageOf(err), "cart is empty")
}

func TestCreateOrderMissingAddressFields(t *testing.T) {
	store := newFakeStore()
	svc := NewCheckoutService(store, memory_repo.NewCartRepo(), nil, zerolog.Nop())

	addr := testAddress()
	addr.City = ""
	addr.Country = ""
	_, err := svc.CreateOrder(context.Background(), uuid.New(), addr, "")
	require.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
	require.Contains(t, errs.MessageOf(err), "city")
	require.Contains(t, errs.MessageOf(err), "country")
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	store := newFakeStore()
	carts := memory_repo.NewCartRepo()
	cartSvc := NewCartService(store, carts)
	svc := NewCheckoutService(store, carts, nil, zerolog.Nop())
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(t, store, "10.00", 5)
	_, err := cartSvc.AddItem(ctx, userID, product.ID, 4)
	require.NoError(t, err)

	// stock shrinks between add-to-cart and checkout
	product.Stock = 2
	require.NoError(t, store.UpdateProduct(ctx, product))

	_, err = svc.CreateOrder(ctx, userID, testAddress(), "")
	require.Equal(t, errs.KindInsufficientStock, errs.KindOf(err))
	require.Contains(t, errs.MessageOf(err), "requested 4")
	require.Contains(t, errs.MessageOf(err), "available 2")

	// nothing was reserved
	got, err := store.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Stock)
}

func TestCreateOrderRepricesFromLedger(t *testing.T) {
	store := newFakeStore()
	carts := memory_repo.NewCartRepo()
	cartSvc := NewCartService(store, carts)
	svc := NewCheckoutService(store, carts, nil, zerolog.Nop())
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(t, store, "10.00", 5)
	_, err := cartSvc.AddItem(ctx, userID, product.ID, 1)
	require.NoError(t, err)

	// price changed after the cart snapshot was taken
	product.Price = decimal.RequireFromString("12.50")
	require.NoError(t, store.UpdateProduct(ctx, product))

	order, err := svc.CreateOrder(ctx, userID, testAddress(), "")
	require.NoError(t, err)
	require.True(t, order.Total.Equal(decimal.RequireFromString("12.50")),
		"got %s", order.Total)
	require.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.50")))
}

// Ten buyers race for five units; exactly five orders may succeed.
func TestConcurrentCheckoutNoOversell(t *testing.T) {
	store := newFakeStore()
	carts := memory_repo.NewCartRepo()
	cartSvc := NewCartService(store, carts)
	svc := NewCheckoutService(store, carts, nil, zerolog.Nop())
	ctx := context.Background()

	product := seedProduct(t, store, "10.00", 5)

	const buyers = 10
	userIDs := make([]uuid.UUID, buyers)
	for i := range userIDs {
		userIDs[i] = uuid.New()
		_, err := cartSvc.AddItem(ctx, userIDs[i], product.ID, 1)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	results := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			_, err := svc.CreateOrder(ctx, userID, testAddress(), "")
			results <- err
		}(userIDs[i])
	}
	wg.Wait()
	close(results)

	var ok, insufficient int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errs.KindOf(err) == errs.KindInsufficientStock:
			insufficient++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 5, ok)
	require.Equal(t, 5, insufficient)

	got, err := store.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Stock)
}
