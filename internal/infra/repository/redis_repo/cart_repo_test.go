package redis_repo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// Runs against a live redis, e.g. TEST_REDIS_ADDR=localhost:6379.
type CartRepoTestSuite struct {
	suite.Suite
	client *redis.Client
	repo   *CartRepo
	userID uuid.UUID
}

func (s *CartRepoTestSuite) SetupSuite() {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		s.T().Skip("TEST_REDIS_ADDR not set, skipping redis suite")
	}
	s.client = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   1,
	})
	s.Require().NoError(s.client.Ping(context.Background()).Err())
	s.repo = NewCartRepo(s.client, time.Hour)
}

func (s *CartRepoTestSuite) SetupTest() {
	s.userID = uuid.New()
}

func (s *CartRepoTestSuite) TearDownTest() {
	if s.client != nil {
		s.client.Del(context.Background(),
			generateCartItemKey(s.userID), generateCartMetaKey(s.userID))
	}
}

func (s *CartRepoTestSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *CartRepoTestSuite) newItem(qty int) model.CartItem {
	return model.CartItem{
		ProductID: uuid.New(),
		Name:      "Widget",
		Slug:      "widget",
		Price:     decimal.RequireFromString("19.90"),
		Quantity:  qty,
	}
}

func (s *CartRepoTestSuite) TestAddItemMergesQuantity() {
	ctx := context.Background()
	item := s.newItem(2)

	_, err := s.repo.AddItem(ctx, s.userID, item)
	s.Require().NoError(err)

	item.Quantity = 3
	cart, err := s.repo.AddItem(ctx, s.userID, item)
	s.Require().NoError(err)

	s.Require().Len(cart.Items, 1)
	s.Require().Equal(5, cart.Items[0].Quantity)
	s.Require().True(cart.Items[0].Price.Equal(item.Price))
}

func (s *CartRepoTestSuite) TestUpdateItem() {
	ctx := context.Background()
	item := s.newItem(2)

	_, err := s.repo.AddItem(ctx, s.userID, item)
	s.Require().NoError(err)

	cart, err := s.repo.UpdateItem(ctx, s.userID, item.ProductID, 9)
	s.Require().NoError(err)
	s.Require().Equal(9, cart.Items[0].Quantity)

	cart, err = s.repo.UpdateItem(ctx, s.userID, item.ProductID, 0)
	s.Require().NoError(err)
	s.Require().Empty(cart.Items)

	_, err = s.repo.UpdateItem(ctx, s.userID, uuid.New(), 1)
	s.Require().ErrorIs(err, repository.ErrCartItemNotFound)
}

func (s *CartRepoTestSuite) TestClear() {
	ctx := context.Background()

	_, err := s.repo.AddItem(ctx, s.userID, s.newItem(1))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Clear(ctx, s.userID))

	cart, err := s.repo.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Empty(cart.Items)
}

func TestCartRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CartRepoTestSuite))
}
