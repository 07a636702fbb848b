package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/port"
	"github.com/nikolayk812/marketplace/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type orderRepositorySuite struct {
	suite.Suite

	repo port.OrderRepository
	pool *pgxpool.Pool
}

func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(orderRepositorySuite))
}

func (suite *orderRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.repo, err = repository.NewOrder(suite.pool)
	suite.NoError(err)
}

func (suite *orderRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *orderRepositorySuite) TestCreateOrder() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	order := randomOrder()
	require.NoError(t, suite.repo.CreateOrder(ctx, order))

	status, total := suite.readOrder(order.ID)
	assert.Equal(t, domain.OrderStatusPending, status)
	assert.True(t, total.Equal(order.Total.Amount))

	err := suite.repo.CreateOrder(ctx, domain.Order{ID: uuid.New(), Status: domain.OrderStatusPending})
	require.EqualError(t, err, "ownerID is empty")
}

func (suite *orderRepositorySuite) TestAddItems() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	order := randomOrder()
	require.NoError(t, suite.repo.CreateOrder(ctx, order))

	items := []domain.OrderItem{
		{OrderID: order.ID, ProductID: uuid.New(), Quantity: 2, PriceAtTime: randomMoney()},
		{OrderID: order.ID, ProductID: uuid.New(), Quantity: 1, PriceAtTime: randomMoney()},
	}
	require.NoError(t, suite.repo.AddItems(ctx, items))

	assert.Equal(t, 2, suite.countItems(order.ID))

	err := suite.repo.AddItems(ctx, nil)
	require.EqualError(t, err, "items are empty")
}

func (suite *orderRepositorySuite) TestUpdateStatus() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	order := randomOrder()
	require.NoError(t, suite.repo.CreateOrder(ctx, order))

	require.NoError(t, suite.repo.UpdateStatus(ctx, order.ID, domain.OrderStatusConfirmed))

	status, _ := suite.readOrder(order.ID)
	assert.Equal(t, domain.OrderStatusConfirmed, status)

	// the status write is idempotent, repeating it is safe
	require.NoError(t, suite.repo.UpdateStatus(ctx, order.ID, domain.OrderStatusConfirmed))

	err := suite.repo.UpdateStatus(ctx, uuid.New(), domain.OrderStatusConfirmed)
	require.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func (suite *orderRepositorySuite) TestDeleteOrder_CascadesItems() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	order := randomOrder()
	require.NoError(t, suite.repo.CreateOrder(ctx, order))
	require.NoError(t, suite.repo.AddItems(ctx, []domain.OrderItem{
		{OrderID: order.ID, ProductID: uuid.New(), Quantity: 1, PriceAtTime: randomMoney()},
	}))

	deleted, err := suite.repo.DeleteOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.Zero(t, suite.countItems(order.ID), "items are removed with the order")

	deleted, err = suite.repo.DeleteOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func (suite *orderRepositorySuite) readOrder(orderID uuid.UUID) (domain.OrderStatus, decimal.Decimal) {
	var (
		status string
		total  decimal.Decimal
	)

	err := suite.pool.QueryRow(suite.T().Context(),
		"SELECT status, total_amount FROM orders WHERE id = $1", orderID).
		Scan(&status, &total)
	suite.NoError(err)

	return domain.OrderStatus(status), total
}

func (suite *orderRepositorySuite) countItems(orderID uuid.UUID) int {
	var count int
	err := suite.pool.QueryRow(suite.T().Context(),
		"SELECT count(*) FROM order_items WHERE order_id = $1", orderID).
		Scan(&count)
	suite.NoError(err)
	return count
}

func (suite *orderRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE orders CASCADE")
	suite.NoError(err)
}

func randomOrder() domain.Order {
	return domain.NewOrder(gofakeit.UUID(), randomMoney())
}
