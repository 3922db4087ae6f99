package services_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"handmade-backend/apperrors"
	"handmade-backend/models"
	"handmade-backend/services"
)

// fakeCommerceStore is an in-memory OrderStore plus ProductLedger with
// transactional semantics: a failed transaction restores the snapshot
// taken at its start, so order writes and stock decrements commit or
// roll back together, like the real store.
type fakeCommerceStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	products map[primitive.ObjectID]models.Product
	orders   map[primitive.ObjectID]models.Order
	items    map[primitive.ObjectID][]models.OrderItem
}

func newFakeCommerceStore() *fakeCommerceStore {
	return &fakeCommerceStore{
		products: make(map[primitive.ObjectID]models.Product),
		orders:   make(map[primitive.ObjectID]models.Order),
		items:    make(map[primitive.ObjectID][]models.OrderItem),
	}
}

func (s *fakeCommerceStore) addProduct(p models.Product) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.InStock = p.StockQuantity > 0
	s.products[p.ID] = p
	return p.ID
}

func (s *fakeCommerceStore) product(id primitive.ObjectID) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

func (s *fakeCommerceStore) setPrice(id primitive.ObjectID, price int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.products[id]
	p.Price = price
	s.products[id] = p
}

func (s *fakeCommerceStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *fakeCommerceStore) snapshot() (map[primitive.ObjectID]models.Product, map[primitive.ObjectID]models.Order, map[primitive.ObjectID][]models.OrderItem) {
	products := make(map[primitive.ObjectID]models.Product, len(s.products))
	for id, p := range s.products {
		products[id] = p
	}
	orders := make(map[primitive.ObjectID]models.Order, len(s.orders))
	for id, o := range s.orders {
		orders[id] = o
	}
	items := make(map[primitive.ObjectID][]models.OrderItem, len(s.items))
	for id, lines := range s.items {
		items[id] = append([]models.OrderItem(nil), lines...)
	}
	return products, orders, items
}

// --- ProductLedger ---

func (s *fakeCommerceStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *fakeCommerceStore) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.StockQuantity < qty {
		return false, nil
	}
	p.StockQuantity -= qty
	p.InStock = p.StockQuantity > 0
	s.products[id] = p
	return true, nil
}

// --- OrderStore ---

func (s *fakeCommerceStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	products, orders, items := s.snapshot()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.products, s.orders, s.items = products, orders, items
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *fakeCommerceStore) CreateWithItems(_ context.Context, order *models.Order, items []models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = primitive.NewObjectID()
	for i := range items {
		items[i].ID = primitive.NewObjectID()
		items[i].OrderID = order.ID
	}
	s.orders[order.ID] = *order
	s.items[order.ID] = append([]models.OrderItem(nil), items...)
	return nil
}

func (s *fakeCommerceStore) GetOrderByID(_ context.Context, id primitive.ObjectID) (*models.OrderWithItems, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	return &models.OrderWithItems{
		Order: order,
		Items: append([]models.OrderItem(nil), s.items[id]...),
	}, nil
}

func (s *fakeCommerceStore) List(_ context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *fakeCommerceStore) ListByStatus(_ context.Context, status models.OrderStatus) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeCommerceStore) ListByCustomerEmail(_ context.Context, email string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.CustomerEmail == email {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeCommerceStore) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	s.orders[id] = order
	return true, nil
}

func (s *fakeCommerceStore) UpdatePaymentStatus(_ context.Context, id primitive.ObjectID, status models.PaymentStatus, paymentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return false, nil
	}
	order.PaymentStatus = status
	if paymentID != "" {
		order.PaymentID = paymentID
	}
	s.orders[id] = order
	return true, nil
}

func (s *fakeCommerceStore) Stats(_ context.Context) (*models.OrderStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &models.OrderStats{}
	for _, o := range s.orders {
		stats.TotalOrders++
		if o.Status == models.OrderStatusPending {
			stats.PendingOrders++
		}
		if o.Status == models.OrderStatusDelivered {
			stats.CompletedOrders++
		}
		if o.PaymentStatus == models.PaymentStatusPaid {
			stats.TotalRevenue += o.TotalAmount
		}
	}
	return stats, nil
}

// orderStoreAdapter narrows fakeCommerceStore to the OrderStore
// contract; GetByID on the store itself belongs to ProductLedger.
type orderStoreAdapter struct {
	*fakeCommerceStore
}

func (a orderStoreAdapter) GetByID(ctx context.Context, id primitive.ObjectID) (*models.OrderWithItems, error) {
	return a.fakeCommerceStore.GetOrderByID(ctx, id)
}

func newTestOrderService(shipping int64) (*services.OrderService, *fakeCommerceStore) {
	store := newFakeCommerceStore()
	svc := services.NewOrderService(
		orderStoreAdapter{store},
		store,
		services.FlatShipping{Amount: shipping},
		zap.NewNop(),
	)
	return svc, store
}

func orderRequest(lines ...models.OrderItemRequest) *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		CustomerName:  "Maya Sari",
		CustomerEmail: "Maya@Example.com",
		CustomerPhone: "+62811111111",
		ShippingAddress: models.ShippingAddress{
			Line1:      "Jl. Melati 5",
			City:       "Bandung",
			PostalCode: "40115",
			Country:    "ID",
		},
		Items: lines,
	}
}

func TestCreateOrderComputesTotalsAndDecrementsStock(t *testing.T) {
	svc, store := newTestOrderService(250)
	productID := store.addProduct(models.Product{
		Name:          "Beaded Bracelet",
		Price:         500,
		StockQuantity: 2,
		IsActive:      true,
	})

	order, err := svc.CreateOrder(context.Background(), orderRequest(
		models.OrderItemRequest{ProductID: productID.Hex(), Quantity: 2},
	))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, int64(1000), order.Subtotal)
	assert.Equal(t, int64(250), order.ShippingCost)
	assert.Equal(t, int64(1250), order.TotalAmount)
	assert.Equal(t, "maya@example.com", order.CustomerEmail)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"), order.OrderNumber)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Beaded Bracelet", order.Items[0].ProductName)
	assert.Equal(t, int64(500), order.Items[0].ProductPrice)

	p := store.product(productID)
	assert.Equal(t, 0, p.StockQuantity)
	assert.False(t, p.InStock)
}

func TestCreateOrderRejectsWhenOutOfStock(t *testing.T) {
	svc, store := newTestOrderService(0)
	productID := store.addProduct(models.Product{
		Name:          "Beaded Bracelet",
		Price:         500,
		StockQuantity: 2,
		IsActive:      true,
	})

	_, err := svc.CreateOrder(context.Background(), orderRequest(
		models.OrderItemRequest{ProductID: productID.Hex(), Quantity: 2},
	))
	require.NoError(t, err)

	// Stock is depleted now, a further order must be rejected.
	_, err = svc.CreateOrder(context.Background(), orderRequest(
		models.OrderItemRequest{ProductID: productID.Hex(), Quantity: 1},
	))
	require.Error(t, err)
	assert.Equal(t, "product_out_of_stock", apperrors.CodeOf(err))
	assert.Equal(t, 1, store.orderCount())
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, store := newTestOrderService(0)
	productID := store.addProduct(models.Product{
		Name:          "Silver Pendant",
		Price:         1200,
		StockQuantity: 2,
		IsActive:      true,
	})

	_, err := svc.CreateOrder(context.Background(), orderRequest(
		models.OrderItemRequest{ProductID: productID.Hex(), Quantity: 3},
	))
	require.Error(t, err)
	assert.Equal(t, "insufficient_stock", apperrors.CodeOf(err))

	assert.Equal(t, 2, store.product(productID).StockQuantity)
	assert.Equal(t, 0, store.orderCount())
}

func TestCreateOrderUnknownOrInactiveProduct(t *testing.T) {
	svc, store := newTestOrderService(0)
	inactiveID := store.addProduct(models.Product{
		Name:          "Retired Ring",
		Price:         900,
		StockQuantity: 5,
		IsActive:      false,
	})

	for _, id := range []string{"not-a-hex-id", primitive.NewObjectID().Hex(), inactiveID.Hex()} {
		_, err := svc.CreateOrder(context.Background(), orderRequest(
			models.OrderItemRequest{ProductID: id, Quantity: 1},
		))
		require.Error(t, err, "product %q", id)
		assert.Equal(t, "product_not_found", apperrors.CodeOf(err))
	}
	assert.Equal(t, 0, store.orderCount())
}

func TestCreateOrderAtomicOnPartialFailure(t *testing.T) {
	svc, store := newTestOrderService(0)
	goodID := store.addProduct(models.Product{
		Name:          "Beaded Bracelet",
		Price:         500,
		StockQuantity: 10,
		IsActive:      true,
	})
	scarceID := store.addProduct(models.Product{
		Name:          "Silver Pendant",
		Price:         1200,
		StockQuantity: 1,
		IsActive:      true,
	})

	// The second line fails validation, so the first line must leave
	// no trace: no order, no stock movement.
	_, err := svc.CreateOrder(context.Background(), orderRequest(
		models.OrderItemRequest{ProductID: goodID.Hex(), Quantity: 2},
		models.OrderItemRequest{ProductID: scarceID.Hex(), Quantity: 5},
	))
	require.Error(t, err)
	assert.Equal(t, "insufficient_stock", apperrors.CodeOf(err))

	assert.Equal(t, 10, store.product(goodID).StockQuantity)
	assert.Equal(t, 1, store.product(scarceID).StockQuantity)
	assert.Equal(t, 0, store.orderCount())
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	svc, store := newTestOrderService(0)
	productID := store.addProduct(models.Product{
		Name:          "One Of A Kind",
		Price:         5000,
		StockQuantity: 1,
		IsActive:      true,
	})

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(context.Background(), orderRequest(
				models.OrderItemRequest{ProductID: productID.Hex(), Quantity: 1},
			))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one order may win the last unit")
	assert.Equal(t, 1, store.orderCount())
	assert.Equal(t, 0, store.product(productID).StockQuantity)
}

func TestOrderSnapshotSurvivesProductEdit(t *testing.T) {
	svc, store := newTestOrderService(0)
	productID := store.addProduct(models.Product{
		Name:          "Beaded Bracelet",
		Price:         500,
		StockQuantity: 5,
		IsActive:      true,
	})

	order, err := svc.CreateOrder(context.Background(), orderRequest(
		models.OrderItemRequest{ProductID: productID.Hex(), Quantity: 1},
	))
	require.NoError(t, err)

	store.setPrice(productID, 9999)

	got, err := svc.GetOrder(context.Background(), order.ID.Hex())
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(500), got.Items[0].ProductPrice)
	assert.Equal(t, int64(500), got.Subtotal)
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _ := newTestOrderService(0)

	_, err := svc.GetOrder(context.Background(), "bad-hex")
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)

	_, err = svc.GetOrder(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func createTestOrder(t *testing.T, svc *services.OrderService, store *fakeCommerceStore) *models.OrderWithItems {
	t.Helper()
	productID := store.addProduct(models.Product{
		Name:          "Beaded Bracelet",
		Price:         500,
		StockQuantity: 100,
		IsActive:      true,
	})
	order, err := svc.CreateOrder(context.Background(), orderRequest(
		models.OrderItemRequest{ProductID: productID.Hex(), Quantity: 1},
	))
	require.NoError(t, err)
	return order
}

func TestUpdateStatusFollowsTransitionGraph(t *testing.T) {
	svc, store := newTestOrderService(0)
	order := createTestOrder(t, svc, store)
	id := order.ID.Hex()

	for _, next := range []string{"processing", "shipped", "delivered"} {
		ok, err := svc.UpdateStatus(context.Background(), id, next)
		require.NoError(t, err, "transition to %s", next)
		assert.True(t, ok)
	}

	// delivered is terminal.
	_, err := svc.UpdateStatus(context.Background(), id, "pending")
	require.Error(t, err)
	assert.Equal(t, "invalid_status_transition", apperrors.CodeOf(err))

	// Repeating the current status is a no-op, not an error.
	ok, err := svc.UpdateStatus(context.Background(), id, "delivered")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateStatusRejectsSkippedStep(t *testing.T) {
	svc, store := newTestOrderService(0)
	order := createTestOrder(t, svc, store)

	_, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), "shipped")
	require.Error(t, err)
	assert.Equal(t, "invalid_status_transition", apperrors.CodeOf(err))

	_, err = svc.UpdateStatus(context.Background(), order.ID.Hex(), "sideways")
	require.Error(t, err)
	assert.Equal(t, "invalid_status", apperrors.CodeOf(err))
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _ := newTestOrderService(0)

	ok, err := svc.UpdateStatus(context.Background(), "bad-hex", "processing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), "processing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdatePaymentStatus(t *testing.T) {
	svc, store := newTestOrderService(0)
	order := createTestOrder(t, svc, store)
	id := order.ID.Hex()

	ok, err := svc.UpdatePaymentStatus(context.Background(), id, "paid", "pay_123")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, got.PaymentStatus)
	assert.Equal(t, "pay_123", got.PaymentID)

	// An empty payment id must not clear the stored one.
	ok, err = svc.UpdatePaymentStatus(context.Background(), id, "refunded", "")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = svc.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, got.PaymentStatus)
	assert.Equal(t, "pay_123", got.PaymentID)

	_, err = svc.UpdatePaymentStatus(context.Background(), id, "bogus", "")
	require.Error(t, err)
	assert.Equal(t, "invalid_payment_status", apperrors.CodeOf(err))
}

func TestListByStatusValidatesEnum(t *testing.T) {
	svc, store := newTestOrderService(0)
	createTestOrder(t, svc, store)

	orders, err := svc.ListByStatus(context.Background(), "pending")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = svc.ListByStatus(context.Background(), "bogus")
	require.Error(t, err)
	assert.Equal(t, "invalid_status", apperrors.CodeOf(err))
}

func TestOrderStatsCountsPaidRevenueOnly(t *testing.T) {
	svc, store := newTestOrderService(0)
	first := createTestOrder(t, svc, store)
	second := createTestOrder(t, svc, store)
	createTestOrder(t, svc, store)

	_, err := svc.UpdatePaymentStatus(context.Background(), first.ID.Hex(), "paid", "")
	require.NoError(t, err)

	for _, next := range []string{"processing", "shipped", "delivered"} {
		_, err := svc.UpdateStatus(context.Background(), second.ID.Hex(), next)
		require.NoError(t, err)
	}

	stats, err := svc.GetOrderStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.CompletedOrders)
	assert.Equal(t, first.TotalAmount, stats.TotalRevenue)
}
