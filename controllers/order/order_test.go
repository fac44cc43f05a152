package orderControllers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/btttrangcfm09/e-commerce-website-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, models.SetupDatabase(db))

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return db, cleanup
}

func createTestUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{
		ID:    id,
		Email: id + "@example.com",
		Name:  "Test User",
	}).Error)
}

func createTestProduct(t *testing.T, db *gorm.DB, price float64, stock int) uint {
	t.Helper()
	product := models.Product{Name: "Widget", Price: price, Stock: stock}
	require.NoError(t, db.Create(&product).Error)
	return product.ID
}

func addToCart(t *testing.T, db *gorm.DB, userID string, productID uint, qty int) {
	t.Helper()
	var cart models.Cart
	require.NoError(t, db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:    cart.CartID,
		ProductID: productID,
		Quantity:  qty,
		AddedAt:   time.Now(),
	}).Error)
}

func productStock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	return product.Stock
}

func TestCreateOrderFromCart(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("converts cart into order and decrements stock", func(t *testing.T) {
		createTestUser(t, db, "buyer-1")
		productID := createTestProduct(t, db, 19.99, 5)
		addToCart(t, db, "buyer-1", productID, 3)

		orderID, err := CreateOrderFromCart(db, "buyer-1", "12 Main St, Springfield")
		require.NoError(t, err)
		require.NotZero(t, orderID)

		var order models.Order
		require.NoError(t, db.Preload("Items").First(&order, "id = ?", orderID).Error)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Equal(t, models.OrderPaymentPending, order.PaymentStatus)
		assert.InDelta(t, 19.99*3, order.TotalPrice, 1e-9)
		require.Len(t, order.Items, 1)
		assert.Equal(t, productID, order.Items[0].ProductID)
		assert.Equal(t, 3, order.Items[0].Quantity)
		assert.InDelta(t, 19.99, order.Items[0].UnitPrice, 1e-9)

		assert.Equal(t, 2, productStock(t, db, productID))

		// one SALE audit row per line
		var logs []models.InventoryLogEntry
		require.NoError(t, db.Where("product_id = ?", productID).Find(&logs).Error)
		require.Len(t, logs, 1)
		assert.Equal(t, models.InventoryChangeSale, logs[0].ChangeType)
		assert.Equal(t, 3, logs[0].Quantity)

		// cart is cleared but not deleted
		var cart models.Cart
		require.NoError(t, db.Preload("Items").Where("user_id = ?", "buyer-1").First(&cart).Error)
		assert.Empty(t, cart.Items)
	})

	t.Run("insufficient stock leaves no trace", func(t *testing.T) {
		createTestUser(t, db, "buyer-2")
		productID := createTestProduct(t, db, 10, 5)
		addToCart(t, db, "buyer-2", productID, 6)

		_, err := CreateOrderFromCart(db, "buyer-2", "12 Main St")
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, productID, stockErr.ProductID)

		assert.Equal(t, 5, productStock(t, db, productID))

		var orderCount int64
		require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", "buyer-2").Count(&orderCount).Error)
		assert.Zero(t, orderCount)

		var logCount int64
		require.NoError(t, db.Model(&models.InventoryLogEntry{}).Where("product_id = ?", productID).Count(&logCount).Error)
		assert.Zero(t, logCount)

		// cart untouched
		var cart models.Cart
		require.NoError(t, db.Preload("Items").Where("user_id = ?", "buyer-2").First(&cart).Error)
		assert.Len(t, cart.Items, 1)
	})

	t.Run("one short line rolls back the whole multi-item order", func(t *testing.T) {
		createTestUser(t, db, "buyer-3")
		okProduct := createTestProduct(t, db, 5, 10)
		shortProduct := createTestProduct(t, db, 7, 1)
		addToCart(t, db, "buyer-3", okProduct, 2)
		addToCart(t, db, "buyer-3", shortProduct, 4)

		_, err := CreateOrderFromCart(db, "buyer-3", "12 Main St")
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, shortProduct, stockErr.ProductID)

		// nothing applied, not even the satisfiable line
		assert.Equal(t, 10, productStock(t, db, okProduct))
		assert.Equal(t, 1, productStock(t, db, shortProduct))

		var orderCount int64
		require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", "buyer-3").Count(&orderCount).Error)
		assert.Zero(t, orderCount)

		var logCount int64
		require.NoError(t, db.Model(&models.InventoryLogEntry{}).
			Where("product_id IN ?", []uint{okProduct, shortProduct}).Count(&logCount).Error)
		assert.Zero(t, logCount)
	})

	t.Run("empty cart", func(t *testing.T) {
		createTestUser(t, db, "buyer-4")
		require.NoError(t, db.Create(&models.Cart{UserID: "buyer-4"}).Error)

		_, err := CreateOrderFromCart(db, "buyer-4", "12 Main St")
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("missing cart", func(t *testing.T) {
		createTestUser(t, db, "buyer-5")

		_, err := CreateOrderFromCart(db, "buyer-5", "12 Main St")
		assert.ErrorIs(t, err, ErrCartNotFound)
	})

	t.Run("blank shipping address", func(t *testing.T) {
		_, err := CreateOrderFromCart(db, "buyer-1", "   ")
		assert.ErrorIs(t, err, ErrShippingAddressRequired)
	})
}

func TestCreateOrderFromCart_ConcurrentCheckouts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, db, "racer-1")
	createTestUser(t, db, "racer-2")
	productID := createTestProduct(t, db, 10, 5)
	addToCart(t, db, "racer-1", productID, 3)
	addToCart(t, db, "racer-2", productID, 3)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, userID := range []string{"racer-1", "racer-2"} {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = CreateOrderFromCart(db, userID, "12 Main St")
		}(i, userID)
	}
	wg.Wait()

	// Exactly one wins; the loser serialized on the row lock, re-read the
	// reduced stock and failed.
	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		failed++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, productStock(t, db, productID))
}

func TestOrderTotalNotRecomputed(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, db, "buyer-1")
	productID := createTestProduct(t, db, 20, 10)
	addToCart(t, db, "buyer-1", productID, 2)

	orderID, err := CreateOrderFromCart(db, "buyer-1", "12 Main St")
	require.NoError(t, err)

	// live price changes after purchase
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", productID).
		Update("price", 35.0).Error)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, "id = ?", orderID).Error)
	assert.InDelta(t, 40.0, order.TotalPrice, 1e-9)

	var itemsTotal float64
	for _, it := range order.Items {
		itemsTotal += it.UnitPrice * float64(it.Quantity)
	}
	assert.InDelta(t, order.TotalPrice, itemsTotal, 1e-9)
}

func placeTestOrder(t *testing.T, db *gorm.DB, userID string) uint {
	t.Helper()
	productID := createTestProduct(t, db, 10, 100)
	addToCart(t, db, userID, productID, 1)
	orderID, err := CreateOrderFromCart(db, userID, "12 Main St")
	require.NoError(t, err)
	return orderID
}

func TestUpdateOrderStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, db, "buyer-1")
	orderID := placeTestOrder(t, db, "buyer-1")

	t.Run("valid transition writes history", func(t *testing.T) {
		newStatus, err := UpdateOrderStatus(db, orderID, "shipped", models.ActorAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusShipped, newStatus)

		var order models.Order
		require.NoError(t, db.First(&order, "id = ?", orderID).Error)
		assert.Equal(t, models.OrderStatusShipped, order.Status)

		var history []models.OrderStatusHistory
		require.NoError(t, db.Where("order_id = ?", orderID).Find(&history).Error)
		require.Len(t, history, 1)
		assert.Equal(t, models.OrderStatusShipped, history[0].Status)
		assert.Equal(t, models.ActorAdmin, history[0].Actor)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := UpdateOrderStatus(db, orderID, "teleported", models.ActorAdmin)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := UpdateOrderStatus(db, 999999, "shipped", models.ActorAdmin)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestCancelOrder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("cancel is idempotent", func(t *testing.T) {
		createTestUser(t, db, "buyer-1")
		orderID := placeTestOrder(t, db, "buyer-1")

		already, err := CancelOrder(db, orderID, "buyer-1")
		require.NoError(t, err)
		assert.False(t, already)

		var order models.Order
		require.NoError(t, db.First(&order, "id = ?", orderID).Error)
		assert.Equal(t, models.OrderStatusCanceled, order.Status)

		// second cancel reports alreadyCanceled and writes nothing further
		already, err = CancelOrder(db, orderID, "buyer-1")
		require.NoError(t, err)
		assert.True(t, already)

		var historyCount int64
		require.NoError(t, db.Model(&models.OrderStatusHistory{}).
			Where("order_id = ?", orderID).Count(&historyCount).Error)
		assert.EqualValues(t, 1, historyCount)
	})

	t.Run("cancel does not restock", func(t *testing.T) {
		createTestUser(t, db, "buyer-2")
		productID := createTestProduct(t, db, 10, 5)
		addToCart(t, db, "buyer-2", productID, 2)
		orderID, err := CreateOrderFromCart(db, "buyer-2", "12 Main St")
		require.NoError(t, err)
		require.Equal(t, 3, productStock(t, db, productID))

		_, err = CancelOrder(db, orderID, "buyer-2")
		require.NoError(t, err)
		assert.Equal(t, 3, productStock(t, db, productID))
	})

	t.Run("shipped order cannot be cancelled", func(t *testing.T) {
		createTestUser(t, db, "buyer-3")
		orderID := placeTestOrder(t, db, "buyer-3")
		_, err := UpdateOrderStatus(db, orderID, "shipped", models.ActorAdmin)
		require.NoError(t, err)

		_, err = CancelOrder(db, orderID, "buyer-3")
		assert.ErrorIs(t, err, ErrOrderProcessed)

		var order models.Order
		require.NoError(t, db.First(&order, "id = ?", orderID).Error)
		assert.Equal(t, models.OrderStatusShipped, order.Status)
	})

	t.Run("foreign order looks missing", func(t *testing.T) {
		createTestUser(t, db, "buyer-4")
		createTestUser(t, db, "intruder")
		orderID := placeTestOrder(t, db, "buyer-4")

		_, err := CancelOrder(db, orderID, "intruder")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestMapOrderStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    models.OrderStatus
		wantErr bool
	}{
		{"pending", models.OrderStatusPending, false},
		{"SHIPPED", models.OrderStatusShipped, false},
		{" delivered ", models.OrderStatusDelivered, false},
		{"canceled", models.OrderStatusCanceled, false},
		{"cancelled", models.OrderStatusCanceled, false}, // British spelling alias
		{"returned", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := mapOrderStatus(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidStatus, fmt.Sprintf("input %q", tc.in))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}
