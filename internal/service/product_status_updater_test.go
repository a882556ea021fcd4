package service

import (
	"context"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/memory"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductStatusUpdater_FollowsOrderLifecycle(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.SeedDataset())
	catalog := NewCatalogService(repos.Products, repos.Shops, repos.Users, nil, time.Minute, nil, &NoOpLogger{})
	ledger := NewOrderLedger(repos.Orders, testProtectionRate, nil, &NoOpLogger{})
	ledger.Subscribe(NewProductStatusUpdater(catalog, &NoOpLogger{}))

	productStatus := func() entity.ProductStatus {
		p, err := repos.Products.GetByID(ctx, "prod2")
		require.NoError(t, err)
		return p.Status
	}

	product, err := catalog.GetProduct(ctx, "prod2")
	require.NoError(t, err)
	order, err := ledger.CreateOrder(ctx, CreateOrderParams{
		BuyerID:      "user2",
		Product:      *product,
		SellerShopID: "shop1",
		Quantity:     1,
		ShippingFee:  decimal.RequireFromString("60"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductReserved, productStatus())

	for _, step := range []struct {
		role   entity.ActorRole
		target entity.OrderStatus
	}{
		{entity.RoleBuyer, entity.StatusPaid},
		{entity.RoleSeller, entity.StatusShipped},
		{entity.RoleBuyer, entity.StatusDelivered},
	} {
		_, err := ledger.AdvanceStatus(ctx, order.ID, step.role, step.target)
		require.NoError(t, err)
		assert.Equal(t, entity.ProductReserved, productStatus())
	}

	_, err = ledger.AdvanceStatus(ctx, order.ID, entity.RoleBuyer, entity.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductSold, productStatus())
}

func TestProductStatusUpdater_CancellationReleasesItem(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.SeedDataset())
	catalog := NewCatalogService(repos.Products, repos.Shops, repos.Users, nil, time.Minute, nil, &NoOpLogger{})
	ledger := NewOrderLedger(repos.Orders, testProtectionRate, nil, &NoOpLogger{})
	ledger.Subscribe(NewProductStatusUpdater(catalog, &NoOpLogger{}))

	product, err := catalog.GetProduct(ctx, "prod3")
	require.NoError(t, err)
	order, err := ledger.CreateOrder(ctx, CreateOrderParams{
		BuyerID:      "user1",
		Product:      *product,
		SellerShopID: "shop2",
		Quantity:     1,
		ShippingFee:  decimal.RequireFromString("60"),
	})
	require.NoError(t, err)

	_, err = ledger.AdvanceStatus(ctx, order.ID, entity.RoleSeller, entity.StatusCancelled)
	require.NoError(t, err)

	stored, err := repos.Products.GetByID(ctx, "prod3")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductAvailable, stored.Status)
}

func TestProductStatusUpdater_ReservesOnlyWholeStock(t *testing.T) {
	tests := []struct {
		name     string
		ordered  int
		expected entity.ProductStatus
	}{
		{name: "part of the stock", ordered: 1, expected: entity.ProductAvailable},
		{name: "whole stock", ordered: 3, expected: entity.ProductReserved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repos := memory.NewRepositories(memory.SeedDataset())
			catalog := NewCatalogService(repos.Products, repos.Shops, repos.Users, nil, time.Minute, nil, &NoOpLogger{})
			updater := NewProductStatusUpdater(catalog, &NoOpLogger{})

			multi, err := repos.Products.GetByID(ctx, "prod1")
			require.NoError(t, err)
			multi.ID = "prod-multi"
			multi.Quantity = 3
			require.NoError(t, repos.Products.Create(ctx, multi))

			err = updater.OnOrderEvent(ctx, entity.OrderEvent{
				Type:      entity.EventOrderCreated,
				OrderID:   "order-multi",
				ProductID: "prod-multi",
				Quantity:  tt.ordered,
				To:        entity.StatusPendingPayment,
			})
			require.NoError(t, err)

			stored, err := repos.Products.GetByID(ctx, "prod-multi")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stored.Status)
		})
	}
}

func TestProductStatusUpdater_LeavesHiddenProductsAlone(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.SeedDataset())
	catalog := NewCatalogService(repos.Products, repos.Shops, repos.Users, nil, time.Minute, nil, &NoOpLogger{})
	updater := NewProductStatusUpdater(catalog, &NoOpLogger{})

	require.NoError(t, repos.Products.UpdateStatus(ctx, "prod1", entity.ProductHidden))

	err := updater.OnOrderEvent(ctx, entity.OrderEvent{
		Type:      entity.EventOrderStatusChanged,
		OrderID:   "order2",
		ProductID: "prod1",
		From:      entity.StatusPaid,
		To:        entity.StatusCancelled,
	})
	require.NoError(t, err)

	stored, err := repos.Products.GetByID(ctx, "prod1")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductHidden, stored.Status)
}

func TestProductStatusUpdater_UnknownProduct(t *testing.T) {
	repos := memory.NewRepositories(memory.SeedDataset())
	catalog := NewCatalogService(repos.Products, repos.Shops, repos.Users, nil, time.Minute, nil, &NoOpLogger{})
	updater := NewProductStatusUpdater(catalog, &NoOpLogger{})

	err := updater.OnOrderEvent(context.Background(), entity.OrderEvent{
		Type:      entity.EventOrderCreated,
		OrderID:   "orderX",
		ProductID: "prod404",
		To:        entity.StatusPendingPayment,
	})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
