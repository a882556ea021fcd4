package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDataset_OrdersAreConsistent(t *testing.T) {
	for _, o := range SeedDataset().Orders {
		assert.True(t, o.Pricing().Consistent(), o.ID)
	}
}

func TestSeedDataset_FreshCopies(t *testing.T) {
	a := SeedDataset()
	a.Users[0].Favorites[0] = "changed"
	b := SeedDataset()
	assert.Equal(t, "prod3", b.Users[0].Favorites[0])
}

func TestOrderRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(SeedDataset().Orders...)

	buyerOrders, err := repo.List(ctx, repository.ListOrdersParams{BuyerID: "user2"})
	require.NoError(t, err)
	require.Len(t, buyerOrders, 2)
	assert.Equal(t, "order2", buyerOrders[0].ID, "newest first")
	assert.Equal(t, "order1", buyerOrders[1].ID)

	sellerOrders, err := repo.List(ctx, repository.ListOrdersParams{SellerShopID: "shop1"})
	require.NoError(t, err)
	require.Len(t, sellerOrders, 1)
	assert.Equal(t, "order2", sellerOrders[0].ID)

	none, err := repo.List(ctx, repository.ListOrdersParams{BuyerID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestOrderRepository_PersistStatusChange(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(SeedDataset().Orders...)

	err := repo.PersistStatusChange(ctx, repository.UpdateOrderStatusParams{OrderID: "order2", Status: entity.StatusDelivered, Version: 1})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "order2")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, got.Status)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, "809.95", got.TotalPrice.StringFixed(2))

	err = repo.PersistStatusChange(ctx, repository.UpdateOrderStatusParams{OrderID: "order2", Status: entity.StatusCompleted, Version: 1})
	assert.True(t, errors.Is(err, repository.ErrOptimisticLock))

	err = repo.PersistStatusChange(ctx, repository.UpdateOrderStatusParams{OrderID: "missing", Status: entity.StatusPaid, Version: 1})
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestOrderRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(SeedDataset().Orders...)

	got, err := repo.GetByID(ctx, "order1")
	require.NoError(t, err)
	got.Status = entity.StatusDisputed

	again, err := repo.GetByID(ctx, "order1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, again.Status)
}

func TestOrderRepository_PersistOrderDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(SeedDataset().Orders...)
	o := SeedDataset().Orders[0]
	err := repo.PersistOrder(ctx, &o)
	assert.True(t, errors.Is(err, repository.ErrAlreadyExists))
}

func TestProductRepository_ListAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(SeedDataset().Products...)

	available, err := repo.List(ctx, repository.ListProductsParams{Status: entity.ProductAvailable})
	require.NoError(t, err)
	assert.Len(t, available, 3)

	shop2, err := repo.List(ctx, repository.ListProductsParams{ShopID: "shop2"})
	require.NoError(t, err)
	assert.Len(t, shop2, 2)

	require.NoError(t, repo.UpdateStatus(ctx, "prod1", entity.ProductReserved))
	p, err := repo.GetByID(ctx, "prod1")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductReserved, p.Status)

	require.NoError(t, repo.AddImage(ctx, "prod1", "https://cdn.example.com/prod1/3.jpg"))
	p, err = repo.GetByID(ctx, "prod1")
	require.NoError(t, err)
	assert.Len(t, p.Images, 3)

	assert.True(t, errors.Is(repo.UpdateStatus(ctx, "nope", entity.ProductSold), repository.ErrNotFound))
}

func TestProductRepository_CreateListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(SeedDataset().Products...)

	p := entity.Product{ID: "prod5", ShopID: "shop1", Condition: entity.ConditionNew, Status: entity.ProductAvailable}
	require.NoError(t, repo.Create(ctx, &p))

	all, err := repo.List(ctx, repository.ListProductsParams{})
	require.NoError(t, err)
	assert.Equal(t, "prod5", all[0].ID)
}

func TestUserRepository_FindByCredential(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(SeedDataset().Users)

	u, err := repo.FindByCredential(ctx, "0821234567")
	require.NoError(t, err)
	assert.Equal(t, "user1", u.ID)

	u, err = repo.FindByCredential(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user2", u.ID)

	_, err = repo.FindByCredential(ctx, "ghost@example.com")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestUserRepository_ConfirmToggleFavorite(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(SeedDataset().Users)

	on, err := repo.ConfirmToggleFavorite(ctx, "user2", "prod1")
	require.NoError(t, err)
	assert.True(t, on)

	favs, err := repo.ListByUserID(ctx, "user2")
	require.NoError(t, err)
	assert.Equal(t, []string{"prod1"}, favs)

	on, err = repo.ConfirmToggleFavorite(ctx, "user2", "prod1")
	require.NoError(t, err)
	assert.False(t, on)

	_, err = repo.ConfirmToggleFavorite(ctx, "ghost", "prod1")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestUserRepository_ConfirmToggleFavoriteHonoursDeadline(t *testing.T) {
	repo := NewUserRepository(SeedDataset().Users, WithLatency(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := repo.ConfirmToggleFavorite(ctx, "user2", "prod1")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	favs, err := repo.ListByUserID(context.Background(), "user2")
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestShopRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewShopRepository(SeedDataset().Shops...)

	s, err := repo.GetBySlug(ctx, "retro-threads")
	require.NoError(t, err)
	assert.Equal(t, "shop1", s.ID)

	s, err = repo.GetByID(ctx, "shop2")
	require.NoError(t, err)
	assert.Equal(t, "Chic Finds", s.Name)

	_, err = repo.GetByID(ctx, "shop9")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
