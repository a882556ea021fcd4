package mongo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/memory"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testClient *mongo.Client

func TestMain(m *testing.M) {
	if os.Getenv("SKIP_DOCKER_TESTS") != "" {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil || pool.Client.Ping() != nil {
		log.Printf("Docker unavailable, mongo integration tests will be skipped")
		os.Exit(m.Run())
	}
	pool.MaxWait = 90 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=root",
			"MONGO_INITDB_ROOT_PASSWORD=password",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}

	uri := fmt.Sprintf("mongodb://root:password@%s/?authSource=admin", resource.GetHostPort("27017/tcp"))
	if err := pool.Retry(func() error {
		var errRetry error
		testClient, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if errRetry != nil {
			return errRetry
		}
		return testClient.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	code := m.Run()

	_ = testClient.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

// seededDatabase returns a fresh database per test.
func seededDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	if testClient == nil {
		t.Skip("MongoDB container not available")
	}
	ctx := context.Background()
	db := testClient.Database(fmt.Sprintf("marketplace_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	require.NoError(t, EnsureIndexes(ctx, db))
	seeded, err := SeedIfEmpty(ctx, db, memory.SeedDataset())
	require.NoError(t, err)
	require.True(t, seeded)

	seeded, err = SeedIfEmpty(ctx, db, memory.SeedDataset())
	require.NoError(t, err)
	require.False(t, seeded, "second seed is a no-op")
	return db
}

func TestOrderRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(seededDatabase(t))

	order, err := repo.GetByID(ctx, "order2")
	require.NoError(t, err)
	assert.Equal(t, "809.95", order.TotalPrice.StringFixed(2))
	assert.Equal(t, entity.StatusShipped, order.Status)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.PersistStatusChange(ctx, repository.UpdateOrderStatusParams{
		OrderID: "order2", Status: entity.StatusDelivered, Version: 1,
	}))
	err = repo.PersistStatusChange(ctx, repository.UpdateOrderStatusParams{
		OrderID: "order2", Status: entity.StatusDisputed, Version: 1,
	})
	assert.ErrorIs(t, err, repository.ErrOptimisticLock)
	err = repo.PersistStatusChange(ctx, repository.UpdateOrderStatusParams{
		OrderID: "missing", Status: entity.StatusDisputed, Version: 1,
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	order, err = repo.GetByID(ctx, "order2")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, order.Status)
	assert.Equal(t, 2, order.Version)

	product := memory.SeedDataset().Products[1]
	created, err := entity.NewOrder(entity.NewOrderParams{
		BuyerID:                "user2",
		Product:                product,
		SellerShopID:           "shop1",
		Quantity:               1,
		ShippingFee:            decimal.RequireFromString("60"),
		BuyerProtectionFeeRate: decimal.RequireFromString("0.06165"),
	})
	require.NoError(t, err)
	require.NoError(t, repo.PersistOrder(ctx, created))
	assert.ErrorIs(t, repo.PersistOrder(ctx, created), repository.ErrAlreadyExists)

	buyer, err := repo.List(ctx, repository.ListOrdersParams{BuyerID: "user2"})
	require.NoError(t, err)
	require.Len(t, buyer, 3)
	assert.Equal(t, created.ID, buyer[0].ID, "newest first")
	assert.True(t, buyer[0].TotalPrice.Equal(created.TotalPrice))

	seller, err := repo.List(ctx, repository.ListOrdersParams{SellerShopID: "shop2"})
	require.NoError(t, err)
	require.Len(t, seller, 1)
	assert.Equal(t, "order1", seller[0].ID)
}

func TestProductRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(seededDatabase(t))

	available, err := repo.List(ctx, repository.ListProductsParams{Status: entity.ProductAvailable})
	require.NoError(t, err)
	require.Len(t, available, 3)
	assert.Equal(t, "prod1", available[0].ID)

	require.NoError(t, repo.UpdateStatus(ctx, "prod1", entity.ProductReserved))
	require.NoError(t, repo.AddImage(ctx, "prod1", "http://cdn.local/x.jpg"))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "prod404", entity.ProductSold), repository.ErrNotFound)

	p, err := repo.GetByID(ctx, "prod1")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductReserved, p.Status)
	assert.Contains(t, p.Images, "http://cdn.local/x.jpg")
	assert.True(t, p.Price.Equal(decimal.RequireFromString("750")))
}

func TestUserRepository_ToggleFavorite_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(seededDatabase(t))

	favorited, err := repo.ConfirmToggleFavorite(ctx, "user1", "prod1")
	require.NoError(t, err)
	assert.True(t, favorited)

	favorited, err = repo.ConfirmToggleFavorite(ctx, "user1", "prod3")
	require.NoError(t, err)
	assert.False(t, favorited)

	favs, err := repo.ListByUserID(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, []string{"prod1"}, favs)

	_, err = repo.ConfirmToggleFavorite(ctx, "ghost", "prod1")
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	user, err := repo.FindByCredential(ctx, "0821234567")
	require.NoError(t, err)
	assert.Equal(t, "user1", user.ID)
	assert.Equal(t, "1250.00", user.WalletBalance.StringFixed(2))
}

func TestUserRepository_ConcurrentToggles_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(seededDatabase(t))

	// An even number of atomic flips always lands back on the start state.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ConfirmToggleFavorite(ctx, "user2", "prod2")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	favs, err := repo.ListByUserID(ctx, "user2")
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestShopRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewShopRepository(seededDatabase(t))

	shop, err := repo.GetBySlug(ctx, "retro-threads")
	require.NoError(t, err)
	assert.Equal(t, "shop1", shop.ID)

	_, err = repo.GetByID(ctx, "shop9")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
