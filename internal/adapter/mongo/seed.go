package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/memory"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedIfEmpty loads ds into the database unless it already holds users. It
// reports whether anything was written.
func SeedIfEmpty(ctx context.Context, db *mongo.Database, ds memory.Dataset) (bool, error) {
	count, err := db.Collection(usersCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	users := make([]interface{}, 0, len(ds.Users))
	for i := range ds.Users {
		doc, err := toUserDocument(&ds.Users[i])
		if err != nil {
			return false, err
		}
		users = append(users, doc)
	}

	shops := make([]interface{}, 0, len(ds.Shops))
	for i := range ds.Shops {
		shops = append(shops, toShopDocument(&ds.Shops[i]))
	}

	// Earlier entries get later timestamps so listings keep the dataset order.
	base := time.Now().UTC()
	products := make([]interface{}, 0, len(ds.Products))
	for i := range ds.Products {
		doc, err := toProductDocument(&ds.Products[i], base.Add(-time.Duration(i)*time.Second))
		if err != nil {
			return false, err
		}
		products = append(products, doc)
	}

	orders := make([]interface{}, 0, len(ds.Orders))
	for i := range ds.Orders {
		doc, err := toOrderDocument(&ds.Orders[i])
		if err != nil {
			return false, err
		}
		orders = append(orders, doc)
	}

	for collection, docs := range map[string][]interface{}{
		usersCollection:    users,
		shopsCollection:    shops,
		productsCollection: products,
		ordersCollection:   orders,
	} {
		if len(docs) == 0 {
			continue
		}
		if _, err := db.Collection(collection).InsertMany(ctx, docs); err != nil {
			return false, fmt.Errorf("failed to seed %s: %w", collection, err)
		}
	}
	return true, nil
}
