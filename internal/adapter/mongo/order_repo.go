package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) repository.OrderRepository {
	return &orderRepository{collection: db.Collection(ordersCollection)}
}

func (r *orderRepository) PersistOrder(ctx context.Context, order *entity.Order) error {
	doc, err := toOrderDocument(order)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("order %s: %w", order.ID, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	var doc orderDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", orderID, err)
	}
	return toDomainOrder(&doc)
}

func (r *orderRepository) PersistStatusChange(ctx context.Context, params repository.UpdateOrderStatusParams) error {
	filter := bson.M{
		"_id":     params.OrderID,
		"version": params.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     string(params.Status),
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update order status for ID %s: %w", params.OrderID, err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	var existing orderDocument
	errFind := r.collection.FindOne(ctx, bson.M{"_id": params.OrderID}, options.FindOne().SetProjection(bson.M{"version": 1})).Decode(&existing)
	switch {
	case errors.Is(errFind, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case errFind == nil && existing.Version != params.Version:
		return repository.ErrOptimisticLock
	default:
		return repository.ErrUpdateFailed
	}
}

func (r *orderRepository) List(ctx context.Context, params repository.ListOrdersParams) ([]entity.Order, error) {
	filter := bson.M{}
	if params.BuyerID != "" {
		filter["buyer_id"] = params.BuyerID
	}
	if params.SellerShopID != "" {
		filter["seller_shop_id"] = params.SellerShopID
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed orders: %w", err)
	}

	orders := make([]entity.Order, 0, len(docs))
	for i := range docs {
		o, err := toDomainOrder(&docs[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}
