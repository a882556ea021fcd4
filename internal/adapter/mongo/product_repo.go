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

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) repository.ProductRepository {
	return &productRepository{collection: db.Collection(productsCollection)}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	doc, err := toProductDocument(product, time.Now().UTC())
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("product %s: %w", product.ID, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, productID string) (*entity.Product, error) {
	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": productID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	return toDomainProduct(&doc)
}

// List returns the newest listings first.
func (r *productRepository) List(ctx context.Context, params repository.ListProductsParams) ([]entity.Product, error) {
	filter := bson.M{}
	if params.ShopID != "" {
		filter["shop_id"] = params.ShopID
	}
	if params.Status != "" {
		filter["status"] = string(params.Status)
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed products: %w", err)
	}

	products := make([]entity.Product, 0, len(docs))
	for i := range docs {
		p, err := toDomainProduct(&docs[i])
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

func (r *productRepository) UpdateStatus(ctx context.Context, productID string, status entity.ProductStatus) error {
	return r.update(ctx, productID, bson.M{"$set": bson.M{"status": string(status)}})
}

func (r *productRepository) AddImage(ctx context.Context, productID, imageURL string) error {
	return r.update(ctx, productID, bson.M{"$push": bson.M{"images": imageURL}})
}

func (r *productRepository) update(ctx context.Context, productID string, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": productID}, update)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", productID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
