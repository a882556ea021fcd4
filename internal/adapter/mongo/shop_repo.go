package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type shopRepository struct {
	collection *mongo.Collection
}

func NewShopRepository(db *mongo.Database) repository.ShopRepository {
	return &shopRepository{collection: db.Collection(shopsCollection)}
}

func (r *shopRepository) GetByID(ctx context.Context, shopID string) (*entity.Shop, error) {
	return r.findOne(ctx, bson.M{"_id": shopID})
}

func (r *shopRepository) GetBySlug(ctx context.Context, slug string) (*entity.Shop, error) {
	return r.findOne(ctx, bson.M{"shop_url_slug": slug})
}

func (r *shopRepository) findOne(ctx context.Context, filter bson.M) (*entity.Shop, error) {
	var doc shopDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shop: %w", err)
	}
	return toDomainShop(&doc), nil
}
