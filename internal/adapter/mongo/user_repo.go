package mongo

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository also serves as the authoritative favorites store: the
// favorites array lives on the user document.
type UserRepository struct {
	collection *mongo.Collection
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.FavoriteStore  = (*UserRepository)(nil)
)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection(usersCollection)}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": userID})
}

func (r *UserRepository) FindByCredential(ctx context.Context, identifier string) (*entity.User, error) {
	if identifier == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"phone_number": identifier},
	}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return toDomainUser(&doc)
}

// toggleFavoritePipeline removes productID when present and appends it
// otherwise, in one atomic document update.
func toggleFavoritePipeline(productID string) mongo.Pipeline {
	current := bson.D{{Key: "$ifNull", Value: bson.A{"$favorites", bson.A{}}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "favorites", Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{productID, current}}}},
			{Key: "then", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: current},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", productID}}}},
			}}}},
			{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{current, bson.A{productID}}}}},
		}}}}}}},
	}
}

func (r *UserRepository) ConfirmToggleFavorite(ctx context.Context, userID, productID string) (bool, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"favorites": 1})

	var doc userDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": userID}, toggleFavoritePipeline(productID), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, repository.ErrNotFound
		}
		return false, fmt.Errorf("failed to toggle favorite %s for user %s: %w", productID, userID, err)
	}
	return slices.Contains(doc.Favorites, productID), nil
}

func (r *UserRepository) ListByUserID(ctx context.Context, userID string) ([]string, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}, options.FindOne().SetProjection(bson.M{"favorites": 1})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to list favorites for user %s: %w", userID, err)
	}
	if doc.Favorites == nil {
		return []string{}, nil
	}
	return doc.Favorites, nil
}
