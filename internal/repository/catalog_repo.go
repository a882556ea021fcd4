package repository

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
)

type ListProductsParams struct {
	ShopID string
	Status entity.ProductStatus
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, productID string) (*entity.Product, error)
	List(ctx context.Context, params ListProductsParams) ([]entity.Product, error)
	UpdateStatus(ctx context.Context, productID string, status entity.ProductStatus) error
	AddImage(ctx context.Context, productID, imageURL string) error
}

type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*entity.User, error)
	FindByCredential(ctx context.Context, identifier string) (*entity.User, error)
}

type ShopRepository interface {
	GetByID(ctx context.Context, shopID string) (*entity.Shop, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Shop, error)
}

// ProductCache is a read-through cache in front of ProductRepository.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*entity.Product, error)
	Set(ctx context.Context, product *entity.Product, ttl time.Duration) error
	Delete(ctx context.Context, productID string) error
}
