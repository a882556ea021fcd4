package memory

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
)

type ShopRepository struct {
	shops map[string]entity.Shop
}

var _ repository.ShopRepository = (*ShopRepository)(nil)

// NewShopRepository is read-only after construction, so it needs no locking.
func NewShopRepository(seed ...entity.Shop) *ShopRepository {
	r := &ShopRepository{shops: make(map[string]entity.Shop, len(seed))}
	for _, s := range seed {
		r.shops[s.ID] = s
	}
	return r
}

func (r *ShopRepository) GetByID(ctx context.Context, shopID string) (*entity.Shop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, ok := r.shops[shopID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *ShopRepository) GetBySlug(ctx context.Context, slug string) (*entity.Shop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, s := range r.shops {
		if s.Slug == slug {
			out := s
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}
