package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
)

// ProductRepository keeps insertion order so listings are stable; new
// products are listed first.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*entity.Product
	order    []string
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(seed ...entity.Product) *ProductRepository {
	r := &ProductRepository{products: make(map[string]*entity.Product, len(seed))}
	for i := range seed {
		p := seed[i].Clone()
		r.products[p.ID] = &p
		r.order = append(r.order, p.ID)
	}
	return r
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.products[product.ID]; exists {
		return fmt.Errorf("product %s: %w", product.ID, repository.ErrAlreadyExists)
	}
	p := product.Clone()
	r.products[p.ID] = &p
	r.order = append([]string{p.ID}, r.order...)
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, productID string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := p.Clone()
	return &out, nil
}

func (r *ProductRepository) List(ctx context.Context, params repository.ListProductsParams) ([]entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Product, 0, len(r.order))
	for _, id := range r.order {
		p := r.products[id]
		if params.ShopID != "" && p.ShopID != params.ShopID {
			continue
		}
		if params.Status != "" && p.Status != params.Status {
			continue
		}
		out = append(out, p.Clone())
	}
	return out, nil
}

func (r *ProductRepository) UpdateStatus(ctx context.Context, productID string, status entity.ProductStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	return nil
}

func (r *ProductRepository) AddImage(ctx context.Context, productID, imageURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Images = append(p.Images, imageURL)
	return nil
}
