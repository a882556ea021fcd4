package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*entity.Order
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(seed ...entity.Order) *OrderRepository {
	r := &OrderRepository{orders: make(map[string]*entity.Order, len(seed))}
	for i := range seed {
		r.orders[seed[i].ID] = seed[i].Clone()
	}
	return r
}

func (r *OrderRepository) PersistOrder(ctx context.Context, order *entity.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("order %s: %w", order.ID, repository.ErrAlreadyExists)
	}
	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *OrderRepository) PersistStatusChange(ctx context.Context, params repository.UpdateOrderStatusParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[params.OrderID]
	if !ok {
		return repository.ErrNotFound
	}
	if o.Version != params.Version {
		return repository.ErrOptimisticLock
	}
	o.Status = params.Status
	o.UpdatedAt = time.Now().UTC()
	o.Version++
	return nil
}

// List returns matching orders newest first.
func (r *OrderRepository) List(ctx context.Context, params repository.ListOrdersParams) ([]entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]entity.Order, 0)
	for _, o := range r.orders {
		if params.BuyerID != "" && o.BuyerID != params.BuyerID {
			continue
		}
		if params.SellerShopID != "" && o.SellerShopID != params.SellerShopID {
			continue
		}
		out = append(out, *o.Clone())
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
