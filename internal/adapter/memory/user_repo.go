package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
)

// UserRepository holds user records. It is also the authoritative favorites
// store: ConfirmToggleFavorite mutates the stored user's favorites.
type UserRepository struct {
	mu      sync.RWMutex
	users   map[string]*entity.User
	latency time.Duration
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.FavoriteStore  = (*UserRepository)(nil)
)

type UserRepositoryOption func(*UserRepository)

// WithLatency delays every favorites confirmation, honouring context
// cancellation.
func WithLatency(d time.Duration) UserRepositoryOption {
	return func(r *UserRepository) { r.latency = d }
}

func NewUserRepository(seed []entity.User, opts ...UserRepositoryOption) *UserRepository {
	r := &UserRepository{users: make(map[string]*entity.User, len(seed))}
	for i := range seed {
		u := seed[i].Clone()
		r.users[u.ID] = &u
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := u.Clone()
	return &out, nil
}

func (r *UserRepository) FindByCredential(ctx context.Context, identifier string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.MatchesCredential(identifier) {
			out := u.Clone()
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) ConfirmToggleFavorite(ctx context.Context, userID, productID string) (bool, error) {
	if r.latency > 0 {
		timer := time.NewTimer(r.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, repository.ErrNotFound
	}
	for i, id := range u.Favorites {
		if id == productID {
			u.Favorites = append(u.Favorites[:i], u.Favorites[i+1:]...)
			return false, nil
		}
	}
	u.Favorites = append(u.Favorites, productID)
	return true, nil
}

func (r *UserRepository) ListByUserID(ctx context.Context, userID string) ([]string, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Favorites, nil
}
