package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultReconcileTimeout = 3 * time.Second

// Reconciliation is the outcome of confirming one toggle with the
// authoritative store. Favorited is the local membership once the outcome has
// been applied.
type Reconciliation struct {
	UserID    string
	ProductID string
	Confirmed bool
	Favorited bool
	Err       error
}

// ToggleResult carries the local membership right after the flip. Reconciled
// receives exactly one value and is then closed.
type ToggleResult struct {
	Favorited  bool
	Reconciled <-chan Reconciliation
}

type FavoritesManager interface {
	IsFavorited(userID, productID string) bool
	ListFavorites(ctx context.Context, userID string) ([]string, error)
	ToggleFavorite(ctx context.Context, userID, productID string) (*ToggleResult, error)
	// Wait blocks until every in-flight reconciliation has settled.
	Wait()
}

// userFavorites is the local view of one user's set. pending counts the
// unreconciled toggles per product.
type userFavorites struct {
	mu      sync.Mutex
	ids     []string
	set     map[string]struct{}
	pending map[string]int
}

func newUserFavorites(ids []string) *userFavorites {
	f := &userFavorites{set: make(map[string]struct{}, len(ids)), pending: make(map[string]int)}
	for _, id := range ids {
		f.put(id, true)
	}
	return f
}

func (f *userFavorites) has(productID string) bool {
	_, ok := f.set[productID]
	return ok
}

func (f *userFavorites) put(productID string, member bool) {
	if member == f.has(productID) {
		return
	}
	if member {
		f.set[productID] = struct{}{}
		f.ids = append(f.ids, productID)
		return
	}
	delete(f.set, productID)
	for i, id := range f.ids {
		if id == productID {
			f.ids = append(f.ids[:i], f.ids[i+1:]...)
			break
		}
	}
}

// pendingToggle is what one invocation changed locally.
type pendingToggle struct {
	userID    string
	productID string
	pre       bool
	post      bool
}

type favoritesManager struct {
	store            repository.FavoriteStore
	productRepo      repository.ProductRepository
	reconcileTimeout time.Duration
	metrics          *metrics.Metrics
	log              logger.Logger

	mu    sync.RWMutex
	users map[string]*userFavorites

	inflight sync.WaitGroup
}

func NewFavoritesManager(
	store repository.FavoriteStore,
	productRepo repository.ProductRepository,
	reconcileTimeout time.Duration,
	m *metrics.Metrics,
	log logger.Logger,
) FavoritesManager {
	if reconcileTimeout <= 0 {
		reconcileTimeout = DefaultReconcileTimeout
	}
	return &favoritesManager{
		store:            store,
		productRepo:      productRepo,
		reconcileTimeout: reconcileTimeout,
		metrics:          m,
		log:              log,
		users:            make(map[string]*userFavorites),
	}
}

// IsFavorited only consults local state; users never loaded report false.
func (m *favoritesManager) IsFavorited(userID, productID string) bool {
	m.mu.RLock()
	f, ok := m.users[userID]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.has(productID)
}

func (m *favoritesManager) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	f, err := m.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.ids...), nil
}

func (m *favoritesManager) load(ctx context.Context, userID string) (*userFavorites, error) {
	m.mu.RLock()
	f, ok := m.users[userID]
	m.mu.RUnlock()
	if ok {
		return f, nil
	}

	ids, err := m.store.ListByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", entity.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load favorites for user %s: %w", userID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[userID]; ok {
		return existing, nil
	}
	f = newUserFavorites(ids)
	m.users[userID] = f
	return f, nil
}

func (m *favoritesManager) ToggleFavorite(ctx context.Context, userID, productID string) (*ToggleResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "FavoritesManager.ToggleFavorite")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("product.id", productID))

	m.log.Infof("Toggling favorite %s for user %s", productID, userID)

	f, err := m.load(ctx, userID)
	if err != nil {
		m.log.Warnf("Cannot toggle favorite for user %s: %v", userID, err)
		return nil, err
	}
	if _, err := m.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s", entity.ErrNotFound, productID)
		}
		return nil, fmt.Errorf("failed to look up product %s: %w", productID, err)
	}

	f.mu.Lock()
	pre := f.has(productID)
	f.put(productID, !pre)
	f.pending[productID]++
	f.mu.Unlock()

	toggle := pendingToggle{userID: userID, productID: productID, pre: pre, post: !pre}
	done := make(chan Reconciliation, 1)

	m.inflight.Add(1)
	go m.reconcile(context.WithoutCancel(ctx), f, toggle, done)

	return &ToggleResult{Favorited: toggle.post, Reconciled: done}, nil
}

func (m *favoritesManager) reconcile(parent context.Context, f *userFavorites, t pendingToggle, done chan<- Reconciliation) {
	defer m.inflight.Done()
	defer close(done)

	ctx, cancel := context.WithTimeout(parent, m.reconcileTimeout)
	defer cancel()

	start := time.Now()
	stored, err := m.store.ConfirmToggleFavorite(ctx, t.userID, t.productID)

	f.mu.Lock()
	f.pending[t.productID]--
	settled := f.pending[t.productID] == 0
	if settled {
		delete(f.pending, t.productID)
	}
	var current bool
	switch {
	case err != nil:
		current = f.undo(t)
	case settled && f.has(t.productID) != stored:
		// The store started from another state than the local view, e.g. a
		// change made from another device. The store wins.
		f.put(t.productID, stored)
		current = stored
		err = fmt.Errorf("store holds favorited=%t for %s after the toggle", stored, t.productID)
	default:
		current = f.has(t.productID)
	}
	f.mu.Unlock()

	m.metrics.FavoriteReconciled(err == nil, time.Since(start))

	if err == nil {
		m.log.Debugf("Favorite toggle %s for user %s confirmed", t.productID, t.userID)
		done <- Reconciliation{UserID: t.userID, ProductID: t.productID, Confirmed: true, Favorited: current}
		return
	}

	m.log.Warnf("Favorite toggle %s for user %s reverted: %v", t.productID, t.userID, err)
	done <- Reconciliation{
		UserID:    t.userID,
		ProductID: t.productID,
		Favorited: current,
		Err:       fmt.Errorf("%w: %v", entity.ErrReconciliationFailed, err),
	}
}

// undo reverts only t's flip and must be called with f.mu held. With no later
// toggle the member bit still equals t.post and goes back to t.pre. A later
// toggle has flipped it since, and undoing this flip on top of it keeps the
// later toggle's effect.
func (f *userFavorites) undo(t pendingToggle) bool {
	if f.has(t.productID) == t.post {
		f.put(t.productID, t.pre)
	} else {
		f.put(t.productID, !f.has(t.productID))
	}
	return f.has(t.productID)
}

func (m *favoritesManager) Wait() {
	m.inflight.Wait()
}
