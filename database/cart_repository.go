package database

import (
	"context"
	"sync"
	"time"

	"storefront-service/models"
)

// CartRepository stores one cart per browser session. GetCart returns (nil, nil)
// when the session has no cart.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	cart      *models.Cart
	expiresAt time.Time
}

// MemoryCartRepository keeps carts in process memory. Carts expire ttl after
// their last save.
type MemoryCartRepository struct {
	mu    sync.Mutex
	carts map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryCartRepository(ttl time.Duration) *MemoryCartRepository {
	return &MemoryCartRepository{
		carts: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (r *MemoryCartRepository) GetCart(_ context.Context, sessionID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.carts[sessionID]
	if !ok {
		return nil, nil
	}
	if !r.now().Before(entry.expiresAt) {
		delete(r.carts, sessionID)
		return nil, nil
	}
	return entry.cart.Clone(), nil
}

func (r *MemoryCartRepository) SaveCart(_ context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cart.UpdatedAt = now
	r.carts[cart.SessionID] = memoryEntry{
		cart:      cart.Clone(),
		expiresAt: now.Add(r.ttl),
	}
	return nil
}

func (r *MemoryCartRepository) DeleteCart(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)
	return nil
}

// Cleanup drops expired carts and reports how many were removed.
func (r *MemoryCartRepository) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, entry := range r.carts {
		if !now.Before(entry.expiresAt) {
			delete(r.carts, id)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (r *MemoryCartRepository) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Cleanup()
			}
		}
	}()
}
