package services

import (
	"context"
	"hash/fnv"
	"sync"

	apperrors "storefront-service/common/errors"
	"storefront-service/database"
	"storefront-service/models"
)

const sessionLockStripes = 64

// CartService applies cart operations to the cart of one session. Mutations of
// the same session are serialized so concurrent requests never lose an update.
type CartService struct {
	repo    database.CartRepository
	catalog *Catalog
	locks   [sessionLockStripes]sync.Mutex
}

func NewCartService(repo database.CartRepository, catalog *Catalog) *CartService {
	return &CartService{repo: repo, catalog: catalog}
}

func (s *CartService) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%sessionLockStripes]
}

// Get returns the session cart, or an empty one if the session has none yet.
func (s *CartService) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	cart, err := s.repo.GetCart(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServiceUnavailable, err)
	}
	if cart == nil {
		cart = models.NewCart(sessionID)
	}
	return cart, nil
}

func (s *CartService) update(ctx context.Context, sessionID string, fn func(*models.Cart)) (*models.Cart, error) {
	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	fn(cart)
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServiceUnavailable, err)
	}
	return cart, nil
}

// AddItem adds one unit of a menu item to the session cart.
func (s *CartService) AddItem(ctx context.Context, sessionID string, itemID int) (*models.Cart, error) {
	item, ok := s.catalog.Get(itemID)
	if !ok {
		return nil, apperrors.ErrItemNotFound
	}
	return s.update(ctx, sessionID, func(c *models.Cart) { c.Add(item) })
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, itemID int) (*models.Cart, error) {
	return s.update(ctx, sessionID, func(c *models.Cart) { c.Remove(itemID) })
}

func (s *CartService) SetQuantity(ctx context.Context, sessionID string, itemID, quantity int) (*models.Cart, error) {
	return s.update(ctx, sessionID, func(c *models.Cart) { c.SetQuantity(itemID, quantity) })
}

// Clear drops the session cart entirely.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.repo.DeleteCart(ctx, sessionID); err != nil {
		return apperrors.Wrap(apperrors.ErrServiceUnavailable, err)
	}
	return nil
}
