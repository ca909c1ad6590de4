// Package cart keeps per-user carts in memory for the session lifetime.
// Carts are not persisted; an order snapshot is taken at checkout.
package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/trendmart/storefront/internal/models"
)

var ErrItemNotFound = errors.New("cart item not found")

type Service struct {
	mu    sync.RWMutex
	carts map[string]*models.Cart // user_id -> cart
}

func NewService() *Service {
	return &Service{carts: make(map[string]*models.Cart)}
}

// Get returns a copy of the user's cart. Users without a cart get an empty one.
func (s *Service) Get(userID string) models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[userID]
	if !ok {
		return models.Cart{UserID: userID, Items: []models.CartItem{}}
	}
	return snapshot(cart)
}

// Add puts an item in the cart. If a line with the same product id already
// exists its quantity accumulates; price and name are refreshed from the
// incoming item.
func (s *Service) Add(userID string, item models.CartItem) (models.Cart, error) {
	if item.Quantity <= 0 {
		return models.Cart{}, errors.New("quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		cart = &models.Cart{UserID: userID}
		s.carts[userID] = cart
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			cart.Items[i].Price = item.Price
			cart.Items[i].Name = item.Name
			cart.UpdatedAt = time.Now()
			return snapshot(cart), nil
		}
	}

	cart.Items = append(cart.Items, item)
	cart.UpdatedAt = time.Now()
	return snapshot(cart), nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line.
func (s *Service) UpdateQuantity(userID, productID string, quantity int) (models.Cart, error) {
	if quantity <= 0 {
		return s.Remove(userID, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return models.Cart{}, ErrItemNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			cart.UpdatedAt = time.Now()
			return snapshot(cart), nil
		}
	}
	return models.Cart{}, ErrItemNotFound
}

// Remove deletes exactly the matching line, leaving the order of the
// remaining lines unchanged.
func (s *Service) Remove(userID, productID string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return models.Cart{}, ErrItemNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			cart.UpdatedAt = time.Now()
			return snapshot(cart), nil
		}
	}
	return models.Cart{}, ErrItemNotFound
}

// Clear drops the user's cart entirely, e.g. after a successful checkout or
// on logout.
func (s *Service) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

func snapshot(cart *models.Cart) models.Cart {
	out := *cart
	out.Items = make([]models.CartItem, len(cart.Items))
	copy(out.Items, cart.Items)
	return out
}
