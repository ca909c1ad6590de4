// Package wishlist keeps per-user wishlists in memory, mirroring the cart's
// session-scoped lifetime.
package wishlist

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var ErrItemNotFound = errors.New("wishlist item not found")

type Item struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	AddedAt   time.Time       `json:"added_at"`
}

type Service struct {
	mu    sync.RWMutex
	lists map[string][]Item // user_id -> items
}

func NewService() *Service {
	return &Service{lists: make(map[string][]Item)}
}

func (s *Service) List(userID string) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Item{}, s.lists[userID]...)
}

// Add puts the product on the wishlist. Adding a product already present is
// a no-op rather than an error.
func (s *Service) Add(userID string, item Item) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.lists[userID] {
		if existing.ProductID == item.ProductID {
			return append([]Item{}, s.lists[userID]...)
		}
	}
	item.AddedAt = time.Now()
	s.lists[userID] = append(s.lists[userID], item)
	return append([]Item{}, s.lists[userID]...)
}

func (s *Service) Remove(userID, productID string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.lists[userID]
	for i := range items {
		if items[i].ProductID == productID {
			s.lists[userID] = append(items[:i], items[i+1:]...)
			return append([]Item{}, s.lists[userID]...), nil
		}
	}
	return nil, ErrItemNotFound
}
