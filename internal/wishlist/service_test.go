package wishlist

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIsIdempotent(t *testing.T) {
	s := NewService()

	s.Add("u1", Item{ProductID: "p1", Name: "Mug", Price: decimal.NewFromInt(10)})
	items := s.Add("u1", Item{ProductID: "p1", Name: "Mug", Price: decimal.NewFromInt(10)})

	assert.Len(t, items, 1)
}

func TestRemove(t *testing.T) {
	s := NewService()
	s.Add("u1", Item{ProductID: "p1"})
	s.Add("u1", Item{ProductID: "p2"})

	items, err := s.Remove("u1", "p1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	_, err = s.Remove("u1", "p1")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestListsAreScopedPerUser(t *testing.T) {
	s := NewService()
	s.Add("u1", Item{ProductID: "p1"})

	assert.Empty(t, s.List("u2"))
	assert.Len(t, s.List("u1"), 1)
}
