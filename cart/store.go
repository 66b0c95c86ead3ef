package cart

import (
	"promptshop/catalog"
	"promptshop/pricing"
)

// Store holds the items a shopper intends to purchase. Items are unique by
// ID and kept in insertion order for display.
type Store struct {
	items []catalog.Item
}

// New returns an empty cart.
func New() *Store {
	return &Store{}
}

// Add appends item unless an item with the same ID is already present.
// It reports whether the item was added; duplicates are ignored.
func (s *Store) Add(item catalog.Item) bool {
	if s.Contains(item.ID) {
		return false
	}
	s.items = append(s.items, item)
	return true
}

// Remove deletes the item with the given ID. Missing IDs are a no-op.
func (s *Store) Remove(id string) bool {
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Contains(id string) bool {
	for _, item := range s.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Items returns a copy of the cart contents in insertion order.
func (s *Store) Items() []catalog.Item {
	out := make([]catalog.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) Clear() {
	s.items = nil
}

// Summary recomputes the price breakdown from the current contents.
func (s *Store) Summary() pricing.Summary {
	return Summarize(s.items)
}

// Summarize prices an arbitrary item list by discounted price.
func Summarize(items []catalog.Item) pricing.Summary {
	prices := make([]float64, len(items))
	for i, item := range items {
		prices[i] = item.DiscountPrice
	}
	return pricing.Compute(prices)
}
