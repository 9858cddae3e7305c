package catalog

import (
	"errors"
	"fmt"
	"sync"
)

// AllCategories is the category sentinel that disables category filtering.
const AllCategories = "All"

var (
	ErrNotFound     = errors.New("catalog item not found")
	ErrNotLoaded    = errors.New("catalog not loaded")
	ErrDuplicateID  = errors.New("duplicate catalog item id")
	ErrInvalidID    = errors.New("catalog item id is required")
	ErrInvalidPrice = errors.New("unit price must not be negative")
)

// Item is a purchasable menu entry. Items are never mutated after load.
type Item struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	UnitPrice   int64  `json:"unit_price" yaml:"unit_price"`
	Description string `json:"description" yaml:"description"`
	ImageRef    string `json:"image_ref" yaml:"image_ref"`
	Category    string `json:"category" yaml:"category"`
}

// Store holds the catalog. Load swaps the whole content at once.
type Store struct {
	mu     sync.RWMutex
	items  []Item
	byID   map[string]int // id -> index into items
	loaded bool
}

func NewStore() *Store {
	return &Store{byID: make(map[string]int)}
}

// Load replaces the store content. Invalid input leaves the previous content in place.
func (s *Store) Load(items []Item) error {
	next := make([]Item, len(items))
	index := make(map[string]int, len(items))
	for i, item := range items {
		if item.ID == "" {
			return fmt.Errorf("item %d: %w", i, ErrInvalidID)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("item %s: %w", item.ID, ErrInvalidPrice)
		}
		if _, dup := index[item.ID]; dup {
			return fmt.Errorf("item %s: %w", item.ID, ErrDuplicateID)
		}
		index[item.ID] = i
		next[i] = item
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = next
	s.byID = index
	s.loaded = true
	return nil
}

// Get returns the item with the given id
func (s *Store) Get(id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.items[i], nil
}

// Items returns a copy of all items in load order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Loaded reports whether Load has succeeded at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Search filters the loaded catalog. It fails with ErrNotLoaded before the first Load,
// so callers can tell "nothing matched" apart from "nothing to match against".
func (s *Store) Search(criteria Criteria) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return Search(s.items, criteria), nil
}

// Categories lists distinct categories in first-seen order, led by AllCategories.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	categories := []string{AllCategories}
	for _, item := range s.items {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		categories = append(categories, item.Category)
	}
	return categories
}
