package store

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// CartStore keeps the quantity per product in memory. It is safe for concurrent use;
// every method is atomic with respect to all others.
type CartStore struct {
	mu    sync.RWMutex
	items map[string]int
	// total is the sum of all quantities and never exceeds math.MaxInt
	total int
}

func New() *CartStore {
	return &CartStore{
		items: map[string]int{},
	}
}

// AddItem increments the quantity of productID, creating the entry on first use.
func (s *CartStore) AddItem(productID string, quantity int) (Entry, error) {
	err := validate(productID, quantity)
	if err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.total > math.MaxInt-quantity {
		return Entry{}, fmt.Errorf("%w: adding %d to product %s would overflow the cart total", ErrInvalidArgument, quantity, productID)
	}
	current := s.items[productID]
	s.items[productID] = current + quantity
	s.total += quantity

	return Entry{ProductID: productID, Quantity: current + quantity}, nil
}

func (s *CartStore) Get(productID string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quantity, found := s.items[productID]
	if !found {
		return Entry{}, false
	}
	return Entry{ProductID: productID, Quantity: quantity}, true
}

// GetAll returns a snapshot in no particular order.
func (s *CartStore) GetAll() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot()
}

// SetQuantity replaces the quantity of an existing product. When the product is absent
// found is false and nothing changes.
func (s *CartStore) SetQuantity(productID string, quantity int) (entry Entry, found bool, err error) {
	err = validate(productID, quantity)
	if err != nil {
		return Entry{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, found := s.items[productID]
	if !found {
		return Entry{}, false, nil
	}
	if s.total-current > math.MaxInt-quantity {
		return Entry{}, true, fmt.Errorf("%w: quantity %d for product %s would overflow the cart total", ErrInvalidArgument, quantity, productID)
	}
	s.items[productID] = quantity
	s.total += quantity - current

	return Entry{ProductID: productID, Quantity: quantity}, true, nil
}

// RemoveItem reports whether the product was present.
func (s *CartStore) RemoveItem(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	quantity, found := s.items[productID]
	if found {
		delete(s.items, productID)
		s.total -= quantity
	}
	return found
}

func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.items)
	s.total = 0
}

// TakeAll empties the cart and returns what was in it, as one atomic step.
func (s *CartStore) TakeAll() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.snapshot()
	clear(s.items)
	s.total = 0

	return entries
}

func (s *CartStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

func (s *CartStore) TotalQuantity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.total
}

// snapshot must be called with the lock held.
func (s *CartStore) snapshot() []Entry {
	entries := make([]Entry, 0, len(s.items))
	for productID, quantity := range s.items {
		entries = append(entries, Entry{ProductID: productID, Quantity: quantity})
	}
	return entries
}

func validate(productID string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return fmt.Errorf("%w: product id cannot be empty", ErrInvalidArgument)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidArgument, quantity)
	}
	return nil
}
