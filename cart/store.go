// Package cart keeps each session's shopping cart outside the relational
// store. A cart is a product id to quantity mapping that expires after a
// period without writes.
package cart

import (
	"context"
	"sync"
	"time"

	"holoholo/models"
)

// Store holds carts keyed by session.
type Store interface {
	Get(ctx context.Context, session string) (models.Cart, error)
	// Increment adds qty to the entry, creating it when missing.
	Increment(ctx context.Context, session, productID string, qty int) error
	Set(ctx context.Context, session, productID string, qty int) error
	Remove(ctx context.Context, session, productID string) error
	Clear(ctx context.Context, session string) error
}

type memoryCart struct {
	items     models.Cart
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Carts do not survive a restart.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	carts map[string]*memoryCart
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:   ttl,
		carts: make(map[string]*memoryCart),
		now:   time.Now,
	}
}

// live returns the session's cart, dropping it first if it has expired.
func (s *MemoryStore) live(session string) *memoryCart {
	c, ok := s.carts[session]
	if !ok {
		return nil
	}
	if s.ttl > 0 && !s.now().Before(c.expiresAt) {
		delete(s.carts, session)
		return nil
	}
	return c
}

func (s *MemoryStore) writable(session string) *memoryCart {
	c := s.live(session)
	if c == nil {
		c = &memoryCart{items: models.Cart{}}
		s.carts[session] = c
	}
	c.expiresAt = s.now().Add(s.ttl)
	return c
}

func (s *MemoryStore) Get(_ context.Context, session string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := models.Cart{}
	if c := s.live(session); c != nil {
		for k, v := range c.items {
			out[k] = v
		}
	}
	return out, nil
}

func (s *MemoryStore) Increment(_ context.Context, session, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writable(session).items[productID] += qty
	return nil
}

func (s *MemoryStore) Set(_ context.Context, session, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writable(session).items[productID] = qty
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, session, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.live(session); c != nil {
		delete(c.items, productID)
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, session)
	return nil
}
