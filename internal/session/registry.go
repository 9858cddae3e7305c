package session

import (
	"errors"
	"sync"

	"github.com/example/ec-storefront/internal/domain/cart"
)

var ErrMissingSession = errors.New("session id is required")

// Registry hands each session its own cart.
type Registry struct {
	mu      sync.RWMutex
	catalog cart.Catalog
	carts   map[string]*cart.Cart // sessionID -> cart
}

func NewRegistry(catalog cart.Catalog) *Registry {
	return &Registry{
		catalog: catalog,
		carts:   make(map[string]*cart.Cart),
	}
}

// Cart returns the session's cart, creating it on first use.
func (r *Registry) Cart(sessionID string) (*cart.Cart, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}

	r.mu.RLock()
	c, ok := r.carts[sessionID]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[sessionID]; ok {
		return c, nil
	}
	c = cart.New(r.catalog)
	r.carts[sessionID] = c
	return c, nil
}

// Peek returns the session's cart without creating one.
func (r *Registry) Peek(sessionID string) (*cart.Cart, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[sessionID]
	return c, ok
}

// Drop forgets the session and its cart.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}
