package store

import (
	"context"
	"sync"

	"github.com/JonMunkholm/stockimport/internal/catalog"
)

// Memory keeps inserted products in order. Reject, when set, is consulted
// before each insert and its error is returned instead of storing.
type Memory struct {
	mu       sync.Mutex
	products []catalog.Product

	Reject func(catalog.Product) error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Insert appends p unless Reject refuses it.
func (m *Memory) Insert(ctx context.Context, p catalog.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Reject != nil {
		if err := m.Reject(p); err != nil {
			return err
		}
	}
	m.products = append(m.products, p)
	return nil
}

// Products returns a copy of everything inserted so far.
func (m *Memory) Products() []catalog.Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]catalog.Product, len(m.products))
	copy(out, m.products)
	return out
}

// Len returns the number of stored products.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.products)
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
