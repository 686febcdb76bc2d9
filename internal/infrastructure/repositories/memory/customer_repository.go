package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"peerlink/internal/core/domain"
	"peerlink/internal/core/ports"
)

type MemoryCustomerRepository struct {
	customers map[string]*domain.Customer // keyed by email
	nextID    uint
	mu        sync.RWMutex
}

func NewMemoryCustomerRepository() ports.CustomerRepository {
	return &MemoryCustomerRepository{
		customers: make(map[string]*domain.Customer),
		nextID:    1,
	}
}

func (r *MemoryCustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, exists := r.customers[email]
	if !exists {
		return nil, domain.ErrCustomerNotFound
	}

	copied := *customer
	return &copied, nil
}

func (r *MemoryCustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, exists := r.customers[customer.Email]; exists {
		customer.ID = existing.ID
		customer.CreatedAt = existing.CreatedAt
	} else {
		customer.ID = r.nextID
		r.nextID++
		customer.CreatedAt = now
	}
	customer.UpdatedAt = now

	copied := *customer
	r.customers[customer.Email] = &copied
	return nil
}

func (r *MemoryCustomerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
