package session

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

type memoryRepo struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemory returns a process-local repository. Records do not survive restarts.
func NewMemory() Repository {
	return &memoryRepo{records: make(map[string]Record)}
}

func (r *memoryRepo) Load(_ context.Context, namespace string) (*Record, error) {
	r.mu.RLock()
	rec, ok := r.records[namespace]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (r *memoryRepo) Save(_ context.Context, namespace string, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	r.mu.Lock()
	r.records[namespace] = rec
	r.mu.Unlock()
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, namespace string) error {
	r.mu.Lock()
	delete(r.records, namespace)
	r.mu.Unlock()
	return nil
}
