// Package store provides product store implementations and catalog seeding.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fairyhunter13/petshop-catalog-service/internal/catalog"
	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
)

// Memory is an in-process catalog.Store. Rows live only as long as the
// process; it backs the memory driver and tests.
type Memory struct {
	mu  sync.RWMutex
	m   map[string]model.Product
	now func() time.Time
}

// NewMemory returns an empty Memory store using the wall clock.
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock returns an empty Memory store using now for timestamps.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{m: make(map[string]model.Product), now: now}
}

func (s *Memory) List(_ context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}
	SortByRecency(out)
	return out, nil
}

func (s *Memory) Insert(_ context.Context, fields model.ProductFields) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := catalog.NewProductID()
	if _, exists := s.m[id]; exists {
		return model.Product{}, fmt.Errorf("product id collision: %s", id)
	}
	p := fields.Merge(model.Product{ProductID: id})
	p.UpdatedAt = catalog.NextWriteTime(time.Time{}, s.now())
	s.m[id] = p
	return p, nil
}

func (s *Memory) Get(_ context.Context, id string) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[id]
	if !ok {
		return model.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (s *Memory) Replace(_ context.Context, id string, fields model.ProductFields) (model.Product, error) {
	return s.write(id, fields.Replace)
}

func (s *Memory) Merge(_ context.Context, id string, fields model.ProductFields) (model.Product, error) {
	return s.write(id, fields.Merge)
}

func (s *Memory) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return false, nil
	}
	delete(s.m, id)
	return true, nil
}

func (s *Memory) write(id string, apply func(model.Product) model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.m[id]
	if !ok {
		return model.Product{}, catalog.ErrNotFound
	}
	next := apply(cur)
	next.ProductID = cur.ProductID
	next.UpdatedAt = catalog.NextWriteTime(cur.UpdatedAt, s.now())
	s.m[id] = next
	return next, nil
}

// SortByRecency orders products most recently updated first, ties by id.
func SortByRecency(ps []model.Product) {
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].UpdatedAt.Equal(ps[j].UpdatedAt) {
			return ps[i].UpdatedAt.After(ps[j].UpdatedAt)
		}
		return ps[i].ProductID < ps[j].ProductID
	})
}
