package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fairyhunter13/petshop-catalog-service/internal/catalog"
	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
	"github.com/fairyhunter13/petshop-catalog-service/internal/store/storetest"
)

func TestMemoryStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) catalog.Store {
		return NewMemoryWithClock(now)
	})
}

func TestMemoryConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	name, price := "Bola", 1.0
	p, err := s.Insert(ctx, model.ProductFields{Name: &name, Price: &price})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			v := float64(i)
			if _, err := s.Merge(ctx, p.ProductID, model.ProductFields{Price: &v}); err != nil {
				t.Errorf("merge: %v", err)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			n := fmt.Sprintf("p-%d", i)
			if _, err := s.Insert(ctx, model.ProductFields{Name: &n, Price: &price}); err != nil {
				t.Errorf("insert: %v", err)
			}
		}(i)
	}
	wg.Wait()

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 51 {
		t.Fatalf("expected 51 products, got %d", len(list))
	}
}

func TestSortByRecency(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ps := []model.Product{
		{ProductID: "b", UpdatedAt: t0},
		{ProductID: "c", UpdatedAt: t0.Add(time.Minute)},
		{ProductID: "a", UpdatedAt: t0},
	}
	SortByRecency(ps)
	got := []string{ps[0].ProductID, ps[1].ProductID, ps[2].ProductID}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
