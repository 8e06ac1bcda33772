// Package storetest runs the catalog.Store contract against an adapter.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/petshop-catalog-service/internal/catalog"
	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
)

// Factory returns an empty store whose UpdatedAt values come from now.
type Factory func(t *testing.T, now func() time.Time) catalog.Store

// Clock is a settable, steppable time source safe for concurrent use.
type Clock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

// NewClock starts at start and advances by step on every read.
func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{t: start, step: step}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

var epoch = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

func str(s string) *string   { return &s }
func num(f float64) *float64 { return &f }

func fullFields(name string) model.ProductFields {
	return model.ProductFields{
		Name:          str(name),
		Price:         num(42.75),
		Currency:      str("BRL"),
		Category:      str("alimentos"),
		Status:        str(model.StatusActive),
		TargetSpecies: str("cachorro"),
		Description:   str("Ração seca sabor frango"),
	}
}

// Run exercises every Store operation against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("InsertGet", func(t *testing.T) {
		ctx := context.Background()
		st := newStore(t, NewClock(epoch, time.Second).Now)

		p, err := st.Insert(ctx, fullFields("Ração"))
		require.NoError(t, err)
		assert.NotEmpty(t, p.ProductID)
		assert.Equal(t, "Ração", p.Name)
		assert.Equal(t, 42.75, p.Price)
		assert.True(t, p.UpdatedAt.Equal(epoch), "updatedAt %v", p.UpdatedAt)

		got, err := st.Get(ctx, p.ProductID)
		require.NoError(t, err)
		assert.Equal(t, p.ProductID, got.ProductID)
		assert.Equal(t, p.Name, got.Name)
		assert.Equal(t, p.Price, got.Price)
		assert.Equal(t, p.Currency, got.Currency)
		assert.Equal(t, p.Category, got.Category)
		assert.Equal(t, p.Status, got.Status)
		assert.Equal(t, p.TargetSpecies, got.TargetSpecies)
		assert.Equal(t, p.Description, got.Description)
		assert.True(t, p.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("InsertOptionalFieldsAbsent", func(t *testing.T) {
		ctx := context.Background()
		st := newStore(t, time.Now)
		p, err := st.Insert(ctx, model.ProductFields{Name: str("Bola"), Price: num(0)})
		require.NoError(t, err)
		got, err := st.Get(ctx, p.ProductID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.Price)
		assert.Empty(t, got.Status)
		assert.Empty(t, got.Description)
	})

	t.Run("ListMostRecentFirst", func(t *testing.T) {
		ctx := context.Background()
		st := newStore(t, NewClock(epoch, time.Second).Now)

		list, err := st.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)

		a, err := st.Insert(ctx, fullFields("A"))
		require.NoError(t, err)
		b, err := st.Insert(ctx, fullFields("B"))
		require.NoError(t, err)
		c, err := st.Insert(ctx, fullFields("C"))
		require.NoError(t, err)

		list, err = st.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{c.ProductID, b.ProductID, a.ProductID}, ids(list))

		_, err = st.Merge(ctx, a.ProductID, model.ProductFields{Price: num(1)})
		require.NoError(t, err)
		list, err = st.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{a.ProductID, c.ProductID, b.ProductID}, ids(list))
	})

	t.Run("ListTiesByID", func(t *testing.T) {
		ctx := context.Background()
		st := newStore(t, func() time.Time { return epoch })
		var want []string
		for _, n := range []string{"x", "y", "z"} {
			p, err := st.Insert(ctx, fullFields(n))
			require.NoError(t, err)
			want = append(want, p.ProductID)
		}
		list, err := st.List(ctx)
		require.NoError(t, err)
		got := ids(list)
		require.Len(t, got, 3)
		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1], got[i])
		}
		assert.ElementsMatch(t, want, got)
	})

	t.Run("ReplaceClearsAbsentFields", func(t *testing.T) {
		ctx := context.Background()
		st := newStore(t, NewClock(epoch, time.Second).Now)
		p, err := st.Insert(ctx, fullFields("Cama"))
		require.NoError(t, err)

		next, err := st.Replace(ctx, p.ProductID, model.ProductFields{
			Name: str("Cama G"), Price: num(99), Currency: str("BRL"), Category: str("camas"), Status: str(model.StatusInactive),
		})
		require.NoError(t, err)
		assert.Equal(t, p.ProductID, next.ProductID)
		assert.Equal(t, "Cama G", next.Name)
		assert.Equal(t, model.StatusInactive, next.Status)
		assert.Empty(t, next.TargetSpecies)
		assert.Empty(t, next.Description)
		assert.True(t, next.UpdatedAt.After(p.UpdatedAt))

		got, err := st.Get(ctx, p.ProductID)
		require.NoError(t, err)
		assert.Equal(t, "Cama G", got.Name)
		assert.Empty(t, got.Description)
	})

	t.Run("MergeKeepsAbsentFields", func(t *testing.T) {
		ctx := context.Background()
		st := newStore(t, NewClock(epoch, time.Second).Now)
		p, err := st.Insert(ctx, fullFields("Coleira"))
		require.NoError(t, err)

		next, err := st.Merge(ctx, p.ProductID, model.ProductFields{Price: num(10), Description: str("")})
		require.NoError(t, err)
		assert.Equal(t, 10.0, next.Price)
		assert.Equal(t, "Coleira", next.Name)
		assert.Equal(t, "cachorro", next.TargetSpecies)
		assert.Empty(t, next.Description)
		assert.True(t, next.UpdatedAt.After(p.UpdatedAt))
	})

	t.Run("UpdatedAtStrictlyIncreasesWithStalledClock", func(t *testing.T) {
		ctx := context.Background()
		st := newStore(t, func() time.Time { return epoch })
		p, err := st.Insert(ctx, fullFields("Osso"))
		require.NoError(t, err)

		prev := p.UpdatedAt
		for i := 0; i < 3; i++ {
			next, err := st.Merge(ctx, p.ProductID, model.ProductFields{Price: num(float64(i))})
			require.NoError(t, err)
			assert.True(t, next.UpdatedAt.After(prev), "write %d: %v not after %v", i, next.UpdatedAt, prev)
			prev = next.UpdatedAt
		}
		next, err := st.Replace(ctx, p.ProductID, fullFields("Osso"))
		require.NoError(t, err)
		assert.True(t, next.UpdatedAt.After(prev))
	})

	t.Run("MissingProduct", func(t *testing.T) {
		ctx := context.Background()
		st := newStore(t, time.Now)

		_, err := st.Get(ctx, "prd_missing")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		_, err = st.Replace(ctx, "prd_missing", fullFields("x"))
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		_, err = st.Merge(ctx, "prd_missing", model.ProductFields{Price: num(1)})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		removed, err := st.Delete(ctx, "prd_missing")
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("Delete", func(t *testing.T) {
		ctx := context.Background()
		st := newStore(t, time.Now)
		p, err := st.Insert(ctx, fullFields("Areia"))
		require.NoError(t, err)

		removed, err := st.Delete(ctx, p.ProductID)
		require.NoError(t, err)
		assert.True(t, removed)

		_, err = st.Get(ctx, p.ProductID)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		list, err := st.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)

		removed, err = st.Delete(ctx, p.ProductID)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func ids(ps []model.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ProductID)
	}
	return out
}
