package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/petshop-catalog-service/internal/apperr"
	"github.com/fairyhunter13/petshop-catalog-service/internal/catalog"
	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
	"github.com/fairyhunter13/petshop-catalog-service/internal/store"
)

func body(t *testing.T, s string) catalog.Input {
	t.Helper()
	var in catalog.Input
	require.NoError(t, json.Unmarshal([]byte(s), &in))
	return in
}

// brokenStore fails every operation.
type brokenStore struct{ err error }

func (b brokenStore) List(context.Context) ([]model.Product, error) { return nil, b.err }
func (b brokenStore) Insert(context.Context, model.ProductFields) (model.Product, error) {
	return model.Product{}, b.err
}
func (b brokenStore) Get(context.Context, string) (model.Product, error) {
	return model.Product{}, b.err
}
func (b brokenStore) Replace(context.Context, string, model.ProductFields) (model.Product, error) {
	return model.Product{}, b.err
}
func (b brokenStore) Merge(context.Context, string, model.ProductFields) (model.Product, error) {
	return model.Product{}, b.err
}
func (b brokenStore) Delete(context.Context, string) (bool, error) { return false, b.err }

func TestServiceCreateListGet(t *testing.T) {
	ctx := context.Background()
	svc := catalog.NewService(store.NewMemory(), catalog.StrictnessStrict)

	list, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list.Items)
	assert.Equal(t, 0, list.TotalCount)

	created, err := svc.CreateProduct(ctx, body(t, `{"name":"Shampoo","price":25,"status":"ACTIVE","targetSpecies":"cachorro"}`))
	require.NoError(t, err)
	assert.Equal(t, "/products/"+created.Product.ProductID, created.Location)
	assert.Equal(t, "cachorro", created.Product.TargetSpecies)

	got, err := svc.GetProduct(ctx, created.Product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, created.Product, got)

	list, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalCount)
	assert.Len(t, list.Items, list.TotalCount)
}

func TestServiceRejectedWritesLeaveStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	svc := catalog.NewService(store.NewMemory(), catalog.StrictnessStrict)
	created, err := svc.CreateProduct(ctx, body(t, `{"name":"Shampoo","price":25,"status":"ACTIVE"}`))
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, body(t, `{"name":"Sem preço","status":"ACTIVE"}`))
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.MergeProduct(ctx, created.Product.ProductID, body(t, `{"price":-5}`))
	require.ErrorAs(t, err, &verr)

	_, err = svc.ReplaceProduct(ctx, created.Product.ProductID, body(t, `{"name":"x"}`))
	require.ErrorAs(t, err, &verr)

	got, err := svc.GetProduct(ctx, created.Product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, created.Product, got)

	list, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalCount)
}

func TestServiceMergeAndReplace(t *testing.T) {
	ctx := context.Background()
	svc := catalog.NewService(store.NewMemory(), catalog.StrictnessStrict)
	created, err := svc.CreateProduct(ctx, body(t,
		`{"name":"Cama","price":80,"status":"ACTIVE","currency":"BRL","category":"camas","description":"macia"}`))
	require.NoError(t, err)
	id := created.Product.ProductID

	merged, err := svc.MergeProduct(ctx, id, body(t, `{"price":70}`))
	require.NoError(t, err)
	assert.Equal(t, 70.0, merged.Price)
	assert.Equal(t, "macia", merged.Description)
	assert.Equal(t, id, merged.ProductID)
	assert.True(t, merged.UpdatedAt.After(created.Product.UpdatedAt))

	// Merging an empty body still bumps updatedAt.
	touched, err := svc.MergeProduct(ctx, id, catalog.Input{})
	require.NoError(t, err)
	assert.True(t, touched.UpdatedAt.After(merged.UpdatedAt))

	replaced, err := svc.ReplaceProduct(ctx, id, body(t,
		`{"name":"Cama G","price":90,"status":"INACTIVE","currency":"BRL","category":"camas"}`))
	require.NoError(t, err)
	assert.Equal(t, "Cama G", replaced.Name)
	assert.Empty(t, replaced.Description)
	assert.True(t, replaced.UpdatedAt.After(touched.UpdatedAt))
}

func TestServiceNotFound(t *testing.T) {
	ctx := context.Background()
	svc := catalog.NewService(store.NewMemory(), catalog.StrictnessStrict)
	var nf *apperr.NotFoundError

	_, err := svc.GetProduct(ctx, "prd_missing")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "prd_missing", nf.ID)

	_, err = svc.MergeProduct(ctx, "prd_missing", body(t, `{"price":1}`))
	require.ErrorAs(t, err, &nf)

	_, err = svc.ReplaceProduct(ctx, "prd_missing", body(t,
		`{"name":"x","price":1,"status":"ACTIVE","currency":"BRL","category":"c"}`))
	require.ErrorAs(t, err, &nf)

	require.ErrorAs(t, svc.DeleteProduct(ctx, "prd_missing"), &nf)
}

func TestServiceDeleteIsFinal(t *testing.T) {
	ctx := context.Background()
	svc := catalog.NewService(store.NewMemory(), catalog.StrictnessStrict)
	created, err := svc.CreateProduct(ctx, body(t, `{"name":"Osso","price":5,"status":"ACTIVE"}`))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.Product.ProductID))
	var nf *apperr.NotFoundError
	require.ErrorAs(t, svc.DeleteProduct(ctx, created.Product.ProductID), &nf)
	_, err = svc.GetProduct(ctx, created.Product.ProductID)
	require.ErrorAs(t, err, &nf)
}

func TestServiceStoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")
	svc := catalog.NewService(brokenStore{err: boom}, catalog.StrictnessStrict)
	var serr *apperr.StoreError

	_, err := svc.ListProducts(ctx)
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, boom)

	_, err = svc.CreateProduct(ctx, body(t, `{"name":"x","price":1,"status":"ACTIVE"}`))
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "insert", serr.Op)

	_, err = svc.GetProduct(ctx, "prd_1")
	require.ErrorAs(t, err, &serr)

	require.ErrorAs(t, svc.DeleteProduct(ctx, "prd_1"), &serr)
}
