package catalog

import (
	"context"
	"errors"

	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
)

// ErrNotFound is returned by Store implementations when no row exists for an id.
var ErrNotFound = errors.New("product not found")

// Store is the durable row store keyed by product id.
//
// Insert assigns the identity and timestamp. Replace and Merge must be atomic
// per id and must refresh UpdatedAt; Get, Replace and Merge return ErrNotFound
// for unknown ids. Delete reports whether a row existed and was removed.
type Store interface {
	List(ctx context.Context) ([]model.Product, error)
	Insert(ctx context.Context, fields model.ProductFields) (model.Product, error)
	Get(ctx context.Context, id string) (model.Product, error)
	Replace(ctx context.Context, id string, fields model.ProductFields) (model.Product, error)
	Merge(ctx context.Context, id string, fields model.ProductFields) (model.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
}
