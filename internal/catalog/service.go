package catalog

import (
	"context"
	"errors"

	"github.com/fairyhunter13/petshop-catalog-service/internal/apperr"
	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
	"github.com/fairyhunter13/petshop-catalog-service/internal/obs"
)

// Service orchestrates validation and store calls for the product resource.
// It keeps no state of its own; concurrent writes to one id are serialized
// only by the Store.
type Service struct {
	store      Store
	strictness Strictness
}

// NewService constructs a Service over the given store.
func NewService(store Store, strictness Strictness) *Service {
	if strictness == "" {
		strictness = StrictnessStrict
	}
	return &Service{store: store, strictness: strictness}
}

// ProductList is the single-page listing of the catalog.
type ProductList struct {
	Items      []model.Product
	TotalCount int
}

// Created is the outcome of a successful create.
type Created struct {
	Product  model.Product
	Location string
}

// ListProducts returns every product, most recently updated first.
func (s *Service) ListProducts(ctx context.Context) (ProductList, error) {
	items, err := s.store.List(ctx)
	s.observe("list", err)
	if err != nil {
		return ProductList{}, &apperr.StoreError{Op: "list", Err: err}
	}
	if items == nil {
		items = []model.Product{}
	}
	return ProductList{Items: items, TotalCount: len(items)}, nil
}

// CreateProduct validates the body and inserts a new product.
func (s *Service) CreateProduct(ctx context.Context, in Input) (Created, error) {
	fields, err := ValidateForCreate(in, s.strictness)
	if err != nil {
		return Created{}, err
	}
	p, err := s.store.Insert(ctx, fields)
	s.observe("insert", err)
	if err != nil {
		return Created{}, &apperr.StoreError{Op: "insert", Err: err}
	}
	return Created{Product: p, Location: ProductLocation(p.ProductID)}, nil
}

// GetProduct returns one product.
func (s *Service) GetProduct(ctx context.Context, id string) (model.Product, error) {
	p, err := s.store.Get(ctx, id)
	s.observe("get", err)
	if err != nil {
		return model.Product{}, translate("get", id, err)
	}
	return p, nil
}

// ReplaceProduct overwrites every mutable field of an existing product.
func (s *Service) ReplaceProduct(ctx context.Context, id string, in Input) (model.Product, error) {
	fields, err := ValidateForFullReplace(in)
	if err != nil {
		return model.Product{}, err
	}
	p, err := s.store.Replace(ctx, id, fields)
	s.observe("replace", err)
	if err != nil {
		return model.Product{}, translate("replace", id, err)
	}
	return p, nil
}

// MergeProduct overwrites only the fields present in the body.
func (s *Service) MergeProduct(ctx context.Context, id string, in Input) (model.Product, error) {
	fields, err := ValidateForPartialUpdate(in)
	if err != nil {
		return model.Product{}, err
	}
	p, err := s.store.Merge(ctx, id, fields)
	s.observe("merge", err)
	if err != nil {
		return model.Product{}, translate("merge", id, err)
	}
	return p, nil
}

// DeleteProduct hard-deletes a product.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	removed, err := s.store.Delete(ctx, id)
	s.observe("delete", err)
	if err != nil {
		return &apperr.StoreError{Op: "delete", Err: err}
	}
	if !removed {
		return &apperr.NotFoundError{Resource: "product", ID: id}
	}
	return nil
}

func translate(op, id string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return &apperr.NotFoundError{Resource: "product", ID: id}
	}
	return &apperr.StoreError{Op: op, Err: err}
}

func (s *Service) observe(op string, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	obs.StoreOperations.WithLabelValues(op, result).Inc()
}
