package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/petshop-catalog-service/internal/catalog"
	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
)

type seedFile struct {
	Products []map[string]any `yaml:"products"`
}

// LoadSeedFile reads a YAML or JSON document of the form {products: [...]}
// and validates every entry as a product create body.
func LoadSeedFile(path string, strictness catalog.Strictness) ([]model.ProductFields, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(b, strictness)
}

// ParseSeed decodes seed bytes; see LoadSeedFile.
func ParseSeed(b []byte, strictness catalog.Strictness) ([]model.ProductFields, error) {
	var doc seedFile
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	out := make([]model.ProductFields, 0, len(doc.Products))
	for i, entry := range doc.Products {
		in := make(catalog.Input, len(entry))
		for k, v := range entry {
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("seed product %d field %s: %w", i, k, err)
			}
			in[k] = raw
		}
		fields, err := catalog.ValidateForCreate(in, strictness)
		if err != nil {
			return nil, fmt.Errorf("seed product %d: %w", i, err)
		}
		out = append(out, fields)
	}
	return out, nil
}

// Seed inserts products into st only when st is empty and returns how many
// rows were inserted.
func Seed(ctx context.Context, st catalog.Store, products []model.ProductFields) (int, error) {
	existing, err := st.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list before seed: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, f := range products {
		if _, err := st.Insert(ctx, f); err != nil {
			return i, fmt.Errorf("insert seed product %d: %w", i, err)
		}
	}
	return len(products), nil
}
