// Package model defines domain types used by the service.
package model

import "time"

// Product statuses accepted by the catalog.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Product represents the current state of a catalog product.
type Product struct {
	ProductID     string    `json:"productId"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency,omitempty"`
	Category      string    `json:"category,omitempty"`
	Status        string    `json:"status,omitempty"`
	TargetSpecies string    `json:"targetSpecies,omitempty"`
	Description   string    `json:"description,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProductFields carries the client-settable fields of a product.
// A nil pointer means the field was absent from the request.
type ProductFields struct {
	Name          *string  `yaml:"name"`
	Price         *float64 `yaml:"price"`
	Currency      *string  `yaml:"currency"`
	Category      *string  `yaml:"category"`
	Status        *string  `yaml:"status"`
	TargetSpecies *string  `yaml:"targetSpecies"`
	Description   *string  `yaml:"description"`
}

// Merge returns p with every present field overwritten.
func (f ProductFields) Merge(p Product) Product {
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.Currency != nil {
		p.Currency = *f.Currency
	}
	if f.Category != nil {
		p.Category = *f.Category
	}
	if f.Status != nil {
		p.Status = *f.Status
	}
	if f.TargetSpecies != nil {
		p.TargetSpecies = *f.TargetSpecies
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	return p
}

// Replace returns a product with the identity of p and every mutable field
// taken from f; absent fields are cleared.
func (f ProductFields) Replace(p Product) Product {
	return f.Merge(Product{ProductID: p.ProductID, UpdatedAt: p.UpdatedAt})
}

// PetProfile holds the attributes of the pet a recommendation is built for.
type PetProfile struct {
	Species string `json:"species"`
	Breed   string `json:"breed,omitempty"`
	Size    string `json:"size,omitempty"`
	PetName string `json:"petName,omitempty"`
}

// RecommendedProduct is one entry picked by the generative model.
type RecommendedProduct struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Recommendation is the typed result interpreted from the model output.
type Recommendation struct {
	Introduction        string               `json:"introduction"`
	RecommendedProducts []RecommendedProduct `json:"recommendedProducts"`
}
