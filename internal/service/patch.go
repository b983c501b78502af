// File: internal/service/patch.go
package service

import (
	"strings"

	"sweet-shop/internal/apperror"
	"sweet-shop/internal/model"

	"github.com/shopspring/decimal"
)

const (
	msgRequiredFields   = "Required fields missing"
	msgNegativePrice    = "Price must be positive"
	msgNegativeQuantity = "Quantity cannot be negative"
)

// SweetPatch holds the fields of a partial update. Nil fields keep the
// stored value.
type SweetPatch struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Quantity    *int
	Description *string
	ImageURL    *string
}

// Apply returns s with every non-nil field of p copied over it.
func (p SweetPatch) Apply(s model.Sweet) model.Sweet {
	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		s.Category = strings.TrimSpace(*p.Category)
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.Quantity != nil {
		s.Quantity = *p.Quantity
	}
	if p.Description != nil {
		s.Description = p.Description
	}
	if p.ImageURL != nil {
		s.ImageURL = p.ImageURL
	}
	return s
}

// Changes lists the columns p touches, taking their cleaned values from
// merged.
func (p SweetPatch) Changes(merged model.Sweet) model.SweetChanges {
	var c model.SweetChanges
	if p.Name != nil {
		c.Name = &merged.Name
	}
	if p.Category != nil {
		c.Category = &merged.Category
	}
	if p.Price != nil {
		c.Price = &merged.Price
	}
	if p.Quantity != nil {
		c.Quantity = &merged.Quantity
	}
	if p.Description != nil {
		c.Description = merged.Description
	}
	if p.ImageURL != nil {
		c.ImageURL = merged.ImageURL
	}
	return c
}

// Merge applies p to s and validates the result.
func (p SweetPatch) Merge(s model.Sweet) (model.Sweet, error) {
	merged := p.Apply(s)
	if err := ValidateSweet(merged); err != nil {
		return s, err
	}
	return merged, nil
}

// ValidateSweet checks the invariants every stored sweet holds.
func ValidateSweet(s model.Sweet) error {
	if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Category) == "" {
		return apperror.Validation(msgRequiredFields)
	}
	if s.Price.IsNegative() {
		return apperror.Validation(msgNegativePrice)
	}
	if s.Quantity < 0 {
		return apperror.Validation(msgNegativeQuantity)
	}
	return nil
}
