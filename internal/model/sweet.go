// File: internal/model/sweet.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sweet struct {
	ID          int             `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Category    string          `db:"category" json:"category"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Description *string         `db:"description" json:"description"`
	ImageURL    *string         `db:"image_url" json:"image_url"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// SweetChanges lists the columns an update writes. Nil fields are left
// untouched in the row.
type SweetChanges struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Quantity    *int
	Description *string
	ImageURL    *string
}

// SweetFilter narrows a catalog search. Nil or empty fields do not filter.
type SweetFilter struct {
	Name     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Empty reports whether the filter matches every sweet.
func (f SweetFilter) Empty() bool {
	return f.Name == "" && f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}
