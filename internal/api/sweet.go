package api

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"sweet-shop/internal/apperror"
	"sweet-shop/internal/model"
	"sweet-shop/internal/service"

	"github.com/shopspring/decimal"
)

const (
	msgRequiredFields = "Required fields missing"
	msgInvalidPrice   = "Price must be a number"
	msgWholeQuantity  = "Quantity must be a whole number"
	msgValidQuantity  = "Valid quantity required"
	msgQuantityRange  = "Quantity is too large"
)

// maxQuantity is the largest value the INTEGER stock column holds.
var maxQuantity = decimal.NewFromInt(math.MaxInt32)

// Numbers arrive as json.Number so that "5" and 5 both bind and fractional
// quantities can be told apart from malformed ones.

// swagger:model api.CreateSweetRequest
type CreateSweetRequest struct {
	Name        *string      `json:"name" validate:"omitempty,max=100" example:"Choc"`
	Category    *string      `json:"category" validate:"omitempty,max=50" example:"Chocolate"`
	Price       *json.Number `json:"price" swaggertype:"number" example:"2.5"`
	Quantity    *json.Number `json:"quantity" swaggertype:"integer" example:"10"`
	Description *string      `json:"description" validate:"omitempty,max=1000" example:"Dark chocolate bar"`
	ImageURL    *string      `json:"image_url" validate:"omitempty,max=2048" example:"https://example.com/choc.png"`
}

// ToNewSweet converts the request, rejecting absent or malformed fields.
func (r CreateSweetRequest) ToNewSweet() (service.NewSweet, error) {
	if r.Name == nil || r.Category == nil || r.Price == nil || r.Quantity == nil ||
		strings.TrimSpace(*r.Name) == "" || strings.TrimSpace(*r.Category) == "" {
		return service.NewSweet{}, apperror.Validation(msgRequiredFields)
	}
	price, err := ParsePrice(*r.Price)
	if err != nil {
		return service.NewSweet{}, err
	}
	qty, err := ParseQuantity(*r.Quantity)
	if err != nil {
		return service.NewSweet{}, err
	}
	return service.NewSweet{
		Name:        *r.Name,
		Category:    *r.Category,
		Price:       price,
		Quantity:    qty,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}, nil
}

// swagger:model api.UpdateSweetRequest
type UpdateSweetRequest struct {
	Name        *string      `json:"name" validate:"omitempty,max=100" example:"Choc"`
	Category    *string      `json:"category" validate:"omitempty,max=50" example:"Chocolate"`
	Price       *json.Number `json:"price" swaggertype:"number" example:"3"`
	Quantity    *json.Number `json:"quantity" swaggertype:"integer" example:"12"`
	Description *string      `json:"description" validate:"omitempty,max=1000"`
	ImageURL    *string      `json:"image_url" validate:"omitempty,max=2048"`
}

func (r UpdateSweetRequest) ToPatch() (service.SweetPatch, error) {
	p := service.SweetPatch{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
	if r.Price != nil {
		price, err := ParsePrice(*r.Price)
		if err != nil {
			return p, err
		}
		p.Price = &price
	}
	if r.Quantity != nil {
		qty, err := ParseQuantity(*r.Quantity)
		if err != nil {
			return p, err
		}
		p.Quantity = &qty
	}
	return p, nil
}

// swagger:model api.QuantityRequest
type QuantityRequest struct {
	Quantity *json.Number `json:"quantity" swaggertype:"integer" example:"3"`
}

// Value returns the requested quantity, which must be a positive whole number.
func (r QuantityRequest) Value() (int, error) {
	if r.Quantity == nil || *r.Quantity == "" {
		return 0, apperror.Validation(msgValidQuantity)
	}
	d, err := decimal.NewFromString(r.Quantity.String())
	if err != nil || !d.IsPositive() {
		return 0, apperror.Validation(msgValidQuantity)
	}
	return wholeNumber(d)
}

// ParsePrice parses a decimal price. Sign checks are left to the service.
func ParsePrice(n json.Number) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, apperror.Validation(msgInvalidPrice)
	}
	return d, nil
}

// ParseQuantity accepts whole numbers only; "2.0" counts as whole.
func ParseQuantity(n json.Number) (int, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, apperror.Validation(msgWholeQuantity)
	}
	return wholeNumber(d)
}

func wholeNumber(d decimal.Decimal) (int, error) {
	if !d.IsInteger() {
		return 0, apperror.Validation(msgWholeQuantity)
	}
	if d.Abs().GreaterThan(maxQuantity) {
		return 0, apperror.Validation(msgQuantityRange)
	}
	return int(d.IntPart()), nil
}

// swagger:model api.SweetResponse
type SweetResponse struct {
	ID          int       `json:"id" example:"1"`
	Name        string    `json:"name" example:"Choc"`
	Category    string    `json:"category" example:"Chocolate"`
	Price       float64   `json:"price" example:"2.5"`
	Quantity    int       `json:"quantity" example:"10"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewSweetResponse(s *model.Sweet) SweetResponse {
	return SweetResponse{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Price:       s.Price.InexactFloat64(),
		Quantity:    s.Quantity,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func NewSweetListResponse(list []model.Sweet) []SweetResponse {
	out := make([]SweetResponse, 0, len(list))
	for i := range list {
		out = append(out, NewSweetResponse(&list[i]))
	}
	return out
}
