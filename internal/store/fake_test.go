package store

import (
	"time"

	"sweet-shop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

/* ---------- fakes ---------- */

// fakeRow implements pgx.Row over a user or a sweet.
type fakeRow struct {
	scanErr error
	user    *model.User
	sweet   *model.Sweet
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	switch len(dest) {
	case 9:
		fillSweet(r.sweet, dest)
	case 6:
		u := r.user
		*dest[0].(*int) = u.ID
		*dest[1].(*string) = u.Email
		*dest[2].(*string) = u.PasswordHash
		*dest[3].(*string) = u.Name
		*dest[4].(*model.Role) = u.Role
		*dest[5].(*time.Time) = u.CreatedAt
	case 2:
		// CreateUser: id, created_at
		*dest[0].(*int) = r.user.ID
		*dest[1].(*time.Time) = r.user.CreatedAt
	default:
		panic("fakeRow.Scan: unexpected number of dest")
	}
	return nil
}

func fillSweet(s *model.Sweet, dest []any) {
	*dest[0].(*int) = s.ID
	*dest[1].(*string) = s.Name
	*dest[2].(*string) = s.Category
	*dest[3].(*decimal.Decimal) = s.Price
	*dest[4].(*int) = s.Quantity
	*dest[5].(**string) = s.Description
	*dest[6].(**string) = s.ImageURL
	*dest[7].(*time.Time) = s.CreatedAt
	*dest[8].(*time.Time) = s.UpdatedAt
}

// fakeRows implements pgx.Rows over a slice of sweets.
type fakeRows struct {
	data    []model.Sweet
	idx     int
	scanErr error
	err     error
	closed  bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { return r.idx < len(r.data) }
func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	s := r.data[r.idx]
	r.idx++
	fillSweet(&s, dest)
	return nil
}
func (r *fakeRows) Values() ([]any, error) { return nil, nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

func strPtr(s string) *string { return &s }

func sampleSweet() model.Sweet {
	now := time.Now().UTC()
	return model.Sweet{
		ID:          1,
		Name:        "Choc",
		Category:    "Chocolate",
		Price:       decimal.RequireFromString("2.50"),
		Quantity:    10,
		Description: strPtr("dark"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
