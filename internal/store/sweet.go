package store

import (
	"context"
	"fmt"
	"strings"

	"sweet-shop/internal/database"
	"sweet-shop/internal/model"

	"github.com/jackc/pgx/v5"
)

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const sweetColumns = `id, name, category, price, quantity, description, image_url, created_at, updated_at`

const sweetOrder = ` ORDER BY created_at DESC, id DESC`

func scanSweet(row scanner) (*model.Sweet, error) {
	s := &model.Sweet{}
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Category,
		&s.Price,
		&s.Quantity,
		&s.Description,
		&s.ImageURL,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return s, nil
}

func collectSweets(rows pgx.Rows) ([]model.Sweet, error) {
	defer rows.Close()
	list := []model.Sweet{}
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func CreateSweet(ctx context.Context, db database.DB, s *model.Sweet) (*model.Sweet, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO sweets (name, category, price, quantity, description, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+sweetColumns,
		s.Name,
		s.Category,
		s.Price,
		s.Quantity,
		s.Description,
		s.ImageURL,
	)
	created, err := scanSweet(row)
	if err != nil {
		return nil, fmt.Errorf("CreateSweet: %w", err)
	}
	return created, nil
}

func ListSweets(ctx context.Context, db database.DB) ([]model.Sweet, error) {
	rows, err := db.Query(ctx, `SELECT `+sweetColumns+` FROM sweets`+sweetOrder)
	if err != nil {
		return nil, fmt.Errorf("ListSweets: %w", err)
	}
	list, err := collectSweets(rows)
	if err != nil {
		return nil, fmt.Errorf("ListSweets: %w", err)
	}
	return list, nil
}

func GetSweetByID(ctx context.Context, db database.DB, id int) (*model.Sweet, error) {
	row := db.QueryRow(ctx,
		`SELECT `+sweetColumns+` FROM sweets WHERE id = $1`,
		id,
	)
	s, err := scanSweet(row)
	if err != nil {
		return nil, fmt.Errorf("GetSweetByID: %w", err)
	}
	return s, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildSearch renders the WHERE clause for f. Filters are ANDed; an empty
// filter yields no clause.
func buildSearch(f model.SweetFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Name != "" {
		add(`name ILIKE $%d`, "%"+likeEscaper.Replace(f.Name)+"%")
	}
	if f.Category != "" {
		add(`category = $%d`, f.Category)
	}
	if f.MinPrice != nil {
		add(`price >= $%d`, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add(`price <= $%d`, *f.MaxPrice)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func SearchSweets(ctx context.Context, db database.DB, f model.SweetFilter) ([]model.Sweet, error) {
	where, args := buildSearch(f)
	rows, err := db.Query(ctx, `SELECT `+sweetColumns+` FROM sweets`+where+sweetOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchSweets: %w", err)
	}
	list, err := collectSweets(rows)
	if err != nil {
		return nil, fmt.Errorf("SearchSweets: %w", err)
	}
	return list, nil
}

// buildUpdate renders the SET list for c. Nil columns are not written.
func buildUpdate(c model.SweetChanges) (string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(col string, arg any) {
		args = append(args, arg)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if c.Name != nil {
		add("name", *c.Name)
	}
	if c.Category != nil {
		add("category", *c.Category)
	}
	if c.Price != nil {
		add("price", *c.Price)
	}
	if c.Quantity != nil {
		add("quantity", *c.Quantity)
	}
	if c.Description != nil {
		add("description", *c.Description)
	}
	if c.ImageURL != nil {
		add("image_url", *c.ImageURL)
	}
	sets = append(sets, "updated_at = now()")
	return strings.Join(sets, ", "), args
}

// UpdateSweet writes the changed columns of sweet id and refreshes updated_at.
func UpdateSweet(ctx context.Context, db database.DB, id int, c model.SweetChanges) (*model.Sweet, error) {
	set, args := buildUpdate(c)
	args = append(args, id)
	row := db.QueryRow(ctx,
		fmt.Sprintf(`UPDATE sweets SET %s WHERE id = $%d RETURNING `, set, len(args))+sweetColumns,
		args...,
	)
	updated, err := scanSweet(row)
	if err != nil {
		return nil, fmt.Errorf("UpdateSweet: %w", err)
	}
	return updated, nil
}

// PurchaseSweet decrements stock in one statement. It returns pgx.ErrNoRows
// (wrapped) when the sweet is missing or holds fewer than qty units.
func PurchaseSweet(ctx context.Context, db database.DB, id, qty int) (*model.Sweet, error) {
	row := db.QueryRow(ctx,
		`UPDATE sweets
		 SET quantity = quantity - $1, updated_at = now()
		 WHERE id = $2 AND quantity >= $1
		 RETURNING `+sweetColumns,
		qty,
		id,
	)
	s, err := scanSweet(row)
	if err != nil {
		return nil, fmt.Errorf("PurchaseSweet: %w", err)
	}
	return s, nil
}

func RestockSweet(ctx context.Context, db database.DB, id, qty int) (*model.Sweet, error) {
	row := db.QueryRow(ctx,
		`UPDATE sweets
		 SET quantity = quantity + $1, updated_at = now()
		 WHERE id = $2
		 RETURNING `+sweetColumns,
		qty,
		id,
	)
	s, err := scanSweet(row)
	if err != nil {
		return nil, fmt.Errorf("RestockSweet: %w", err)
	}
	return s, nil
}

// DeleteSweet reports whether a row was removed.
func DeleteSweet(ctx context.Context, db database.DB, id int) (bool, error) {
	tag, err := db.Exec(ctx, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("DeleteSweet: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
