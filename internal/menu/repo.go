package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("menu item not found")
	ErrNoFields = errors.New("no fields to update")
)

// Query narrows List; zero values mean "no filter".
type Query struct {
	CookID        *int64
	AvailableOnly bool
	Limit         int
	Offset        int
}

// Update lists the mutable columns; nil fields are left untouched.
type Update struct {
	Title       *string
	Description *string
	Price       *string
	PhotoURL    *string
	IsAvailable *bool
}

func (u Update) empty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil &&
		u.PhotoURL == nil && u.IsAvailable == nil
}

type Repository interface {
	Create(ctx context.Context, cookID int64, title, description, price string, photoURL *string, isAvailable bool) (*MenuItem, error)
	GetByID(ctx context.Context, id int64) (*MenuItem, error)
	GetWithOwner(ctx context.Context, id int64) (*ItemWithOwner, error)
	List(ctx context.Context, q Query) ([]MenuItem, error)
	Update(ctx context.Context, id int64, upd Update) (*MenuItem, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const itemCols = `id, cook_id, title, description, price::text, photo_url, is_available, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, cookID int64, title, description, price string, photoURL *string, isAvailable bool) (*MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var m MenuItem
	err := r.db.QueryRow(ctx, `
		INSERT INTO menu_items (cook_id, title, description, price, photo_url, is_available, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
		RETURNING `+itemCols+`
	`, cookID, title, description, price, photoURL, isAvailable).
		Scan(&m.ID, &m.CookID, &m.Title, &m.Description, &m.Price, &m.PhotoURL, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var m MenuItem
	err := r.db.QueryRow(ctx, `SELECT `+itemCols+` FROM menu_items WHERE id=$1`, id).
		Scan(&m.ID, &m.CookID, &m.Title, &m.Description, &m.Price, &m.PhotoURL, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (r *PGRepo) GetWithOwner(ctx context.Context, id int64) (*ItemWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var m ItemWithOwner
	err := r.db.QueryRow(ctx, `
		SELECT mi.id, mi.cook_id, mi.title, mi.description, mi.price::text, mi.photo_url,
		       mi.is_available, mi.created_at, mi.updated_at, cp.user_id
		FROM menu_items mi
		JOIN cook_profiles cp ON mi.cook_id = cp.id
		WHERE mi.id = $1
	`, id).Scan(&m.ID, &m.CookID, &m.Title, &m.Description, &m.Price, &m.PhotoURL,
		&m.IsAvailable, &m.CreatedAt, &m.UpdatedAt, &m.CookUserID)
	if err != nil {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	conds := []string{}
	args := []any{}
	if q.CookID != nil {
		args = append(args, *q.CookID)
		conds = append(conds, fmt.Sprintf("cook_id = $%d", len(args)))
	}
	if q.AvailableOnly {
		conds = append(conds, "is_available = TRUE")
	}
	query := `SELECT ` + itemCols + ` FROM menu_items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MenuItem{}
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.CookID, &m.Title, &m.Description, &m.Price, &m.PhotoURL, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update builds the SET list from the closed column set only.
func (r *PGRepo) Update(ctx context.Context, id int64, upd Update) (*MenuItem, error) {
	if upd.empty() {
		return nil, ErrNoFields
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.PhotoURL != nil {
		add("photo_url", *upd.PhotoURL)
	}
	if upd.IsAvailable != nil {
		add("is_available", *upd.IsAvailable)
	}
	set = append(set, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE menu_items SET %s
		WHERE id = $%d
		RETURNING `+itemCols,
		strings.Join(set, ", "), len(args))

	var m MenuItem
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&m.ID, &m.CookID, &m.Title, &m.Description, &m.Price, &m.PhotoURL, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
