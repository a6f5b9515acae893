package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("order not found")
	ErrNoFields = errors.New("no fields to update")
)

// NewOrder carries the frozen values of one order row at creation time.
type NewOrder struct {
	BuyerID             int64
	MenuItemID          int64
	CookID              int64
	Quantity            int
	TotalPrice          string
	SpecialInstructions *string
}

// Update lists the mutable columns; nil fields are left untouched.
type Update struct {
	Status              *Status
	SpecialInstructions *string
}

// Query narrows order listings.
type Query struct {
	BuyerID *int64 // orders placed by this user
	CookID  *int64 // orders fulfilled by this cook profile
	Status  *Status
	Limit   int
	Offset  int
}

type Repository interface {
	Create(ctx context.Context, n NewOrder) (*Order, error)
	CreateBatch(ctx context.Context, buyerID int64, total string, lines []NewOrder) (*BatchOrder, []Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetWithOwner(ctx context.Context, id int64) (*OrderWithOwner, error)
	List(ctx context.Context, q Query) ([]Order, error)
	Update(ctx context.Context, id int64, upd Update) (*Order, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const orderCols = `id, buyer_id, menu_item_id, cook_id, quantity, total_price::text, status, special_instructions, batch_id, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.BuyerID, &o.MenuItemID, &o.CookID, &o.Quantity, &o.TotalPrice,
		&o.Status, &o.SpecialInstructions, &o.BatchID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

const insertOrderSQL = `
	INSERT INTO orders (buyer_id, menu_item_id, cook_id, quantity, total_price, status, special_instructions, batch_id, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
	RETURNING ` + orderCols

func (r *PGRepo) Create(ctx context.Context, n NewOrder) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanOrder(r.db.QueryRow(ctx, insertOrderSQL,
		n.BuyerID, n.MenuItemID, n.CookID, n.Quantity, n.TotalPrice, StatusPending, n.SpecialInstructions, nil))
}

// CreateBatch writes the batch row and every member order in one transaction;
// any failure rolls the whole batch back.
func (r *PGRepo) CreateBatch(ctx context.Context, buyerID int64, total string, lines []NewOrder) (*BatchOrder, []Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var b BatchOrder
	err = tx.QueryRow(ctx, `
		INSERT INTO batch_orders (buyer_id, total_price, status, created_at, updated_at)
		VALUES ($1,$2,$3,NOW(),NOW())
		RETURNING id, buyer_id, total_price::text, status, created_at, updated_at
	`, buyerID, total, StatusPending).Scan(&b.ID, &b.BuyerID, &b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, nil, err
	}

	orders := make([]Order, 0, len(lines))
	for _, n := range lines {
		o, err := scanOrder(tx.QueryRow(ctx, insertOrderSQL,
			n.BuyerID, n.MenuItemID, n.CookID, n.Quantity, n.TotalPrice, StatusPending, n.SpecialInstructions, b.ID))
		if err != nil {
			return nil, nil, err
		}
		orders = append(orders, *o)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return &b, orders, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, ErrNotFound
	}
	return o, nil
}

func (r *PGRepo) GetWithOwner(ctx context.Context, id int64) (*OrderWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o OrderWithOwner
	err := r.db.QueryRow(ctx, `
		SELECT o.id, o.buyer_id, o.menu_item_id, o.cook_id, o.quantity, o.total_price::text,
		       o.status, o.special_instructions, o.batch_id, o.created_at, o.updated_at, cp.user_id
		FROM orders o
		JOIN cook_profiles cp ON o.cook_id = cp.id
		WHERE o.id = $1
	`, id).Scan(&o.ID, &o.BuyerID, &o.MenuItemID, &o.CookID, &o.Quantity, &o.TotalPrice,
		&o.Status, &o.SpecialInstructions, &o.BatchID, &o.CreatedAt, &o.UpdatedAt, &o.CookUserID)
	if err != nil {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Order, error) {
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

	// buyer/cook scoping is an OR: a user sees orders from either side
	scope := []string{}
	if q.BuyerID != nil {
		args = append(args, *q.BuyerID)
		scope = append(scope, fmt.Sprintf("buyer_id = $%d", len(args)))
	}
	if q.CookID != nil {
		args = append(args, *q.CookID)
		scope = append(scope, fmt.Sprintf("cook_id = $%d", len(args)))
	}
	if len(scope) > 0 {
		conds = append(conds, "("+strings.Join(scope, " OR ")+")")
	}
	if q.Status != nil {
		args = append(args, *q.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + orderCols + ` FROM orders`
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

	out := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.MenuItemID, &o.CookID, &o.Quantity, &o.TotalPrice,
			&o.Status, &o.SpecialInstructions, &o.BatchID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Update builds the SET list from the closed column set only.
func (r *PGRepo) Update(ctx context.Context, id int64, upd Update) (*Order, error) {
	if upd.Status == nil && upd.SpecialInstructions == nil {
		return nil, ErrNoFields
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := []string{}
	args := []any{}
	if upd.Status != nil {
		args = append(args, *upd.Status)
		set = append(set, fmt.Sprintf("status = $%d", len(args)))
	}
	if upd.SpecialInstructions != nil {
		args = append(args, *upd.SpecialInstructions)
		set = append(set, fmt.Sprintf("special_instructions = $%d", len(args)))
	}
	set = append(set, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE orders SET %s
		WHERE id = $%d
		RETURNING `+orderCols,
		strings.Join(set, ", "), len(args))

	o, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, ErrNotFound
	}
	return o, nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
