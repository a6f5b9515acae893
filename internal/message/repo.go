package message

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("message not found")

// Query narrows message listings. OrderID alone lists one conversation;
// BuyerID/CookID scope the cross-order inbox.
type Query struct {
	OrderID *int64
	BuyerID *int64
	CookID  *int64
	Limit   int
	Offset  int
}

type Repository interface {
	Create(ctx context.Context, orderID, senderID int64, content string) (*Message, error)
	ListByOrder(ctx context.Context, orderID int64) ([]Message, error)
	List(ctx context.Context, q Query) ([]Message, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, orderID, senderID int64, content string) (*Message, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var m Message
	err := r.db.QueryRow(ctx, `
		INSERT INTO messages (order_id, sender_id, content, created_at)
		VALUES ($1,$2,$3,NOW())
		RETURNING id, order_id, sender_id, content, created_at
	`, orderID, senderID, content).Scan(&m.ID, &m.OrderID, &m.SenderID, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByOrder returns one order's conversation in chronological order.
func (r *PGRepo) ListByOrder(ctx context.Context, orderID int64) ([]Message, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, sender_id, content, created_at
		FROM messages
		WHERE order_id = $1
		ORDER BY created_at ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.OrderID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// List returns messages newest-first across orders the scoped user touches.
func (r *PGRepo) List(ctx context.Context, q Query) ([]Message, error) {
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
	if q.OrderID != nil {
		args = append(args, *q.OrderID)
		conds = append(conds, fmt.Sprintf("m.order_id = $%d", len(args)))
	}
	scope := []string{}
	if q.BuyerID != nil {
		args = append(args, *q.BuyerID)
		scope = append(scope, fmt.Sprintf("o.buyer_id = $%d", len(args)))
	}
	if q.CookID != nil {
		args = append(args, *q.CookID)
		scope = append(scope, fmt.Sprintf("o.cook_id = $%d", len(args)))
	}
	if len(scope) > 0 {
		conds = append(conds, "("+strings.Join(scope, " OR ")+")")
	}

	query := `
		SELECT m.id, m.order_id, m.sender_id, m.content, m.created_at
		FROM messages m
		JOIN orders o ON m.order_id = o.id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.OrderID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PGRepo) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var found int64
	err := r.db.QueryRow(ctx, `SELECT id FROM messages WHERE id=$1`, id).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
