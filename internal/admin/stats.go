package admin

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStats counts accounts.
type UserStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// MenuItemStats counts listings.
type MenuItemStats struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
}

// Stats is the aggregate platform snapshot, computed fresh per request.
// swagger:model AdminStats
type Stats struct {
	Users     UserStats        `json:"users"`
	Cooks     int64            `json:"cooks"`
	MenuItems MenuItemStats    `json:"menu_items"`
	Orders    map[string]int64 `json:"orders"`
	Messages  int64            `json:"messages"`
	// Sum of total_price over completed orders, "0" when none
	Revenue string `json:"revenue"`
}

type StatsRepository interface {
	Collect(ctx context.Context) (*Stats, error)
}

type PGStats struct{ db *pgxpool.Pool }

func NewPGStats(db *pgxpool.Pool) *PGStats { return &PGStats{db: db} }

func (r *PGStats) Collect(ctx context.Context) (*Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s := Stats{Orders: map[string]int64{}}

	counts := []struct {
		query string
		dst   *int64
	}{
		{`SELECT COUNT(*) FROM users`, &s.Users.Total},
		{`SELECT COUNT(*) FROM users WHERE is_active = TRUE`, &s.Users.Active},
		{`SELECT COUNT(*) FROM cook_profiles`, &s.Cooks},
		{`SELECT COUNT(*) FROM menu_items`, &s.MenuItems.Total},
		{`SELECT COUNT(*) FROM menu_items WHERE is_available = TRUE`, &s.MenuItems.Available},
		{`SELECT COUNT(*) FROM messages`, &s.Messages},
	}
	for _, c := range counts {
		if err := r.db.QueryRow(ctx, c.query).Scan(c.dst); err != nil {
			return nil, err
		}
	}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		s.Orders[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_price), 0)::text FROM orders WHERE status = 'completed'
	`).Scan(&s.Revenue)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
