package cook

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
	ErrNotFound      = errors.New("cook profile not found")
	ErrAlreadyExists = errors.New("cook profile already exists for this user")
	ErrNoFields      = errors.New("no fields to update")
)

// Update lists the mutable columns; nil fields are left untouched.
type Update struct {
	Name           *string
	Bio            *string
	PhotoURL       *string
	DeliveryRadius *float64
}

func (u Update) empty() bool {
	return u.Name == nil && u.Bio == nil && u.PhotoURL == nil && u.DeliveryRadius == nil
}

type Repository interface {
	Create(ctx context.Context, userID int64, name string, bio, photoURL *string, deliveryRadius float64) (*CookProfile, error)
	GetByID(ctx context.Context, id int64) (*CookProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*CookProfile, error)
	List(ctx context.Context, limit, offset int) ([]CookProfile, error)
	Update(ctx context.Context, id int64, upd Update) (*CookProfile, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const profileCols = `id, user_id, name, bio, photo_url, delivery_radius, created_at, updated_at`

func scanProfile(row pgx.Row) (*CookProfile, error) {
	var p CookProfile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Bio, &p.PhotoURL, &p.DeliveryRadius, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGRepo) Create(ctx context.Context, userID int64, name string, bio, photoURL *string, deliveryRadius float64) (*CookProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.GetByUserID(ctx, userID); err == nil {
		return nil, ErrAlreadyExists
	}

	p, err := scanProfile(r.db.QueryRow(ctx, `
		INSERT INTO cook_profiles (user_id, name, bio, photo_url, delivery_radius, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
		RETURNING `+profileCols+`
	`, userID, name, bio, photoURL, deliveryRadius))
	if err != nil {
		// UNIQUE(user_id) race between the pre-check and the insert
		return nil, ErrAlreadyExists
	}
	return p, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*CookProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileCols+` FROM cook_profiles WHERE id=$1`, id))
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *PGRepo) GetByUserID(ctx context.Context, userID int64) (*CookProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileCols+` FROM cook_profiles WHERE user_id=$1`, userID))
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]CookProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+profileCols+` FROM cook_profiles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CookProfile{}
	for rows.Next() {
		var p CookProfile
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Bio, &p.PhotoURL, &p.DeliveryRadius, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update builds the SET list from the closed column set only; user input never
// names a column.
func (r *PGRepo) Update(ctx context.Context, id int64, upd Update) (*CookProfile, error) {
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
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Bio != nil {
		add("bio", *upd.Bio)
	}
	if upd.PhotoURL != nil {
		add("photo_url", *upd.PhotoURL)
	}
	if upd.DeliveryRadius != nil {
		add("delivery_radius", *upd.DeliveryRadius)
	}
	set = append(set, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE cook_profiles SET %s
		WHERE id = $%d
		RETURNING `+profileCols,
		strings.Join(set, ", "), len(args))

	p, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM cook_profiles WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
