package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/user/entity"
)

// UserRepo resolves users by their unique email. It accepts either the pool or
// an open transaction so lookups can share a write's transaction.
type UserRepo struct {
	db sqlx.ExtContext
}

func NewUserRepo(db sqlx.ExtContext) *UserRepo { return &UserRepo{db: db} }

// GetByEmail returns the user with the given email or sql.ErrNoRows.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const q = `SELECT user_id, email FROM users WHERE email = $1`
	var u entity.User
	if err := sqlx.GetContext(ctx, r.db, &u, q, email); err != nil {
		return nil, err
	}
	return &u, nil
}
