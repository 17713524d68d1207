package persistence

import (
	"context"
	"errors"

	"github.com/itww/admin-api/internal/domain/user"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/jackc/pgx/v5"
)

type postgresUserRepo struct {
	db DBTX
}

func NewPostgresUserRepo(db DBTX) user.Repository {
	return &postgresUserRepo{db: db}
}

const userSelect = `
	SELECT user_id, username, email, "firstName", "lastName", password_hash
	FROM users
`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash)
	return u, err
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("User", email)
		}
		return nil, apperror.NewInternal("Failed to fetch user", err)
	}
	return u, nil
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id int64) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE user_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("User", idString(id))
		}
		return nil, apperror.NewInternal("Failed to fetch user", err)
	}
	return u, nil
}
