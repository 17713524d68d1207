package user

import (
	"context"
)

type User struct {
	ID           int64   `json:"id"`
	Username     *string `json:"username"`
	Email        string  `json:"email"`
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	PasswordHash string  `json:"-"`
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
}
