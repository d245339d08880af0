package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/highimexy/Bugly/internal/tracker/domain"
)

// User is an account allowed to log into the dashboard.
type User struct {
	Email        string
	PasswordHash string
}

// UserRepo provides persistence for dashboard accounts.
type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

// FindByEmail returns the stored user or domain.ErrNotFound.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
select email, password_hash
from users
where email = $1;
`
	var u User
	err := r.db.QueryRow(ctx, q, email).Scan(&u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create stores a new account with a bcrypt-hashed password.
func (r *UserRepo) Create(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	const q = `
insert into users (email, password_hash)
values ($1, $2);
`
	if _, err := r.db.Exec(ctx, q, email, string(hash)); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// CheckPassword compares a candidate password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
