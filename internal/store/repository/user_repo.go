package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maktub/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user.
func (r *UserRepository) CreateUser(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (user_id, full_name, email, password_hash, username,
                           image_url, role, status, signup_at)
        VALUES ($1, $2, LOWER($3), $4, $5, $6, $7, $8, NOW())
    `
	_, err := r.db.Exec(ctx, query,
		u.ID, u.FullName, u.Email, u.PasswordHash, u.Username,
		u.ImageURL, u.Role, u.Status,
	)
	return err
}

// FindByEmail returns a user by email, matched case-insensitively.
// Returns (nil, nil) when no user exists.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
        SELECT user_id, full_name, email, password_hash, username,
               image_url, role, status, signup_at, COALESCE(last_login, 'epoch')
        FROM users
        WHERE email = LOWER($1)
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Username,
		&u.ImageURL, &u.Role, &u.Status, &u.SignupDate, &u.LastLogin,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateLastLogin stamps the user's last successful sign-in.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	query := `
        UPDATE users
        SET last_login = NOW()
        WHERE user_id = $1
    `
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

// UpdateGoogleProfile refreshes the display fields captured from a
// Google sign-in.
func (r *UserRepository) UpdateGoogleProfile(ctx context.Context, userID, fullName, imageURL string) error {
	query := `
        UPDATE users
        SET full_name = $1,
            image_url = $2,
            last_login = NOW()
        WHERE user_id = $3
    `
	_, err := r.db.Exec(ctx, query, fullName, imageURL, userID)
	return err
}
