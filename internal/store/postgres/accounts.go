package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"laborpay/internal/domain/auth"
)

const profileColumns = `id, user_id, full_name, email, role, verified, created_at`

func (s *Store) CreateAccount(ctx context.Context, user auth.User, profile auth.Profile) (auth.Profile, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return auth.Profile{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO users (id, email, password_hash, created_at)
    VALUES ($1,$2,$3,$4)
  `, user.ID, user.Email, user.PasswordHash, user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return auth.Profile{}, auth.ErrEmailTaken
		}
		return auth.Profile{}, err
	}

	row := tx.QueryRow(ctx, `
    INSERT INTO profiles (id, user_id, full_name, email, role, verified, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING `+profileColumns,
		profile.ID, user.ID, profile.FullName, profile.Email, profile.Role, profile.Verified, profile.CreatedAt)
	stored, err := scanProfile(row)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.Profile{}, auth.ErrEmailTaken
		}
		return auth.Profile{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return auth.Profile{}, err
	}
	return stored, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (auth.User, error) {
	var u auth.User
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, password_hash, created_at FROM users WHERE email = $1
  `, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return auth.User{}, notFound(err, auth.ErrUserNotFound)
	}
	return u, nil
}

func (s *Store) GetProfile(ctx context.Context, id string) (auth.Profile, error) {
	p, err := scanProfile(s.DB.QueryRow(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = $1", id))
	return p, notFound(err, auth.ErrProfileNotFound)
}

func (s *Store) GetProfileByUserID(ctx context.Context, userID string) (auth.Profile, error) {
	p, err := scanProfile(s.DB.QueryRow(ctx, "SELECT "+profileColumns+" FROM profiles WHERE user_id = $1", userID))
	return p, notFound(err, auth.ErrProfileNotFound)
}

func (s *Store) FindProfileByEmail(ctx context.Context, email string) (auth.Profile, error) {
	p, err := scanProfile(s.DB.QueryRow(ctx, "SELECT "+profileColumns+" FROM profiles WHERE email = $1", email))
	return p, notFound(err, auth.ErrProfileNotFound)
}

func scanProfile(row pgx.Row) (auth.Profile, error) {
	var p auth.Profile
	var role string
	if err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Email, &role, &p.Verified, &p.CreatedAt); err != nil {
		return auth.Profile{}, err
	}
	p.Role = auth.Role(role)
	return p, nil
}
