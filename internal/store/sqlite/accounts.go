package sqlite

import (
	"context"

	"laborpay/internal/domain/auth"
)

const profileColumns = `id, user_id, full_name, email, role, verified, created_at`

func (s *Store) CreateAccount(ctx context.Context, user auth.User, profile auth.Profile) (auth.Profile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return auth.Profile{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
    INSERT INTO users (id, email, password_hash, created_at) VALUES (?,?,?,?)
  `, user.ID, user.Email, user.PasswordHash, utc(user.CreatedAt)); err != nil {
		if isUniqueViolation(err) {
			return auth.Profile{}, auth.ErrEmailTaken
		}
		return auth.Profile{}, err
	}
	if _, err := tx.ExecContext(ctx, `
    INSERT INTO profiles (id, user_id, full_name, email, role, verified, created_at)
    VALUES (?,?,?,?,?,?,?)
  `, profile.ID, user.ID, profile.FullName, profile.Email, string(profile.Role), profile.Verified, utc(profile.CreatedAt)); err != nil {
		if isUniqueViolation(err) {
			return auth.Profile{}, auth.ErrEmailTaken
		}
		return auth.Profile{}, err
	}
	stored, err := scanProfile(tx.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = ?", profile.ID))
	if err != nil {
		return auth.Profile{}, err
	}
	if err := tx.Commit(); err != nil {
		return auth.Profile{}, err
	}
	return stored, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (auth.User, error) {
	var u auth.User
	err := s.db.QueryRowContext(ctx, `
    SELECT id, email, password_hash, created_at FROM users WHERE email = ?
  `, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return auth.User{}, notFound(err, auth.ErrUserNotFound)
	}
	return u, nil
}

func (s *Store) GetProfile(ctx context.Context, id string) (auth.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = ?", id))
	return p, notFound(err, auth.ErrProfileNotFound)
}

func (s *Store) GetProfileByUserID(ctx context.Context, userID string) (auth.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE user_id = ?", userID))
	return p, notFound(err, auth.ErrProfileNotFound)
}

func (s *Store) FindProfileByEmail(ctx context.Context, email string) (auth.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE email = ?", email))
	return p, notFound(err, auth.ErrProfileNotFound)
}

func scanProfile(row scanner) (auth.Profile, error) {
	var p auth.Profile
	var role string
	if err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Email, &role, &p.Verified, &p.CreatedAt); err != nil {
		return auth.Profile{}, err
	}
	p.Role = auth.Role(role)
	return p, nil
}
