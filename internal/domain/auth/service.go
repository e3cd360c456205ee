package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MinPasswordLength = 8

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{store: store, secret: secret, ttl: ttl, now: time.Now}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the account and its profile. New profiles start unverified.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Profile, error) {
	email := NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return Profile{}, fmt.Errorf("%w: email is not valid", ErrInvalidSignUp)
	}
	if len(in.Password) < MinPasswordLength {
		return Profile{}, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidSignUp, MinPasswordLength)
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return Profile{}, fmt.Errorf("%w: full name is required", ErrInvalidSignUp)
	}
	if !in.Role.Valid() {
		return Profile{}, ErrInvalidRole
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Profile{}, err
	}
	now := s.now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	profile := Profile{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		FullName:  name,
		Email:     email,
		Role:      in.Role,
		CreatedAt: now,
	}
	return s.store.CreateAccount(ctx, user, profile)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Token, error) {
	user, err := s.store.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return Token{}, ErrInvalidCredentials
	}
	profile, err := s.store.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		return Token{}, err
	}

	issuedAt := s.now()
	access, err := GenerateToken(s.secret, Claims{
		UserID:    user.ID,
		ProfileID: profile.ID,
		Email:     user.Email,
		Role:      profile.Role,
	}, issuedAt, s.ttl)
	if err != nil {
		return Token{}, err
	}
	slog.Debug("signed in", "user", user.ID, "role", profile.Role)
	return Token{AccessToken: access, ExpiresAt: issuedAt.Add(s.ttl), Profile: profile}, nil
}

func (s *Service) Authenticate(token string) (Identity, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return Identity{}, err
	}
	return claims.Identity(), nil
}

func (s *Service) GetProfileByUserID(ctx context.Context, userID string) (Profile, error) {
	return s.store.GetProfileByUserID(ctx, userID)
}

func (s *Service) GetProfile(ctx context.Context, id string) (Profile, error) {
	return s.store.GetProfile(ctx, id)
}

func (s *Service) FindProfileByEmail(ctx context.Context, email string) (Profile, error) {
	return s.store.FindProfileByEmail(ctx, NormalizeEmail(email))
}
