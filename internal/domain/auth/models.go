package auth

import "time"

type Role string

const (
	RoleEmployer Role = "employer"
	RoleWorker   Role = "worker"
)

var Roles = []Role{RoleEmployer, RoleWorker}

func (r Role) Valid() bool {
	return r == RoleEmployer || r == RoleWorker
}

// Identity is the authenticated account, before its profile is resolved.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the party record referenced by contracts as employer or worker.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Role     Role
}

type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Profile     Profile   `json:"profile"`
}
