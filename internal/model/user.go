package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The
// password hash is never serialized; handlers return users through
// their JSON tags directly.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FullName     – display name of the user.
//  Phone        – optional contact number.
//  Role         – access level, either "user" or "admin".
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     `json:"id"`         // users.id
	Username     string     `json:"username"`   // users.username
	Email        string     `json:"email"`      // users.email
	PasswordHash string     `json:"-"`          // users.password_hash
	FullName     string     `json:"full_name"`  // users.full_name
	Phone        *string    `json:"phone"`      // users.phone (nullable)
	Role         string     `json:"role"`       // users.role
	CreatedAt    time.Time  `json:"created_at"` // users.created_at
	UpdatedAt    time.Time  `json:"-"`          // users.updated_at
}

// RoleUser and RoleAdmin are the two access levels the API understands.
// Admin unlocks the elevated write endpoints; everything else is scoped
// to the authenticated user's own resources.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and carries expiry and revocation
// metadata.  The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
