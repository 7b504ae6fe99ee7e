package models

import (
	"database/sql"
	"time"
)

// User is the database representation of a dashboard user.
type User struct {
	UserID       string         `db:"user_id"`
	Username     string         `db:"username"`
	Email        sql.NullString `db:"email"`
	PasswordHash sql.NullString `db:"password_hash"`
	Name         string         `db:"name"`
	AuthProvider string         `db:"auth_provider"`
	ProviderID   sql.NullString `db:"provider_id"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	// Refresh token, stored hashed.
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
