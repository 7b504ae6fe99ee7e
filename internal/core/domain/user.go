package domain

import "time"

// User represents a dashboard user in the domain.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	AuthProvider string `json:"authProvider"` // "local" or "google"
	ProviderID   string `json:"-"`            // Subject ID at the external provider
	AuditFields
	// Refresh token details, stored hashed.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	DeletedAt              *time.Time `json:"deletedAt,omitempty"` // Soft delete
}

// GoogleUserInfo is the subset of the Google profile the app consumes after
// an OAuth exchange.
type GoogleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
