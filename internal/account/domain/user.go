package domain

import (
	"strings"
	"time"
)

// User is an account identity. Username is the lowercase email; the two are
// kept in lockstep at registration so login-by-username and lookup-by-email
// hit the same record.
type User struct {
	ID             string
	Username       string
	Email          string
	FirstName      string
	LastName       string
	PasswordHash   string // argon2id PHC encoded
	EmailConfirmed bool
	SecurityStamp  string // opaque, rotated on any credential or confirmation change
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName is the user's name as shown in email greetings.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail lowercases and trims an email address. Applied consistently
// at registration, lookup, and token construction so comparisons never fail
// on case alone.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
