package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridianhq/accounts/internal/account/domain"
	"github.com/meridianhq/accounts/pkg/jwtx"
	"github.com/meridianhq/accounts/pkg/slogx"
)

// SessionService issues signed session tokens for authenticated users.
type SessionService struct {
	Signer *jwtx.HS256
	Issuer string
	TTL    time.Duration
}

// Issue mints a session token for the given user. Issuing never consults the
// store; the user must already be authenticated by the caller.
func (s *SessionService) Issue(ctx context.Context, u domain.User) (string, error) {
	log := slogx.FromContext(ctx)

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTokenTTL
	}

	claims := jwtx.NewSessionClaims(
		u.ID, u.Email, u.Username, u.FirstName, u.LastName,
		s.Issuer, ttl, time.Now(),
	)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign session token",
			slog.String("user_id", u.ID),
			slog.Any("error", err),
		)
		return "", err
	}
	return token, nil
}

// Verify checks a session token and returns its claims.
func (s *SessionService) Verify(token string) (jwtx.Claims, error) {
	return s.Signer.Verify(token)
}
