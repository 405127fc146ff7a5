package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/meridianhq/accounts/internal/account/domain"
	"github.com/meridianhq/accounts/pkg/slogx"
	"github.com/meridianhq/accounts/pkg/vtoken"
)

// ErrSubjectMismatch is returned when a verification token was minted for a
// different account than the one it is being redeemed against.
var ErrSubjectMismatch = errors.New("token subject mismatch")

const (
	// DefaultConfirmTokenTTL bounds how long an email confirmation link stays
	// redeemable.
	DefaultConfirmTokenTTL = 72 * time.Hour

	// DefaultResetTokenTTL bounds how long a password reset link stays
	// redeemable. Kept short since the link grants a credential change.
	DefaultResetTokenTTL = time.Hour
)

// VerificationService mints and validates single-use verification tokens.
// Single-use comes from stamp binding rather than server-side bookkeeping: a
// token embeds the account's security stamp at issue time, and every
// credential or confirmation change rotates the stamp, which invalidates all
// previously issued tokens at once.
type VerificationService struct {
	Signer     *vtoken.Signer
	ConfirmTTL time.Duration
	ResetTTL   time.Duration
}

func (s *VerificationService) ttl(purpose vtoken.Purpose) time.Duration {
	switch purpose {
	case vtoken.PurposeEmailConfirmation:
		if s.ConfirmTTL > 0 {
			return s.ConfirmTTL
		}
		return DefaultConfirmTokenTTL
	case vtoken.PurposePasswordReset:
		if s.ResetTTL > 0 {
			return s.ResetTTL
		}
		return DefaultResetTokenTTL
	default:
		return DefaultResetTokenTTL
	}
}

// Issue mints a purpose-scoped token bound to the user's current security
// stamp.
func (s *VerificationService) Issue(ctx context.Context, purpose vtoken.Purpose, u domain.User) (string, error) {
	log := slogx.FromContext(ctx)

	token, err := s.Signer.Issue(purpose, u.ID, u.SecurityStamp, s.ttl(purpose))
	if err != nil {
		log.Error("failed to issue verification token",
			slog.String("purpose", string(purpose)),
			slog.Any("error", err),
		)
		return "", err
	}
	return token, nil
}

// Validate parses and checks a token against the given freshly loaded user.
// Validation short-circuits in a fixed order: format, signature, purpose,
// expiry, then subject and stamp. Callers must pass the user as currently
// stored so a rotated stamp is caught here.
func (s *VerificationService) Validate(ctx context.Context, purpose vtoken.Purpose, token string, u domain.User) error {
	log := slogx.FromContext(ctx)

	tok, err := s.Signer.Parse(token, purpose)
	if err != nil {
		log.Warn("verification token rejected",
			slog.String("purpose", string(purpose)),
			slog.Any("error", err),
		)
		return err
	}

	if tok.UserID != u.ID {
		log.Warn("verification token subject mismatch",
			slog.String("purpose", string(purpose)),
			slog.String("token_user_id", tok.UserID),
			slog.String("user_id", u.ID),
		)
		return ErrSubjectMismatch
	}

	if err := tok.VerifyStamp(u.SecurityStamp); err != nil {
		log.Warn("verification token stamp mismatch",
			slog.String("purpose", string(purpose)),
			slog.String("user_id", u.ID),
		)
		return err
	}

	return nil
}
