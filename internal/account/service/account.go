package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meridianhq/accounts/internal/account/domain"
	"github.com/meridianhq/accounts/internal/account/mail"
	"github.com/meridianhq/accounts/internal/account/store"
	"github.com/meridianhq/accounts/pkg/cryptox"
	"github.com/meridianhq/accounts/pkg/idx"
	"github.com/meridianhq/accounts/pkg/slogx"
	"github.com/meridianhq/accounts/pkg/vtoken"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email address already registered")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrEmailNotConfirmed      = errors.New("email address not confirmed")
	ErrAlreadyConfirmed       = errors.New("email address already confirmed")
	ErrAccountNotFound        = errors.New("account not found")

	// ErrEmailDelivery flags a best-effort notification failure. State
	// changes that preceded the send are kept; only the mail was lost.
	ErrEmailDelivery = errors.New("failed to deliver email")
)

// AccountService orchestrates the account lifecycle: registration, login,
// email confirmation and password reset.
type AccountService struct {
	Store        store.Store
	Verification *VerificationService
	Sessions     *SessionService
	Mailer       mail.Mailer
	Links        mail.LinkBuilder
	AppName      string
}

// RegisterParams are the inputs for creating a new account. Validation of
// field shape (email format, password length) happens at the transport edge;
// the service only normalizes.
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates an unconfirmed account and sends the confirmation email.
// The username is the normalized email so both lookups land on the same row.
// A mailer failure does not roll the account back; it surfaces as
// ErrEmailDelivery with the created user still returned.
func (s *AccountService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	log := slogx.FromContext(ctx)
	email := domain.NormalizeEmail(p.Email)

	// 1. Reject duplicates up front for a clean error. The unique index
	// still backstops races below.
	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return domain.User{}, ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check existing email", slog.Any("error", err))
		return domain.User{}, err
	}

	// 2. Hash the password before touching the store.
	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	u := domain.User{
		ID:            idx.New().String(),
		Username:      email,
		Email:         email,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		PasswordHash:  hash,
		SecurityStamp: uuid.NewString(),
	}

	// 3. Insert. A concurrent registration of the same email loses here.
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailAlreadyRegistered
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("user registered",
		slog.String("user_id", u.ID),
		slog.String("email", u.Email),
	)

	// 4. Best-effort confirmation email. The account exists either way.
	if err := s.sendConfirmation(ctx, u); err != nil {
		return u, ErrEmailDelivery
	}

	return u, nil
}

// Login authenticates by username and password and issues a session token.
// Missing accounts and wrong passwords collapse into ErrInvalidCredentials so
// responses don't reveal which one it was.
func (s *AccountService) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, domain.NormalizeEmail(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		log.Error("failed to fetch user for login", slog.Any("error", err))
		return domain.User{}, "", err
	}

	// Confirmation gates login before the password is even looked at; an
	// unconfirmed account cannot log in regardless of the credentials.
	if !u.EmailConfirmed {
		return domain.User{}, "", ErrEmailNotConfirmed
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("login failed: bad password", slog.String("user_id", u.ID))
			return domain.User{}, "", ErrInvalidCredentials
		}
		log.Error("failed to verify password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	token, err := s.Sessions.Issue(ctx, u)
	if err != nil {
		return domain.User{}, "", err
	}

	log.Info("user logged in", slog.String("user_id", u.ID))
	return u, token, nil
}

// RefreshUser re-issues a session token for an already-authenticated user.
func (s *AccountService) RefreshUser(ctx context.Context, userID string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrAccountNotFound
		}
		log.Error("failed to fetch user for refresh", slog.Any("error", err))
		return domain.User{}, "", err
	}

	token, err := s.Sessions.Issue(ctx, u)
	if err != nil {
		return domain.User{}, "", err
	}
	return u, token, nil
}

// ConfirmEmail redeems a confirmation token. On success the confirmed flag is
// set and the security stamp rotates, which retires the token and any other
// outstanding ones.
func (s *AccountService) ConfirmEmail(ctx context.Context, email, token string) error {
	log := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		log.Error("failed to fetch user for confirmation", slog.Any("error", err))
		return err
	}

	if u.EmailConfirmed {
		return ErrAlreadyConfirmed
	}

	// Two attempts: a concurrent stamp rotation between validate and update
	// shows up as a store conflict, in which case we re-read and re-validate
	// against the fresh stamp.
	for attempt := 0; ; attempt++ {
		if err := s.Verification.Validate(ctx, vtoken.PurposeEmailConfirmation, token, u); err != nil {
			return err
		}

		err := s.Store.Users().ConfirmEmail(ctx, u.ID, u.SecurityStamp, uuid.NewString())
		if err == nil {
			log.Info("email confirmed", slog.String("user_id", u.ID))
			return nil
		}
		if !errors.Is(err, store.ErrConflict) || attempt > 0 {
			log.Error("failed to confirm email", slog.Any("error", err))
			return err
		}

		u, err = s.Store.Users().GetUserByID(ctx, u.ID)
		if err != nil {
			return err
		}
		if u.EmailConfirmed {
			return ErrAlreadyConfirmed
		}
	}
}

// ResendConfirmation sends a fresh confirmation email for an unconfirmed
// account. The new token carries the same stamp, so earlier links stay valid
// until one of them is redeemed.
func (s *AccountService) ResendConfirmation(ctx context.Context, email string) error {
	u, err := s.Store.Users().GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if u.EmailConfirmed {
		return ErrAlreadyConfirmed
	}

	if err := s.sendConfirmation(ctx, u); err != nil {
		return ErrEmailDelivery
	}
	return nil
}

// ForgotPassword sends a password reset email. The mail restates the
// username, which covers the forgotten-username case with the same flow.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		log.Error("failed to fetch user for password reset", slog.Any("error", err))
		return err
	}

	if !u.EmailConfirmed {
		return ErrEmailNotConfirmed
	}

	token, err := s.Verification.Issue(ctx, vtoken.PurposePasswordReset, u)
	if err != nil {
		return err
	}

	link := s.Links.ResetPasswordURL(token, u.Email)
	body, err := mail.RenderResetPassword(s.AppName, u.DisplayName(), u.Username, link)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s: reset your password", s.AppName)
	if err := s.Mailer.Send(ctx, u.Email, subject, body); err != nil {
		log.Error("failed to send reset email",
			slog.String("user_id", u.ID),
			slog.Any("error", err),
		)
		return ErrEmailDelivery
	}

	log.Info("password reset email sent", slog.String("user_id", u.ID))
	return nil
}

// ResetPassword redeems a reset token and replaces the password. The stamp
// rotation retires the redeemed token together with any other outstanding
// reset or confirmation links.
func (s *AccountService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	log := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		log.Error("failed to fetch user for password reset", slog.Any("error", err))
		return err
	}

	if !u.EmailConfirmed {
		return ErrEmailNotConfirmed
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return err
	}

	for attempt := 0; ; attempt++ {
		if err := s.Verification.Validate(ctx, vtoken.PurposePasswordReset, token, u); err != nil {
			return err
		}

		err := s.Store.Users().UpdatePassword(ctx, u.ID, u.SecurityStamp, hash, uuid.NewString())
		if err == nil {
			log.Info("password reset", slog.String("user_id", u.ID))
			return nil
		}
		if !errors.Is(err, store.ErrConflict) || attempt > 0 {
			log.Error("failed to update password", slog.Any("error", err))
			return err
		}

		u, err = s.Store.Users().GetUserByID(ctx, u.ID)
		if err != nil {
			return err
		}
	}
}

func (s *AccountService) sendConfirmation(ctx context.Context, u domain.User) error {
	log := slogx.FromContext(ctx)

	token, err := s.Verification.Issue(ctx, vtoken.PurposeEmailConfirmation, u)
	if err != nil {
		return err
	}

	link := s.Links.ConfirmEmailURL(token, u.Email)
	body, err := mail.RenderConfirmEmail(s.AppName, u.DisplayName(), link)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s: confirm your email address", s.AppName)
	if err := s.Mailer.Send(ctx, u.Email, subject, body); err != nil {
		log.Error("failed to send confirmation email",
			slog.String("user_id", u.ID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("confirmation email sent", slog.String("user_id", u.ID))
	return nil
}
