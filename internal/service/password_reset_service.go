package service

import (
	"context"
	"log/slog"
	"time"

	"inkwell/internal/mail"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PasswordResetService drives the forgot-password flow: request a token by
// email, then trade the token for a new password.
type PasswordResetService struct {
	userRepo  repository.UserRepository
	resetRepo repository.ResetTokenRepository
	mailer    mail.Mailer
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewPasswordResetService creates a new password reset service.
func NewPasswordResetService(
	userRepo repository.UserRepository,
	resetRepo repository.ResetTokenRepository,
	mailer mail.Mailer,
	tokenTTL time.Duration,
) *PasswordResetService {
	return &PasswordResetService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    mailer,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// RequestReset issues a reset token for the account with the given email.
// The outcome is identical whether or not the email belongs to an account, so
// the endpoint cannot be used to probe which addresses are registered.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	record := &models.PasswordResetToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.tokenTTL),
	}
	if err := s.resetRepo.ReplaceForUser(ctx, record); err != nil {
		return err
	}

	// Delivery happens off the request path; a transport failure must not
	// change the response, only the failure counter and the log.
	go func(to, tok string) {
		if err := s.mailer.SendPasswordReset(to, tok); err != nil {
			middleware.MailSendFailures.Inc()
			middleware.Logger.Error("password reset mail delivery failed",
				slog.String("error", err.Error()))
		}
	}(user.Email, record.Token)

	return nil
}

// ConfirmReset validates the token and sets the new password. The token is
// consumed whether it succeeds or turns out to be expired.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, tokenValue, newPassword string) error {
	if tokenValue == "" {
		return models.NewInvalidTokenError()
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	record, err := s.resetRepo.GetByToken(ctx, tokenValue)
	if err != nil {
		return err
	}
	if record == nil {
		return models.NewInvalidTokenError()
	}

	if record.Expired(s.now()) {
		// Expired tokens are dead on detection; leaving them around only
		// invites replay attempts.
		if err := s.resetRepo.DeleteByID(ctx, record.ID); err != nil {
			return err
		}
		return models.NewExpiredTokenError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	return s.resetRepo.ConsumeAndUpdatePassword(ctx, record.ID, record.UserID, string(hash))
}
