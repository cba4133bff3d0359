// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ResetTokenRepository defines persistence operations for password reset tokens.
type ResetTokenRepository interface {
	ReplaceForUser(ctx context.Context, token *models.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	DeleteByID(ctx context.Context, id uint) error
	ConsumeAndUpdatePassword(ctx context.Context, tokenID, userID uint, passwordHash string) error
}

type resetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository returns a new ResetTokenRepository implementation.
func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

// ReplaceForUser atomically discards any live token for the user and stores the
// new one, keeping the at-most-one-live-token invariant.
func (r *resetTokenRepository) ReplaceForUser(ctx context.Context, token *models.PasswordResetToken) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).
			Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByToken returns (nil, nil) when the token is unknown.
func (r *resetTokenRepository) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var record models.PasswordResetToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &record, nil
}

func (r *resetTokenRepository) DeleteByID(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.PasswordResetToken{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ConsumeAndUpdatePassword writes the new password hash and deletes the token
// in one transaction so a token can never authorize two changes.
func (r *resetTokenRepository) ConsumeAndUpdatePassword(ctx context.Context, tokenID, userID uint, passwordHash string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.PasswordResetToken{}, tokenID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Another request consumed it first.
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("password", passwordHash).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewInvalidTokenError()
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
