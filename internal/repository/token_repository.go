//go:generate mockery --name TokenRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenRepository interface {
	// ReplacePasswordResetOTP はユーザーの既存 OTP を破棄して新しいものを保存します
	ReplacePasswordResetOTP(ctx context.Context, db *gorm.DB, otp *model.PasswordResetOTP) error
	FindLatestPasswordResetOTP(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.PasswordResetOTP, error)
	DeletePasswordResetOTPs(ctx context.Context, db *gorm.DB, userID uuid.UUID) error
	CreatePasswordResetToken(ctx context.Context, db *gorm.DB, token *model.PasswordResetToken) error
	FindPasswordResetToken(ctx context.Context, db *gorm.DB, token string) (*model.PasswordResetToken, error)
	DeletePasswordResetToken(ctx context.Context, db *gorm.DB, token string) error
}

type gormTokenRepository struct{}

func NewGormTokenRepository() TokenRepository {
	return &gormTokenRepository{}
}

func (r *gormTokenRepository) ReplacePasswordResetOTP(ctx context.Context, db *gorm.DB, otp *model.PasswordResetOTP) error {
	logger := middleware.GetLogger(ctx)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", otp.UserID).Delete(&model.PasswordResetOTP{}).Error; err != nil {
			logger.Error("Failed to delete previous password reset otps", "error", err, "user_id", otp.UserID.String())
			return fmt.Errorf("gormTokenRepository.ReplacePasswordResetOTP: %w", err)
		}
		if err := tx.Create(otp).Error; err != nil {
			logger.Error("Failed to create password reset otp", "error", err, "user_id", otp.UserID.String())
			return fmt.Errorf("gormTokenRepository.ReplacePasswordResetOTP: %w", err)
		}
		return nil
	})
}

func (r *gormTokenRepository) FindLatestPasswordResetOTP(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.PasswordResetOTP, error) {
	logger := middleware.GetLogger(ctx)
	var otp model.PasswordResetOTP
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Failed to find password reset otp", "error", err)
		return nil, fmt.Errorf("gormTokenRepository.FindLatestPasswordResetOTP: %w", err)
	}
	return &otp, nil
}

func (r *gormTokenRepository) DeletePasswordResetOTPs(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.PasswordResetOTP{}).Error; err != nil {
		logger.Error("Failed to delete password reset otps", "error", err)
		return fmt.Errorf("gormTokenRepository.DeletePasswordResetOTPs: %w", err)
	}
	return nil
}

func (r *gormTokenRepository) CreatePasswordResetToken(ctx context.Context, db *gorm.DB, token *model.PasswordResetToken) error {
	logger := middleware.GetLogger(ctx)
	if err := db.WithContext(ctx).Create(token).Error; err != nil {
		logger.Error("Failed to create password reset token", "error", err)
		return fmt.Errorf("gormTokenRepository.CreatePasswordResetToken: %w", err)
	}
	return nil
}

func (r *gormTokenRepository) FindPasswordResetToken(ctx context.Context, db *gorm.DB, tokenStr string) (*model.PasswordResetToken, error) {
	logger := middleware.GetLogger(ctx)
	var token model.PasswordResetToken
	if err := db.WithContext(ctx).Where("token = ?", tokenStr).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Failed to find password reset token", "error", err)
		return nil, fmt.Errorf("gormTokenRepository.FindPasswordResetToken: %w", err)
	}
	return &token, nil
}

func (r *gormTokenRepository) DeletePasswordResetToken(ctx context.Context, db *gorm.DB, tokenStr string) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Where("token = ?", tokenStr).Delete(&model.PasswordResetToken{})
	if result.Error != nil {
		logger.Error("Failed to delete password reset token", "error", result.Error)
		return fmt.Errorf("gormTokenRepository.DeletePasswordResetToken: %w", result.Error)
	}
	return nil
}
