//go:generate mockery --name UserRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UserLevelStore はレベルの参照と更新
type UserLevelStore interface {
	FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error)
	// UpdateLevel は現在より大きい値にのみ更新します (レベルは下がらない)
	UpdateLevel(ctx context.Context, db *gorm.DB, userID uuid.UUID, newLevel int) error
}

// UserStreakStore はストリークの参照と更新
type UserStreakStore interface {
	FindStreak(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.StreakState, error)
	UpdateStreak(ctx context.Context, db *gorm.DB, userID uuid.UUID, state model.StreakState) error
}

type UserRepository interface {
	UserLevelStore
	UserStreakStore
	Create(ctx context.Context, db *gorm.DB, user *model.User) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID, fullName *string, avatarURL *string) error
}

type gormUserRepository struct{}

func NewGormUserRepository() UserRepository {
	return &gormUserRepository{}
}

func (r *gormUserRepository) Create(ctx context.Context, db *gorm.DB, user *model.User) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(user)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if (errors.As(result.Error, &pgErr) && pgErr.Code == "23505") || errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			logger.Warn("Duplicate key error on create user", "error", result.Error, "email", user.Email)
			return model.ErrConflict
		}
		logger.Error("Error creating user in DB", "error", result.Error, "email", user.Email)
		return fmt.Errorf("gormUserRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User

	result := db.WithContext(ctx).Where("id = ?", userID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by ID in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormUserRepository.FindByID: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User

	result := db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("User not found by email", "email", email)
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by email in DB", "error", result.Error, "email", email)
		return nil, fmt.Errorf("gormUserRepository.FindByEmail: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) UpdateLevel(ctx context.Context, db *gorm.DB, userID uuid.UUID, newLevel int) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND level < ?", userID, newLevel).
		Update("level", newLevel)
	if result.Error != nil {
		logger.Error("Error updating user level in DB", "error", result.Error, "user_id", userID.String(), "new_level", newLevel)
		return fmt.Errorf("gormUserRepository.UpdateLevel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// ユーザーが存在しないのか、既に同じか上のレベルなのかを区別する
		var count int64
		if err := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("gormUserRepository.UpdateLevel: %w", err)
		}
		if count == 0 {
			return model.ErrNotFound
		}
		logger.Warn("User level not raised: already at or above target", "user_id", userID.String(), "new_level", newLevel)
	}
	return nil
}

func (r *gormUserRepository) FindStreak(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.StreakState, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User

	result := db.WithContext(ctx).
		Select("id", "current_streak", "last_active_at").
		Where("id = ?", userID).
		First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user streak in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormUserRepository.FindStreak: %w", result.Error)
	}
	return &model.StreakState{CurrentStreak: user.CurrentStreak, LastActiveAt: user.LastActiveAt}, nil
}

func (r *gormUserRepository) UpdateStreak(ctx context.Context, db *gorm.DB, userID uuid.UUID, state model.StreakState) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"current_streak": state.CurrentStreak,
			"last_active_at": state.LastActiveAt,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		logger.Error("Error updating user streak in DB", "error", result.Error, "user_id", userID.String())
		return fmt.Errorf("gormUserRepository.UpdateStreak: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) UpdateProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID, fullName *string, avatarURL *string) error {
	logger := middleware.GetLogger(ctx)

	updates := map[string]interface{}{}
	if fullName != nil {
		updates["full_name"] = *fullName
	}
	if avatarURL != nil {
		updates["avatar_url"] = *avatarURL
	}
	if len(updates) == 0 {
		return nil
	}

	result := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating user profile in DB", "error", result.Error, "user_id", userID.String())
		return fmt.Errorf("gormUserRepository.UpdateProfile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
