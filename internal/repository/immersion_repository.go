//go:generate mockery --name ImmersionRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ImmersionRepository interface {
	CreateShort(ctx context.Context, db *gorm.DB, short *model.ImmersionShort) error
	FindShortByID(ctx context.Context, db *gorm.DB, shortID uuid.UUID) (*model.ImmersionShort, error)
	// FindFeed は未視聴のショートを新しい順に返します。category が mix なら絞り込まない
	FindFeed(ctx context.Context, db *gorm.DB, userID uuid.UUID, category model.ShortCategory, limit int) ([]model.ImmersionShort, error)
	MarkWatched(ctx context.Context, db *gorm.DB, userID, shortID uuid.UUID) error
	// ToggleSave は保存状態を反転し、反転後の状態を返します
	ToggleSave(ctx context.Context, db *gorm.DB, userID, shortID uuid.UUID) (bool, error)
	FindSaved(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.ImmersionShort, error)
	CountWatched(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error)
}

type gormImmersionRepository struct{}

func NewGormImmersionRepository() ImmersionRepository {
	return &gormImmersionRepository{}
}

func (r *gormImmersionRepository) CreateShort(ctx context.Context, db *gorm.DB, short *model.ImmersionShort) error {
	logger := middleware.GetLogger(ctx)
	if err := db.WithContext(ctx).Create(short).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		logger.Error("Error creating short in DB", "error", err, "youtube_id", short.YoutubeID)
		return fmt.Errorf("gormImmersionRepository.CreateShort: %w", err)
	}
	return nil
}

func (r *gormImmersionRepository) FindShortByID(ctx context.Context, db *gorm.DB, shortID uuid.UUID) (*model.ImmersionShort, error) {
	logger := middleware.GetLogger(ctx)
	var short model.ImmersionShort
	if err := db.WithContext(ctx).Where("id = ?", shortID).First(&short).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding short by ID in DB", "error", err, "short_id", shortID.String())
		return nil, fmt.Errorf("gormImmersionRepository.FindShortByID: %w", err)
	}
	return &short, nil
}

func (r *gormImmersionRepository) FindFeed(ctx context.Context, db *gorm.DB, userID uuid.UUID, category model.ShortCategory, limit int) ([]model.ImmersionShort, error) {
	logger := middleware.GetLogger(ctx)
	var shorts []model.ImmersionShort

	query := db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM user_short_histories h WHERE h.short_id = learning_shorts.id AND h.user_id = ?)", userID)
	if category != "" && category != model.ShortCategoryMix {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("created_at DESC").Limit(limit).Find(&shorts).Error; err != nil {
		logger.Error("Error finding short feed in DB", "error", err, "user_id", userID.String(), "category", category)
		return nil, fmt.Errorf("gormImmersionRepository.FindFeed: %w", err)
	}
	return shorts, nil
}

func (r *gormImmersionRepository) MarkWatched(ctx context.Context, db *gorm.DB, userID, shortID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	history := &model.ShortWatchHistory{
		UserID:    userID,
		ShortID:   shortID,
		IsSaved:   false,
		WatchedAt: time.Now(),
	}
	// 2回目以降は視聴日時だけ更新し、保存状態は維持する
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "short_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
	}).Create(history).Error
	if err != nil {
		logger.Error("Error upserting watch history in DB", "error", err, "user_id", userID.String(), "short_id", shortID.String())
		return fmt.Errorf("gormImmersionRepository.MarkWatched: %w", err)
	}
	return nil
}

func (r *gormImmersionRepository) ToggleSave(ctx context.Context, db *gorm.DB, userID, shortID uuid.UUID) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var saved bool

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var history model.ShortWatchHistory
		err := tx.Where("user_id = ? AND short_id = ?", userID, shortID).First(&history).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			saved = true
			return tx.Create(&model.ShortWatchHistory{
				UserID:    userID,
				ShortID:   shortID,
				IsSaved:   true,
				WatchedAt: time.Now(),
			}).Error
		}
		if err != nil {
			return err
		}
		saved = !history.IsSaved
		return tx.Model(&model.ShortWatchHistory{}).
			Where("user_id = ? AND short_id = ?", userID, shortID).
			Update("is_saved", saved).Error
	})
	if err != nil {
		logger.Error("Error toggling saved short in DB", "error", err, "user_id", userID.String(), "short_id", shortID.String())
		return false, fmt.Errorf("gormImmersionRepository.ToggleSave: %w", err)
	}
	return saved, nil
}

func (r *gormImmersionRepository) FindSaved(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.ImmersionShort, error) {
	logger := middleware.GetLogger(ctx)
	var shorts []model.ImmersionShort

	err := db.WithContext(ctx).
		Joins("JOIN user_short_histories h ON h.short_id = learning_shorts.id").
		Where("h.user_id = ? AND h.is_saved = ?", userID, true).
		Order("h.watched_at DESC").
		Find(&shorts).Error
	if err != nil {
		logger.Error("Error finding saved shorts in DB", "error", err, "user_id", userID.String())
		return nil, fmt.Errorf("gormImmersionRepository.FindSaved: %w", err)
	}
	return shorts, nil
}

func (r *gormImmersionRepository) CountWatched(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	if err := db.WithContext(ctx).Model(&model.ShortWatchHistory{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		logger.Error("Error counting watched shorts in DB", "error", err, "user_id", userID.String())
		return 0, fmt.Errorf("gormImmersionRepository.CountWatched: %w", err)
	}
	return count, nil
}
