//go:generate mockery --name ProgressRepository --output ./mocks --outpkg mocks --case=underscore
// internal/repository/progress_repository.go
package repository

import (
	"context"
	"fmt"
	"time"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	// MarkCompleted は完了記録を作成し、今回が初回なら true を返します。重複はエラーにしない
	MarkCompleted(ctx context.Context, db *gorm.DB, userID, trailID uuid.UUID) (bool, error)
	// CountCompletedAtLevel は指定レベルのトレイルのうちユーザーが完了した数
	CountCompletedAtLevel(ctx context.Context, db *gorm.DB, userID uuid.UUID, level int) (int64, error)
	CountCompleted(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) MarkCompleted(ctx context.Context, db *gorm.DB, userID, trailID uuid.UUID) (bool, error) {
	logger := middleware.GetLogger(ctx)

	record := &model.CompletedStory{
		UserID:       userID,
		StoryTrailID: trailID,
		CompletedAt:  time.Now(),
	}
	// 同時リクエストでも初回は1回だけ: 競合は DO NOTHING で RowsAffected=0 になる
	result := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record)
	if result.Error != nil {
		logger.Error(
			"Error marking story trail as completed in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"trail_id", trailID.String(),
		)
		return false, fmt.Errorf("gormProgressRepository.MarkCompleted: %w", result.Error)
	}

	firstTime := result.RowsAffected == 1
	if !firstTime {
		logger.Debug("Story trail already completed", "user_id", userID.String(), "trail_id", trailID.String())
	}
	return firstTime, nil
}

func (r *gormProgressRepository) CountCompletedAtLevel(ctx context.Context, db *gorm.DB, userID uuid.UUID, level int) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64

	result := db.WithContext(ctx).
		Model(&model.CompletedStory{}).
		Joins("JOIN story_trails ON story_trails.id = completed_stories.story_trail_id").
		Where("completed_stories.user_id = ? AND story_trails.difficulty_level = ?", userID, level).
		Count(&count)
	if result.Error != nil {
		logger.Error("Error counting completed story trails at level", "error", result.Error, "user_id", userID.String(), "level", level)
		return 0, fmt.Errorf("gormProgressRepository.CountCompletedAtLevel: %w", result.Error)
	}
	return count, nil
}

func (r *gormProgressRepository) CountCompleted(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64

	result := db.WithContext(ctx).Model(&model.CompletedStory{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		logger.Error("Error counting completed story trails", "error", result.Error, "user_id", userID.String())
		return 0, fmt.Errorf("gormProgressRepository.CountCompleted: %w", result.Error)
	}
	return count, nil
}
