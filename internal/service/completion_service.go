//go:generate mockery --name CompletionService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"

	"go_5_real_english/internal/config"
	"go_5_real_english/internal/metrics"
	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type CompletionService interface {
	// CompleteTrail は完了を記録し、条件を満たせばレベルを上げます
	CompleteTrail(ctx context.Context, userID, trailID uuid.UUID) (*model.CompletionResult, error)
}

type completionService struct {
	db           *gorm.DB
	userRepo     repository.UserLevelStore
	trailRepo    repository.StoryTrailRepository
	progressRepo repository.ProgressRepository
	streak       StreakService
	threshold    int64
	metrics      *metrics.Metrics
}

func NewCompletionService(
	db *gorm.DB,
	userRepo repository.UserLevelStore,
	trailRepo repository.StoryTrailRepository,
	progressRepo repository.ProgressRepository,
	streak StreakService,
	cfg *config.Config,
	m *metrics.Metrics,
) CompletionService {
	threshold := int64(config.DefaultStoriesRequiredForLevelUp)
	if cfg != nil && cfg.App.StoriesRequiredForLevelUp > 0 {
		threshold = int64(cfg.App.StoriesRequiredForLevelUp)
	}
	return &completionService{
		db:           db,
		userRepo:     userRepo,
		trailRepo:    trailRepo,
		progressRepo: progressRepo,
		streak:       streak,
		threshold:    threshold,
		metrics:      m,
	}
}

func (s *completionService) CompleteTrail(ctx context.Context, userID, trailID uuid.UUID) (*model.CompletionResult, error) {
	logger := middleware.GetLogger(ctx).With("trail_id", trailID)

	var (
		user  *model.User
		trail *model.Trail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.userRepo.FindByID(gctx, s.db, userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		t, err := s.trailRepo.FindByID(gctx, s.db, trailID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("TRAIL_NOT_FOUND", "ストーリーが見つかりません。", "trail_id", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}
		trail = t
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Warn("Failed to load user or trail for completion", "error", err)
		return nil, err
	}

	firstTime, err := s.progressRepo.MarkCompleted(ctx, s.db, userID, trailID)
	if err != nil {
		logger.Error("Failed to record completion", "error", err)
		return nil, model.NewAppError("PERSISTENCE_FAILED", "完了の記録に失敗しました。", "", errors.Join(model.ErrPersistence, err))
	}
	s.metrics.CompletionRecorded(firstTime)

	// 完了は既に記録済み。ストリーク更新の失敗でレスポンスを失敗にしない
	if err := s.streak.RecordActivity(ctx, userID); err != nil {
		logger.Warn("Streak update failed after completion (non-fatal)", "error", err)
	}

	result := &model.CompletionResult{LeveledUp: false, NewLevel: user.Level}
	if !firstTime {
		logger.Info("Trail completed again, no level evaluation", "level", user.Level)
		return result, nil
	}
	if trail.DifficultyLevel != user.Level {
		logger.Info("Completed trail is not at the user's level", "level", user.Level, "trail_level", trail.DifficultyLevel)
		return result, nil
	}

	count, err := s.progressRepo.CountCompletedAtLevel(ctx, s.db, userID, user.Level)
	if err != nil {
		logger.Error("Failed to count completions at level", "error", err, "level", user.Level)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}
	if count < s.threshold {
		logger.Info("Level-up threshold not reached", "level", user.Level, "completed", count, "threshold", s.threshold)
		return result, nil
	}

	newLevel := user.Level + 1
	if err := s.userRepo.UpdateLevel(ctx, s.db, userID, newLevel); err != nil {
		logger.Error("Failed to update user level", "error", err, "new_level", newLevel)
		return nil, model.NewAppError("PERSISTENCE_FAILED", "レベルの更新に失敗しました。", "", errors.Join(model.ErrPersistence, err))
	}
	s.metrics.LevelUp()

	logger.Info("User leveled up", "from", user.Level, "to", newLevel)
	return &model.CompletionResult{LeveledUp: true, NewLevel: newLevel}, nil
}
