//go:generate mockery --name StoryTrailService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"time"

	"go_5_real_english/internal/metrics"
	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoryTrailService interface {
	// GetNextTrail は未完了のトレイルを返し、なければ生成して保存します
	GetNextTrail(ctx context.Context, level int, userID uuid.UUID) (*model.Trail, error)
	GetTrailByID(ctx context.Context, trailID uuid.UUID) (*model.Trail, error)
}

type storyTrailService struct {
	db        *gorm.DB
	trailRepo repository.StoryTrailRepository
	generator StoryGenerator
	metrics   *metrics.Metrics
}

func NewStoryTrailService(db *gorm.DB, trailRepo repository.StoryTrailRepository, generator StoryGenerator, m *metrics.Metrics) StoryTrailService {
	return &storyTrailService{
		db:        db,
		trailRepo: trailRepo,
		generator: generator,
		metrics:   m,
	}
}

func (s *storyTrailService) GetNextTrail(ctx context.Context, level int, userID uuid.UUID) (*model.Trail, error) {
	// 不正なレベルはエラーにせず 1 として扱う
	if level < 1 {
		level = 1
	}
	logger := middleware.GetLogger(ctx).With("level", level)

	trail, err := s.trailRepo.FindNextIncompleteByLevel(ctx, s.db, level, userID)
	if err == nil {
		logger.Debug("Serving existing trail", "trail_id", trail.ID)
		s.metrics.TrailServed(metrics.TrailExisting)
		return trail, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		logger.Error("Failed to find next incomplete trail", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "トレイルの取得に失敗しました。", "", err)
	}

	previousTitle := s.previousLevelTitle(ctx, level)

	logger.Info("No incomplete trail, generating a new one", "previous_title", previousTitle)
	start := time.Now()
	generated, err := s.generator.GenerateStory(ctx, level, previousTitle)
	s.metrics.ObserveGeneration(time.Since(start).Seconds())
	if err != nil {
		s.metrics.TrailServed(metrics.TrailGenerationFailed)
		logger.Error("Story generation failed", "error", err)
		return nil, model.NewAppError("GENERATION_FAILED", "ストーリーの生成に失敗しました。時間をおいて再度お試しください。", "", errors.Join(model.ErrGenerationFailed, err))
	}
	if generated == nil {
		s.metrics.TrailServed(metrics.TrailGenerationFailed)
		return nil, model.NewAppError("GENERATION_FAILED", "ストーリーの生成に失敗しました。", "", model.ErrGenerationFailed)
	}
	generated.DifficultyLevel = level

	if err := s.trailRepo.Save(ctx, s.db, generated); err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			// 生成結果の整合性違反は生成失敗として扱う
			s.metrics.TrailServed(metrics.TrailGenerationFailed)
			logger.Warn("Generated trail failed integrity check", "error", err)
			return nil, model.NewAppError("GENERATION_FAILED", "生成されたストーリーが不正な形式でした。", "", errors.Join(model.ErrGenerationFailed, err))
		}
		logger.Error("Failed to save generated trail", "error", err, "trail_id", generated.ID)
		return nil, model.NewAppError("PERSISTENCE_FAILED", "ストーリーの保存に失敗しました。", "", errors.Join(model.ErrPersistence, err))
	}

	s.metrics.TrailServed(metrics.TrailGenerated)
	logger.Info("Generated trail saved", "trail_id", generated.ID, "title", generated.Title)
	return generated, nil
}

// previousLevelTitle は前レベルの最初のトレイルのタイトルを返します。取得できなければ空文字
func (s *storyTrailService) previousLevelTitle(ctx context.Context, level int) string {
	if level <= 1 {
		return ""
	}
	prev, err := s.trailRepo.FindFirstByLevel(ctx, s.db, level-1)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			middleware.GetLogger(ctx).Warn("Failed to load previous level trail, generating without context", "error", err, "level", level-1)
		}
		return ""
	}
	return prev.Title
}

func (s *storyTrailService) GetTrailByID(ctx context.Context, trailID uuid.UUID) (*model.Trail, error) {
	logger := middleware.GetLogger(ctx)

	trail, err := s.trailRepo.FindByID(ctx, s.db, trailID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Trail not found", "trail_id", trailID)
			return nil, model.NewAppError("TRAIL_NOT_FOUND", "ストーリーが見つかりません。", "trail_id", model.ErrNotFound)
		}
		logger.Error("Failed to find trail", "error", err, "trail_id", trailID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}
	return trail, nil
}
