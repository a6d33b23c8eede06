//go:generate mockery --name ImmersionService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxFeedLimit = 50

type ImmersionService interface {
	GetFeed(ctx context.Context, userID uuid.UUID, category model.ShortCategory, limit int) ([]model.ShortResponse, error)
	// MarkWatched は視聴を記録し、ストリークを更新します
	MarkWatched(ctx context.Context, userID, shortID uuid.UUID) error
	ToggleSave(ctx context.Context, userID, shortID uuid.UUID) (*model.ToggleSaveResponse, error)
	GetSaved(ctx context.Context, userID uuid.UUID) ([]model.ShortResponse, error)
}

type immersionService struct {
	db            *gorm.DB
	immersionRepo repository.ImmersionRepository
	streak        StreakService
	defaultLimit  int
}

func NewImmersionService(db *gorm.DB, immersionRepo repository.ImmersionRepository, streak StreakService, defaultLimit int) ImmersionService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &immersionService{
		db:            db,
		immersionRepo: immersionRepo,
		streak:        streak,
		defaultLimit:  defaultLimit,
	}
}

func (s *immersionService) GetFeed(ctx context.Context, userID uuid.UUID, category model.ShortCategory, limit int) ([]model.ShortResponse, error) {
	logger := middleware.GetLogger(ctx)

	if category == "" {
		category = model.ShortCategoryMix
	}
	if !category.Valid() {
		return nil, model.NewAppError("INVALID_CATEGORY", "カテゴリの指定が正しくありません。", "category", model.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	shorts, err := s.immersionRepo.FindFeed(ctx, s.db, userID, category, limit)
	if err != nil {
		logger.Error("Failed to load feed", "error", err, "category", category)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	// フィードは未視聴のみなので保存済みにはならない
	out := make([]model.ShortResponse, 0, len(shorts))
	for _, sh := range shorts {
		out = append(out, model.ShortResponse{ImmersionShort: sh, IsSaved: false})
	}
	return out, nil
}

func (s *immersionService) MarkWatched(ctx context.Context, userID, shortID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	if err := s.ensureShortExists(ctx, shortID); err != nil {
		return err
	}
	if err := s.immersionRepo.MarkWatched(ctx, s.db, userID, shortID); err != nil {
		logger.Error("Failed to record watch", "error", err, "short_id", shortID)
		return model.NewAppError("PERSISTENCE_FAILED", "視聴履歴の保存に失敗しました。", "", errors.Join(model.ErrPersistence, err))
	}
	// 視聴の記録は冪等なので、ストリークの失敗はそのまま返してクライアントに再試行させる
	if err := s.streak.RecordActivity(ctx, userID); err != nil {
		return err
	}
	logger.Info("Short watched", "short_id", shortID)
	return nil
}

func (s *immersionService) ToggleSave(ctx context.Context, userID, shortID uuid.UUID) (*model.ToggleSaveResponse, error) {
	logger := middleware.GetLogger(ctx)

	if err := s.ensureShortExists(ctx, shortID); err != nil {
		return nil, err
	}
	saved, err := s.immersionRepo.ToggleSave(ctx, s.db, userID, shortID)
	if err != nil {
		logger.Error("Failed to toggle save", "error", err, "short_id", shortID)
		return nil, model.NewAppError("PERSISTENCE_FAILED", "保存状態の更新に失敗しました。", "", errors.Join(model.ErrPersistence, err))
	}
	return &model.ToggleSaveResponse{ShortID: shortID, IsSaved: saved}, nil
}

func (s *immersionService) GetSaved(ctx context.Context, userID uuid.UUID) ([]model.ShortResponse, error) {
	logger := middleware.GetLogger(ctx)

	shorts, err := s.immersionRepo.FindSaved(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to load saved shorts", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}
	out := make([]model.ShortResponse, 0, len(shorts))
	for _, sh := range shorts {
		out = append(out, model.ShortResponse{ImmersionShort: sh, IsSaved: true})
	}
	return out, nil
}

func (s *immersionService) ensureShortExists(ctx context.Context, shortID uuid.UUID) error {
	if _, err := s.immersionRepo.FindShortByID(ctx, s.db, shortID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("SHORT_NOT_FOUND", "動画が見つかりません。", "short_id", model.ErrNotFound)
		}
		middleware.GetLogger(ctx).Error("Failed to find short", "error", err, "short_id", shortID)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}
	return nil
}
