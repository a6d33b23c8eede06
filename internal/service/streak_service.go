//go:generate mockery --name StreakService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"time"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StreakService interface {
	// RecordActivity は今日の学習を記録し、連続日数を更新します
	RecordActivity(ctx context.Context, userID uuid.UUID) error
}

type streakService struct {
	db         *gorm.DB
	streakRepo repository.UserStreakStore
	loc        *time.Location
	now        func() time.Time
}

func NewStreakService(db *gorm.DB, streakRepo repository.UserStreakStore, loc *time.Location) StreakService {
	return newStreakServiceWithClock(db, streakRepo, loc, time.Now)
}

func newStreakServiceWithClock(db *gorm.DB, streakRepo repository.UserStreakStore, loc *time.Location, now func() time.Time) *streakService {
	if loc == nil {
		loc = time.UTC
	}
	return &streakService{db: db, streakRepo: streakRepo, loc: loc, now: now}
}

func (s *streakService) RecordActivity(ctx context.Context, userID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	state, err := s.streakRepo.FindStreak(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Failed to load streak", "error", err, "user_id", userID)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	now := s.now().In(s.loc)
	next, changed := nextStreak(*state, now, s.loc)
	if !changed {
		logger.Debug("Streak unchanged", "user_id", userID, "current_streak", state.CurrentStreak)
		return nil
	}

	if err := s.streakRepo.UpdateStreak(ctx, s.db, userID, next); err != nil {
		logger.Error("Failed to update streak", "error", err, "user_id", userID)
		return model.NewAppError("PERSISTENCE_FAILED", "学習記録の保存に失敗しました。", "", errors.Join(model.ErrPersistence, err))
	}
	logger.Info("Streak updated", "user_id", userID, "current_streak", next.CurrentStreak)
	return nil
}

// nextStreak は日付単位で次の状態を計算します。同日は最終活動時刻だけ進め、過去日付は変更なし
func nextStreak(state model.StreakState, now time.Time, loc *time.Location) (model.StreakState, bool) {
	today := dayOf(now, loc)
	if state.LastActiveAt == nil {
		return model.StreakState{CurrentStreak: 1, LastActiveAt: &now}, true
	}

	last := dayOf(*state.LastActiveAt, loc)
	switch {
	case today.Before(last):
		return state, false
	case today.Equal(last):
		if !now.After(*state.LastActiveAt) {
			return state, false
		}
		return model.StreakState{CurrentStreak: state.CurrentStreak, LastActiveAt: &now}, true
	case last.AddDate(0, 0, 1).Equal(today):
		return model.StreakState{CurrentStreak: state.CurrentStreak + 1, LastActiveAt: &now}, true
	default:
		return model.StreakState{CurrentStreak: 1, LastActiveAt: &now}, true
	}
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
