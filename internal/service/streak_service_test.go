package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go_5_real_english/internal/model"
	"go_5_real_english/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func at(loc *time.Location, y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, loc)
}

func TestNextStreak(t *testing.T) {
	loc := time.UTC
	now := at(loc, 2026, 3, 10, 9)

	tests := []struct {
		name        string
		state       model.StreakState
		wantStreak  int
		wantChanged bool
	}{
		{name: "正常系: 初回は1", state: model.StreakState{}, wantStreak: 1, wantChanged: true},
		{name: "正常系: 同じ日は回数そのままで時刻だけ進む", state: streakAt(4, at(loc, 2026, 3, 10, 1)), wantStreak: 4, wantChanged: true},
		{name: "正常系: 同じ日でも記録より前の時刻なら変更なし", state: streakAt(4, at(loc, 2026, 3, 10, 11)), wantStreak: 4, wantChanged: false},
		{name: "正常系: 前日なら+1", state: streakAt(4, at(loc, 2026, 3, 9, 23)), wantStreak: 5, wantChanged: true},
		{name: "正常系: 2日空いたら1に戻る", state: streakAt(4, at(loc, 2026, 3, 8, 12)), wantStreak: 1, wantChanged: true},
		{name: "正常系: 前月の日付なら1に戻る", state: streakAt(2, at(loc, 2026, 2, 28, 12)), wantStreak: 1, wantChanged: true},
		{name: "正常系: 未来の日付なら変更しない", state: streakAt(3, at(loc, 2026, 3, 11, 0)), wantStreak: 3, wantChanged: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed := nextStreak(tt.state, now, loc)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantStreak, next.CurrentStreak)
			if changed {
				require.NotNil(t, next.LastActiveAt)
				assert.True(t, next.LastActiveAt.Equal(now))
			}
		})
	}
}

func TestNextStreak_MonthBoundaryConsecutive(t *testing.T) {
	loc := time.UTC
	next, changed := nextStreak(streakAt(7, at(loc, 2026, 2, 28, 20)), at(loc, 2026, 3, 1, 6), loc)
	assert.True(t, changed)
	assert.Equal(t, 8, next.CurrentStreak)
}

func TestNextStreak_UsesConfiguredTimezone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// UTC では同じ日だが、JST では前日と当日
	last := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC) // JST 23:00 (3/10)
	now := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)  // JST 01:00 (3/11)

	next, changed := nextStreak(streakAt(1, last), now, tokyo)
	assert.True(t, changed)
	assert.Equal(t, 2, next.CurrentStreak)

	// UTC では同日なので回数は増えない
	next, _ = nextStreak(streakAt(1, last), now, time.UTC)
	assert.Equal(t, 1, next.CurrentStreak)
}

func streakAt(n int, last time.Time) model.StreakState {
	return model.StreakState{CurrentStreak: n, LastActiveAt: &last}
}

func TestStreakService_RecordActivity(t *testing.T) {
	userID := uuid.New()
	day1 := at(time.UTC, 2026, 5, 1, 10)
	ctx := context.Background()

	t.Run("正常系: 連続した日で1ずつ増える", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		clock := day1
		svc := newStreakServiceWithClock(nil, repo, time.UTC, func() time.Time { return clock })

		state := &model.StreakState{}
		repo.On("FindStreak", mock.Anything, mock.Anything, userID).Return(state, nil)
		repo.On("UpdateStreak", mock.Anything, mock.Anything, userID, mock.AnythingOfType("model.StreakState")).
			Run(func(args mock.Arguments) {
				next := args.Get(3).(model.StreakState)
				*state = next
			}).Return(nil)

		for day, want := range []int{1, 2, 3} {
			clock = day1.AddDate(0, 0, day)
			require.NoError(t, svc.RecordActivity(ctx, userID))
			assert.Equal(t, want, state.CurrentStreak)
		}
	})

	t.Run("正常系: 同じ日の2回目は回数を変えず最終活動時刻を更新する", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		later := day1.Add(3 * time.Hour)
		svc := newStreakServiceWithClock(nil, repo, time.UTC, func() time.Time { return later })
		repo.On("FindStreak", mock.Anything, mock.Anything, userID).Return(&model.StreakState{CurrentStreak: 5, LastActiveAt: &day1}, nil).Once()
		repo.On("UpdateStreak", mock.Anything, mock.Anything, userID, mock.MatchedBy(func(s model.StreakState) bool {
			return s.CurrentStreak == 5 && s.LastActiveAt != nil && s.LastActiveAt.Equal(later)
		})).Return(nil).Once()

		require.NoError(t, svc.RecordActivity(ctx, userID))
	})

	t.Run("正常系: 時計が巻き戻っても更新しない", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		svc := newStreakServiceWithClock(nil, repo, time.UTC, func() time.Time { return day1.AddDate(0, 0, -1) })
		repo.On("FindStreak", mock.Anything, mock.Anything, userID).Return(&model.StreakState{CurrentStreak: 5, LastActiveAt: &day1}, nil).Once()

		require.NoError(t, svc.RecordActivity(ctx, userID))
		repo.AssertNotCalled(t, "UpdateStreak", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("正常系: 2日以上空くと1に戻る", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		svc := newStreakServiceWithClock(nil, repo, time.UTC, func() time.Time { return day1.AddDate(0, 0, 3) })
		repo.On("FindStreak", mock.Anything, mock.Anything, userID).Return(&model.StreakState{CurrentStreak: 9, LastActiveAt: &day1}, nil).Once()
		repo.On("UpdateStreak", mock.Anything, mock.Anything, userID, mock.MatchedBy(func(s model.StreakState) bool {
			return s.CurrentStreak == 1
		})).Return(nil).Once()

		require.NoError(t, svc.RecordActivity(ctx, userID))
	})

	t.Run("異常系: ユーザーが存在しない", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		svc := newStreakServiceWithClock(nil, repo, time.UTC, func() time.Time { return day1 })
		repo.On("FindStreak", mock.Anything, mock.Anything, userID).Return(nil, model.ErrNotFound).Once()

		assert.ErrorIs(t, svc.RecordActivity(ctx, userID), model.ErrNotFound)
	})

	t.Run("異常系: 更新失敗は ErrPersistence", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		svc := newStreakServiceWithClock(nil, repo, time.UTC, func() time.Time { return day1 })
		repo.On("FindStreak", mock.Anything, mock.Anything, userID).Return(&model.StreakState{}, nil).Once()
		repo.On("UpdateStreak", mock.Anything, mock.Anything, userID, mock.Anything).Return(errors.New("db down")).Once()

		assert.ErrorIs(t, svc.RecordActivity(ctx, userID), model.ErrPersistence)
	})
}
