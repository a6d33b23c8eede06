package repository

import (
	"context"
	"testing"
	"time"

	"go_5_real_english/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_gormStoryTrailRepository_SaveAndFindByID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormStoryTrailRepository()

	t.Run("正常系: セグメントは order_index 順で返る", func(t *testing.T) {
		trail := newTestTrail(1, "Tom's evening")
		// 保存順を逆にしても読み出し順は order_index に従う
		trail.Segments[0], trail.Segments[1] = trail.Segments[1], trail.Segments[0]

		require.NoError(t, repo.Save(ctx, db, trail))

		got, err := repo.FindByID(ctx, db, trail.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tom's evening", got.Title)
		assert.Equal(t, 1, got.DifficultyLevel)
		require.Len(t, got.Segments, 2)

		narration, ok := got.Segments[0].(*model.NarrationSegment)
		require.True(t, ok, "first segment should be narration")
		assert.Equal(t, 0, narration.OrderIndex)
		assert.Nil(t, narration.AudioURL)

		challenge, ok := got.Segments[1].(*model.ChallengeSegment)
		require.True(t, ok, "second segment should be a challenge")
		want := trail.Segments[0].(*model.ChallengeSegment).Challenge
		assert.Equal(t, want.ID, challenge.Challenge.ID)
		assert.Equal(t, want.CorrectChoiceID, challenge.Challenge.CorrectChoiceID)
		require.Len(t, challenge.Challenge.Choices, 2)
		assert.Equal(t, want.Choices[0].ID, challenge.Challenge.Choices[0].ID)
		assert.Equal(t, want.Choices[1].ID, challenge.Challenge.Choices[1].ID)
	})

	t.Run("異常系: 存在しないID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, db, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("異常系: 正解IDが選択肢に無いトレイルは保存しない", func(t *testing.T) {
		trail := newTestTrail(1, "Broken")
		cs := trail.Segments[1].(*model.ChallengeSegment)
		cs.Challenge.CorrectChoiceID = uuid.New()

		err := repo.Save(ctx, db, trail)
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = repo.FindByID(ctx, db, trail.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("異常系: 同じIDの二重保存は ErrConflict", func(t *testing.T) {
		trail := newTestTrail(2, "Twice")
		require.NoError(t, repo.Save(ctx, db, trail))

		err := repo.Save(ctx, db, trail)
		assert.ErrorIs(t, err, model.ErrConflict)
	})
}

func Test_gormStoryTrailRepository_SaveIntegrity(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormStoryTrailRepository()

	countSegments := func(t *testing.T, trailID uuid.UUID) int64 {
		t.Helper()
		var n int64
		require.NoError(t, db.Model(&storySegmentRow{}).Where("story_trail_id = ?", trailID).Count(&n).Error)
		return n
	}

	t.Run("異常系: セグメントIDの重複は保存しない", func(t *testing.T) {
		trail := newTestTrail(1, "Same segment twice")
		cs := trail.Segments[1].(*model.ChallengeSegment)
		cs.ID = trail.Segments[0].Base().ID

		err := repo.Save(ctx, db, trail)
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = repo.FindByID(ctx, db, trail.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("異常系: 選択肢IDが設問IDと重複", func(t *testing.T) {
		trail := newTestTrail(1, "Choice clashes with challenge")
		cs := trail.Segments[1].(*model.ChallengeSegment)
		cs.Challenge.Choices[0].ID = cs.Challenge.ID

		assert.ErrorIs(t, repo.Save(ctx, db, trail), model.ErrInvalidInput)
	})

	t.Run("異常系: 別トレイルのセグメントIDを再利用すると ErrConflict で全体を巻き戻す", func(t *testing.T) {
		owner := newTestTrail(1, "Owner")
		require.NoError(t, repo.Save(ctx, db, owner))

		intruder := newTestTrail(1, "Intruder")
		narration := intruder.Segments[0].(*model.NarrationSegment)
		narration.ID = owner.Segments[0].Base().ID
		narration.TextContent = "Anna opened the window."

		err := repo.Save(ctx, db, intruder)
		assert.ErrorIs(t, err, model.ErrConflict)

		_, err = repo.FindByID(ctx, db, intruder.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)

		got, err := repo.FindByID(ctx, db, owner.ID)
		require.NoError(t, err)
		require.Len(t, got.Segments, 2)
		assert.Equal(t, "Tom finished his work at six.", got.Segments[0].Base().TextContent)
		assert.Equal(t, int64(2), countSegments(t, owner.ID))
	})

	t.Run("異常系: 別トレイルの選択肢IDを再利用すると ErrConflict", func(t *testing.T) {
		owner := newTestTrail(1, "Choice owner")
		require.NoError(t, repo.Save(ctx, db, owner))

		intruder := newTestTrail(1, "Choice intruder")
		ownerChoice := owner.Segments[1].(*model.ChallengeSegment).Challenge.Choices[0]
		cs := intruder.Segments[1].(*model.ChallengeSegment)
		cs.Challenge.Choices[0].ID = ownerChoice.ID

		assert.ErrorIs(t, repo.Save(ctx, db, intruder), model.ErrConflict)
		assert.Equal(t, int64(0), countSegments(t, intruder.ID))

		got, err := repo.FindByID(ctx, db, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, ownerChoice.Text, got.Segments[1].(*model.ChallengeSegment).Challenge.Choices[0].Text)
	})

	t.Run("異常系: 空白だけのナレーションは保存しない", func(t *testing.T) {
		trail := newTestTrail(1, "Blank narration")
		trail.Segments[0].(*model.NarrationSegment).TextContent = "   "

		assert.ErrorIs(t, repo.Save(ctx, db, trail), model.ErrInvalidInput)
	})

	t.Run("異常系: nil ポインタのセグメント", func(t *testing.T) {
		trail := newTestTrail(1, "Typed nil")
		trail.Segments[0] = (*model.NarrationSegment)(nil)

		assert.NotPanics(t, func() {
			assert.ErrorIs(t, repo.Save(ctx, db, trail), model.ErrInvalidInput)
		})
	})
}

func Test_gormStoryTrailRepository_OrderTieBreak(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormStoryTrailRepository()
	user := createTestUser(t, db, 6)

	a := newTestTrail(6, "Batch A")
	b := newTestTrail(6, "Batch B")
	require.NoError(t, repo.Save(ctx, db, a))
	require.NoError(t, repo.Save(ctx, db, b))

	// 同一バッチで作成された想定で作成日時を揃える
	sameTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&storyTrailRow{}).Where("difficulty_level = ?", 6).Update("created_at", sameTime).Error)

	want := a.ID
	if b.ID.String() < a.ID.String() {
		want = b.ID
	}

	for i := 0; i < 3; i++ {
		got, err := repo.FindNextIncompleteByLevel(ctx, db, 6, user.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got.ID)

		first, err := repo.FindFirstByLevel(ctx, db, 6)
		require.NoError(t, err)
		assert.Equal(t, want, first.ID)
	}
}

func Test_gormStoryTrailRepository_FindNextIncompleteByLevel(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormStoryTrailRepository()
	progressRepo := NewGormProgressRepository()

	user := createTestUser(t, db, 2)
	other := createTestUser(t, db, 2)

	first := newTestTrail(2, "First")
	second := newTestTrail(2, "Second")
	otherLevel := newTestTrail(3, "Level three")
	for _, tr := range []*model.Trail{first, second, otherLevel} {
		require.NoError(t, repo.Save(ctx, db, tr))
	}

	_, err := progressRepo.MarkCompleted(ctx, db, user.ID, first.ID)
	require.NoError(t, err)

	t.Run("正常系: 完了済みは除外される", func(t *testing.T) {
		got, err := repo.FindNextIncompleteByLevel(ctx, db, 2, user.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)
		assert.Len(t, got.Segments, 2)
	})

	t.Run("正常系: 他ユーザーの完了は影響しない", func(t *testing.T) {
		got, err := repo.FindNextIncompleteByLevel(ctx, db, 2, other.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.DifficultyLevel)
	})

	t.Run("異常系: すべて完了済みなら ErrNotFound", func(t *testing.T) {
		_, err := progressRepo.MarkCompleted(ctx, db, user.ID, second.ID)
		require.NoError(t, err)

		_, err = repo.FindNextIncompleteByLevel(ctx, db, 2, user.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("異常系: レベルにトレイルが無い", func(t *testing.T) {
		_, err := repo.FindNextIncompleteByLevel(ctx, db, 9, user.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func Test_gormStoryTrailRepository_FindFirstByLevel(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormStoryTrailRepository()

	trail := newTestTrail(4, "Only one")
	require.NoError(t, repo.Save(ctx, db, trail))

	got, err := repo.FindFirstByLevel(ctx, db, 4)
	require.NoError(t, err)
	assert.Equal(t, trail.ID, got.ID)

	_, err = repo.FindFirstByLevel(ctx, db, 5)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func Test_gormStoryTrailRepository_Segments(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormStoryTrailRepository()

	trail := newTestTrail(1, "Segments")
	require.NoError(t, repo.Save(ctx, db, trail))
	narrationID := trail.Segments[0].Base().ID
	challengeID := trail.Segments[1].Base().ID

	t.Run("正常系: ナレーションの音声URLを更新して読み戻せる", func(t *testing.T) {
		url := "https://assets.example.com/story-audio/" + narrationID.String() + ".wav"
		require.NoError(t, repo.UpdateSegmentAudioURL(ctx, db, narrationID, url))

		seg, err := repo.FindSegmentByID(ctx, db, narrationID)
		require.NoError(t, err)
		narration, ok := seg.(*model.NarrationSegment)
		require.True(t, ok)
		require.NotNil(t, narration.AudioURL)
		assert.Equal(t, url, *narration.AudioURL)
	})

	t.Run("正常系: 設問セグメントは設問付きで返る", func(t *testing.T) {
		seg, err := repo.FindSegmentByID(ctx, db, challengeID)
		require.NoError(t, err)
		cs, ok := seg.(*model.ChallengeSegment)
		require.True(t, ok)
		assert.Len(t, cs.Challenge.Choices, 2)
	})

	t.Run("異常系: 設問セグメントには音声URLを設定できない", func(t *testing.T) {
		err := repo.UpdateSegmentAudioURL(ctx, db, challengeID, "https://example.com/x.wav")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("異常系: 存在しないセグメント", func(t *testing.T) {
		_, err := repo.FindSegmentByID(ctx, db, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)

		err = repo.UpdateSegmentAudioURL(ctx, db, uuid.New(), "https://example.com/x.wav")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
