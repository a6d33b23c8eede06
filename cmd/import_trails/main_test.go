package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go_5_real_english/internal/model"
	"go_5_real_english/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const trailsJSON = `[
  {
    "title": "At the Market",
    "difficulty_level": 1,
    "segments": [
      {"type": "narration", "text_content": "Lena buys apples."},
      {"type": "choiceChallenge", "text_content": "What does Lena buy?", "challenge": {
        "challenge_type": "singleChoice",
        "prompt": "What does Lena buy?",
        "choices": [
          {"id": "11111111-1111-1111-1111-111111111111", "text": "Apples"},
          {"id": "22222222-2222-2222-2222-222222222222", "text": "Bread"}
        ],
        "correct_choice_id": "11111111-1111-1111-1111-111111111111"
      }}
    ]
  }
]`

func TestReadTrails(t *testing.T) {
	t.Run("正常系: ID と順序を補う", func(t *testing.T) {
		trails, err := readTrails(writeFile(t, trailsJSON))
		require.NoError(t, err)
		require.Len(t, trails, 1)

		tr := trails[0]
		assert.NotEqual(t, uuid.Nil, tr.ID)
		require.Len(t, tr.Segments, 2)
		assert.Equal(t, 0, tr.Segments[0].Base().OrderIndex)
		assert.Equal(t, 1, tr.Segments[1].Base().OrderIndex)
		assert.NotEqual(t, uuid.Nil, tr.Segments[1].Base().ID)
		cs := tr.Segments[1].(*model.ChallengeSegment)
		assert.NotEqual(t, uuid.Nil, cs.Challenge.ID)
	})

	t.Run("異常系: 正解が選択肢に無い", func(t *testing.T) {
		broken := `[{"title":"X","difficulty_level":1,"segments":[{"type":"choiceChallenge","text_content":"?","challenge":{"prompt":"?","choices":[{"id":"11111111-1111-1111-1111-111111111111","text":"a"},{"id":"22222222-2222-2222-2222-222222222222","text":"b"}],"correct_choice_id":"33333333-3333-3333-3333-333333333333"}}]}]`
		_, err := readTrails(writeFile(t, broken))
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: セグメントIDの重複", func(t *testing.T) {
		dup := `[{"title":"X","difficulty_level":1,"segments":[
		  {"id":"44444444-4444-4444-4444-444444444444","type":"narration","text_content":"a"},
		  {"id":"44444444-4444-4444-4444-444444444444","type":"narration","text_content":"b"}]}]`
		_, err := readTrails(writeFile(t, dup))
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: 未知のセグメント種別", func(t *testing.T) {
		_, err := readTrails(writeFile(t, `[{"title":"X","difficulty_level":1,"segments":[{"type":"video"}]}]`))
		assert.Error(t, err)
	})
}

func TestReadShorts(t *testing.T) {
	shorts, err := readShorts(writeFile(t, `[{"youtube_id":"abc123","title":"Ordering coffee","category":"real_life"}]`))
	require.NoError(t, err)
	require.Len(t, shorts, 1)
	assert.Equal(t, model.ShortDifficultyBeginner, shorts[0].Difficulty)
	assert.NotEqual(t, uuid.Nil, shorts[0].ID)

	_, err = readShorts(writeFile(t, `[{"youtube_id":"abc123","title":"x","category":"mix"}]`))
	assert.Error(t, err)
}

func TestImportAll(t *testing.T) {
	ctx := context.Background()
	a := &model.Trail{ID: uuid.New(), Title: "A"}
	b := &model.Trail{ID: uuid.New(), Title: "B"}
	short := &model.ImmersionShort{ID: uuid.New(), YoutubeID: "yt1"}

	t.Run("正常系: 既存はスキップする", func(t *testing.T) {
		trailRepo := mocks.NewStoryTrailRepository(t)
		immersionRepo := mocks.NewImmersionRepository(t)
		trailRepo.On("Save", mock.Anything, mock.Anything, a).Return(nil).Once()
		trailRepo.On("Save", mock.Anything, mock.Anything, b).Return(model.ErrConflict).Once()
		immersionRepo.On("CreateShort", mock.Anything, mock.Anything, short).Return(nil).Once()

		imported, skipped, err := importAll(ctx, nil, trailRepo, immersionRepo, []*model.Trail{a, b}, []*model.ImmersionShort{short})
		require.NoError(t, err)
		assert.Equal(t, 2, imported)
		assert.Equal(t, 1, skipped)
	})

	t.Run("異常系: 保存エラーで中断する", func(t *testing.T) {
		trailRepo := mocks.NewStoryTrailRepository(t)
		immersionRepo := mocks.NewImmersionRepository(t)
		trailRepo.On("Save", mock.Anything, mock.Anything, a).Return(errors.New("db down")).Once()

		imported, _, err := importAll(ctx, nil, trailRepo, immersionRepo, []*model.Trail{a, b}, nil)
		assert.Error(t, err)
		assert.Equal(t, 0, imported)
	})
}
