package repository

import (
	"fmt"
	"testing"

	"go_5_real_english/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB はテストごとに独立したインメモリ SQLite を用意し、マイグレーションします
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to connect database for testing")
	require.NoError(t, AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func strPtr(s string) *string { return &s }

// newTestTrail はナレーション1つと設問1つを持つトレイルを作ります
func newTestTrail(level int, title string) *model.Trail {
	correct := model.Choice{ID: uuid.New(), Text: "He went home."}
	wrong := model.Choice{ID: uuid.New(), Text: "He stayed at work."}
	return &model.Trail{
		ID:              uuid.New(),
		Title:           title,
		Description:     strPtr("A short story for testing."),
		DifficultyLevel: level,
		Segments: []model.Segment{
			&model.NarrationSegment{SegmentBase: model.SegmentBase{
				ID: uuid.New(), OrderIndex: 0, TextContent: "Tom finished his work at six.",
			}},
			&model.ChallengeSegment{
				SegmentBase: model.SegmentBase{ID: uuid.New(), OrderIndex: 1, TextContent: "What did Tom do next?"},
				Challenge: model.Challenge{
					ID:              uuid.New(),
					Prompt:          "Choose the correct answer.",
					Choices:         []model.Choice{wrong, correct},
					CorrectChoiceID: correct.ID,
					CorrectFeedback: strPtr("Great!"),
				},
			},
		},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, level int) *model.User {
	t.Helper()
	u := &model.User{
		ID:       uuid.New(),
		FullName: "Test User",
		Email:    uuid.NewString() + "@example.com",
		Level:    level,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
