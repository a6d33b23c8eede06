package service_test

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

// newTestDB はトランザクション用の空の SQLite を返します (リポジトリはモック)
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func newTrail(level int, title string) *model.Trail {
	correct := model.Choice{ID: uuid.New(), Text: "Yes"}
	wrong := model.Choice{ID: uuid.New(), Text: "No"}
	return &model.Trail{
		ID:              uuid.New(),
		Title:           title,
		DifficultyLevel: level,
		Segments: []model.Segment{
			&model.NarrationSegment{SegmentBase: model.SegmentBase{ID: uuid.New(), OrderIndex: 0, TextContent: "Anna opens the door."}},
			&model.ChallengeSegment{
				SegmentBase: model.SegmentBase{ID: uuid.New(), OrderIndex: 1, TextContent: "Is the door open?"},
				Challenge: model.Challenge{
					ID:              uuid.New(),
					Prompt:          "Is the door open?",
					Choices:         []model.Choice{correct, wrong},
					CorrectChoiceID: correct.ID,
				},
			},
		},
	}
}
