// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// CompletedStory はユーザーがトレイルを完了した記録。(user_id, story_trail_id) で一意
type CompletedStory struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	StoryTrailID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CompletedAt  time.Time `gorm:"not null"`
}

func (CompletedStory) TableName() string {
	return "completed_stories"
}

// CompletionResult はトレイル完了APIの結果。NewLevel は常に処理後のレベル
type CompletionResult struct {
	LeveledUp bool `json:"leveled_up"`
	NewLevel  int  `json:"new_level"`
}
