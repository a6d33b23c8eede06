package model

import (
	"time"

	"github.com/google/uuid"
)

type ShortCategory string

const (
	ShortCategoryFunny      ShortCategory = "funny"
	ShortCategoryRealLife   ShortCategory = "real_life"
	ShortCategoryMotivation ShortCategory = "motivation"
	ShortCategoryCulture    ShortCategory = "culture"
	// mix はフィードでカテゴリを絞らない
	ShortCategoryMix ShortCategory = "mix"
)

func (c ShortCategory) Valid() bool {
	switch c {
	case ShortCategoryFunny, ShortCategoryRealLife, ShortCategoryMotivation, ShortCategoryCulture, ShortCategoryMix:
		return true
	}
	return false
}

type ShortDifficulty string

const (
	ShortDifficultyBeginner     ShortDifficulty = "beginner"
	ShortDifficultyIntermediate ShortDifficulty = "intermediate"
	ShortDifficultyAdvanced     ShortDifficulty = "advanced"
)

// ImmersionShort は学習用ショート動画 (YouTube)
type ImmersionShort struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	YoutubeID    string          `gorm:"uniqueIndex;not null" json:"youtube_id"`
	Title        string          `gorm:"not null" json:"title"`
	Description  *string         `json:"description,omitempty"`
	ThumbnailURL string          `gorm:"not null" json:"thumbnail_url"`
	ChannelName  string          `gorm:"not null" json:"channel_name"`
	Difficulty   ShortDifficulty `gorm:"type:varchar(20);not null;default:beginner" json:"difficulty"`
	Category     ShortCategory   `gorm:"type:varchar(20);not null;index" json:"category"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

func (ImmersionShort) TableName() string {
	return "learning_shorts"
}

// ShortWatchHistory は視聴と保存の状態。(user_id, short_id) で一意
type ShortWatchHistory struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShortID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	IsSaved   bool      `gorm:"not null;default:false"`
	WatchedAt time.Time `gorm:"not null"`
}

func (ShortWatchHistory) TableName() string {
	return "user_short_histories"
}

// ShortResponse はフィード・保存一覧の要素
type ShortResponse struct {
	ImmersionShort
	IsSaved bool `json:"is_saved"`
}

type ToggleSaveResponse struct {
	ShortID uuid.UUID `json:"short_id"`
	IsSaved bool      `json:"is_saved"`
}
