package model

import (
	"time"

	"github.com/google/uuid"
)

type TreeStage string

const (
	TreeStageSeed         TreeStage = "seed"
	TreeStageSprout       TreeStage = "sprout"
	TreeStageSapling      TreeStage = "sapling"
	TreeStageYoungTree    TreeStage = "young_tree"
	TreeStageMajesticTree TreeStage = "majestic_tree"
)

const (
	PointsPerStory = 10
	PointsPerShort = 1

	DefaultAvatar = "default_avatar"
)

// TreeStageFor は累計ポイントから木の成長段階を決めます
func TreeStageFor(points int) TreeStage {
	switch {
	case points >= 600:
		return TreeStageMajesticTree
	case points >= 300:
		return TreeStageYoungTree
	case points >= 100:
		return TreeStageSapling
	case points >= 20:
		return TreeStageSprout
	default:
		return TreeStageSeed
	}
}

type UserProfile struct {
	ID       uuid.UUID       `json:"id"`
	Identity ProfileIdentity `json:"identity"`
	Habit    ProfileHabit    `json:"habit"`
	Growth   ProfileGrowth   `json:"growth"`
}

type ProfileIdentity struct {
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Level     int       `json:"level"`
	JoinedAt  time.Time `json:"joined_at"`
}

type ProfileHabit struct {
	CurrentStreak  int        `json:"current_streak"`
	IsStreakActive bool       `json:"is_streak_active"`
	LastActiveDate *time.Time `json:"last_active_date,omitempty"`
}

type ProfileGrowth struct {
	TreeStage   TreeStage    `json:"tree_stage"`
	TotalPoints int          `json:"total_points"`
	Stats       ProfileStats `json:"stats"`
}

type ProfileStats struct {
	StoriesCompleted int `json:"stories_completed"`
	ShortsWatched    int `json:"shorts_watched"`
}

// UpdateProfileInput は nil の項目を変更しない
type UpdateProfileInput struct {
	FullName *string
	Avatar   *AvatarUpload
}

type AvatarUpload struct {
	Data        []byte
	ContentType string
}
