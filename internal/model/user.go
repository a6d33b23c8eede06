package model

import (
	"time"

	"github.com/google/uuid"
)

// User は学習者。Level と ストリークはこのテーブルで管理する
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName      string     `gorm:"not null" json:"full_name"`
	Email         string     `gorm:"unique;not null" json:"email"`
	AvatarURL     *string    `json:"avatar_url,omitempty"`
	Level         int        `gorm:"not null;default:1" json:"level"`
	CurrentStreak int        `gorm:"not null;default:0" json:"current_streak"`
	LastActiveAt  *time.Time `json:"last_active_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// GORM用のリレーション (JSONには含めない)
	Identities []Identity `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// StreakState はストリーク計算の入出力
type StreakState struct {
	CurrentStreak int
	LastActiveAt  *time.Time
}

type ContextKey string

const (
	UserIDKey ContextKey = "userID"
)

// UserResponse はクライアントに返すユーザー情報
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Level     int       `json:"level"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Level:     u.Level,
	}
}
