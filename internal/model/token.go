package model

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetOTP はメールで送る6桁コード。CodeHash は bcrypt
type PasswordResetOTP struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CodeHash  string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (PasswordResetOTP) TableName() string {
	return "password_reset_otps"
}

// PasswordResetToken は OTP 検証後に発行する一回限りのトークン
type PasswordResetToken struct {
	Token     string    `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
