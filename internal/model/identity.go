package model

import "github.com/google/uuid"

const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

// Identity はログイン手段。1ユーザーが複数のプロバイダを持てる
type Identity struct {
	ID     uint      `gorm:"primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	// プロバイダとプロバイダ内IDの組で一意
	AuthProvider string `gorm:"type:varchar(50);not null;uniqueIndex:uq_identity_provider"`
	ProviderID   string `gorm:"not null;uniqueIndex:uq_identity_provider"` // local: email, google: sub

	// local の場合のみ
	PasswordHash *string `gorm:"default:null"`
}

func (Identity) TableName() string {
	return "identities"
}
