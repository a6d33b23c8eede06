//go:generate mockery --name StoryGenerator --output ./mocks --outpkg mocks --case=underscore
//go:generate mockery --name SpeechSynthesizer --output ./mocks --outpkg mocks --case=underscore
//go:generate mockery --name BlobStore --output ./mocks --outpkg mocks --case=underscore
//go:generate mockery --name GoogleTokenVerifier --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"

	"go_5_real_english/internal/model"
)

// StoryGenerator はレベルに応じたトレイルを生成します。previousTitle は前レベルのタイトル (空なら文脈なし)
type StoryGenerator interface {
	GenerateStory(ctx context.Context, level int, previousTitle string) (*model.Trail, error)
}

// SpeechSynthesizer はテキストから WAV 音声を作ります
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// BlobStore はキーに対してデータを保存し、公開URLを返します
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// GoogleTokenVerifier は Google の ID トークンを検証します
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*model.GoogleIdentity, error)
}
