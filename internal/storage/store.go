package storage

import (
	"context"
	"fmt"
	"strings"

	"go_5_real_english/internal/config"
)

const (
	ProviderS3  = "s3"
	ProviderGCS = "gcs"
)

// Store はキーを受け取り公開URLを返すオブジェクトストレージ
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// New は storage.provider に応じた実装を返します
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderS3:
		s, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderGCS:
		s, err := NewGCSStore(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storage: unknown provider %q", cfg.Provider)
	}
}
