package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"go_5_real_english/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.S3Config
		want string
	}{
		{
			name: "正常系: スキーム付きエンドポイント",
			cfg:  config.S3Config{Bucket: "real-english-assets", Endpoint: "https://obsv3.et-global-1.ethiotelecom.et"},
			want: "https://real-english-assets.obsv3.et-global-1.ethiotelecom.et",
		},
		{
			name: "正常系: スキームなしエンドポイント",
			cfg:  config.S3Config{Bucket: "b", Endpoint: "s3.example.com"},
			want: "https://b.s3.example.com",
		},
		{
			name: "正常系: 公開URLの指定が優先",
			cfg:  config.S3Config{Bucket: "b", Endpoint: "s3.example.com", PublicBaseURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := publicBaseURL(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestS3Store_Put(t *testing.T) {
	t.Run("正常系: public-read で保存し公開URLを返す", func(t *testing.T) {
		fake := &fakeS3{}
		store := &S3Store{client: fake, bucket: "assets", baseURL: "https://assets.s3.example.com"}

		url, err := store.Put(context.Background(), "story-audio/abc.wav", []byte("RIFF"), "audio/wav")
		require.NoError(t, err)
		assert.Equal(t, "https://assets.s3.example.com/story-audio/abc.wav", url)
		assert.Equal(t, "assets", aws.ToString(fake.input.Bucket))
		assert.Equal(t, "story-audio/abc.wav", aws.ToString(fake.input.Key))
		assert.Equal(t, "audio/wav", aws.ToString(fake.input.ContentType))
		assert.Equal(t, types.ObjectCannedACLPublicRead, fake.input.ACL)
		assert.Equal(t, []byte("RIFF"), fake.body)
	})

	t.Run("異常系: アップロード失敗", func(t *testing.T) {
		fake := &fakeS3{err: errors.New("access denied")}
		store := &S3Store{client: fake, bucket: "assets", baseURL: "https://assets.s3.example.com"}

		url, err := store.Put(context.Background(), "k", nil, "audio/wav")
		assert.Error(t, err)
		assert.Empty(t, url)
	})
}

func TestGCSStore_PublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/bkt/avatars/a.png", (&GCSStore{bucket: "bkt"}).PublicURL("avatars/a.png"))
	assert.Equal(t, "https://cdn.example.com/avatars/a.png", (&GCSStore{bucket: "bkt", cdnDomain: "cdn.example.com"}).PublicURL("avatars/a.png"))
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Provider: "azure"})
	assert.Error(t, err)
}
