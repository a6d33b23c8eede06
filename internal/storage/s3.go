// Package storage は生成した音声やアバター画像を公開オブジェクトストレージに保存します
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"go_5_real_english/internal/config"
	"go_5_real_english/internal/middleware"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store は S3 互換ストレージ (OBS を含む) への保存を行います
type S3Store struct {
	client  putObjectAPI
	bucket  string
	baseURL string
}

func NewS3Store(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.Endpoint == "" {
		return nil, errors.New("storage: s3 bucket and endpoint are required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("storage: s3 credentials are missing")
	}

	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		// OBS は仮想ホスト形式のアップロードに対応していない
		o.UsePathStyle = true
	})

	baseURL, err := publicBaseURL(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("S3 store configured", "bucket", cfg.Bucket, "endpoint", endpoint)
	return &S3Store{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// Put はオブジェクトを public-read で保存し、公開URLを返します
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	logger := middleware.GetLogger(ctx)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		logger.Error("Failed to upload object to S3", "error", err, "bucket", s.bucket, "key", key)
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}

	logger.Info("Object uploaded", "bucket", s.bucket, "key", key, "bytes", len(data))
	return s.baseURL + "/" + strings.TrimPrefix(key, "/"), nil
}

// publicBaseURL は読み出し用に仮想ホスト形式 https://{bucket}.{endpoint host} を組み立てます
func publicBaseURL(cfg config.S3Config) (string, error) {
	if cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(cfg.PublicBaseURL, "/"), nil
	}
	raw := cfg.Endpoint
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("storage: invalid s3 endpoint %q", cfg.Endpoint)
	}
	return fmt.Sprintf("https://%s.%s", cfg.Bucket, u.Host), nil
}
