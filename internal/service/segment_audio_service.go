//go:generate mockery --name SegmentAudioService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go_5_real_english/internal/metrics"
	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const audioContentType = "audio/wav"

type SegmentAudioService interface {
	// GetAudioURL はナレーションの音声URLを返します。未生成なら合成してアップロードし、URL を保存する
	GetAudioURL(ctx context.Context, segmentID uuid.UUID) (string, error)
}

type segmentAudioService struct {
	db          *gorm.DB
	trailRepo   repository.StoryTrailRepository
	synthesizer SpeechSynthesizer
	store       BlobStore
	metrics     *metrics.Metrics
}

func NewSegmentAudioService(db *gorm.DB, trailRepo repository.StoryTrailRepository, synthesizer SpeechSynthesizer, store BlobStore, m *metrics.Metrics) SegmentAudioService {
	return &segmentAudioService{
		db:          db,
		trailRepo:   trailRepo,
		synthesizer: synthesizer,
		store:       store,
		metrics:     m,
	}
}

func audioKey(segmentID uuid.UUID) string {
	return fmt.Sprintf("story-audio/%s.wav", segmentID)
}

func (s *segmentAudioService) GetAudioURL(ctx context.Context, segmentID uuid.UUID) (string, error) {
	logger := middleware.GetLogger(ctx).With("segment_id", segmentID)

	seg, err := s.trailRepo.FindSegmentByID(ctx, s.db, segmentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Segment not found")
			return "", model.NewAppError("SEGMENT_NOT_FOUND", "セグメントが見つかりません。", "segment_id", model.ErrNotFound)
		}
		logger.Error("Failed to find segment", "error", err)
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	narration, ok := seg.(*model.NarrationSegment)
	if !ok {
		logger.Warn("Audio requested for non-narration segment", "kind", seg.Kind())
		return "", model.NewAppError("INVALID_SEGMENT", "このセグメントには音声がありません。", "segment_id", model.ErrInvalidSegment)
	}
	if strings.TrimSpace(narration.TextContent) == "" {
		logger.Warn("Audio requested for empty narration")
		return "", model.NewAppError("INVALID_SEGMENT", "このセグメントには読み上げるテキストがありません。", "segment_id", model.ErrInvalidSegment)
	}

	if narration.AudioURL != nil && *narration.AudioURL != "" {
		s.metrics.AudioServed(metrics.AudioCached)
		return *narration.AudioURL, nil
	}

	// 同時に未生成のリクエストが来た場合は両方が合成し、後に書いた URL が残る
	audio, err := s.synthesizer.Synthesize(ctx, narration.TextContent)
	if err != nil {
		s.metrics.AudioServed(metrics.AudioFailed)
		logger.Error("Speech synthesis failed", "error", err)
		return "", model.NewAppError("GENERATION_FAILED", "音声の生成に失敗しました。", "", errors.Join(model.ErrGenerationFailed, err))
	}

	url, err := s.store.Put(ctx, audioKey(segmentID), audio, audioContentType)
	s.metrics.ExternalCall("blob_store", err)
	if err != nil {
		s.metrics.AudioServed(metrics.AudioFailed)
		logger.Error("Failed to upload segment audio", "error", err)
		return "", model.NewAppError("UPLOAD_FAILED", "音声の保存に失敗しました。", "", errors.Join(model.ErrPersistence, err))
	}

	if err := s.trailRepo.UpdateSegmentAudioURL(ctx, s.db, segmentID, url); err != nil {
		s.metrics.AudioServed(metrics.AudioFailed)
		logger.Error("Failed to persist segment audio URL", "error", err, "audio_url", url)
		return "", model.NewAppError("PERSISTENCE_FAILED", "音声URLの保存に失敗しました。", "", errors.Join(model.ErrPersistence, err))
	}

	s.metrics.AudioServed(metrics.AudioSynthesized)
	logger.Info("Segment audio materialized", "audio_url", url, "bytes", len(audio))
	return url, nil
}
