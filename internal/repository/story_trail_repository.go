//go:generate mockery --name StoryTrailRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoryTrailRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, trailID uuid.UUID) (*model.Trail, error)
	// FindNextIncompleteByLevel はユーザーが未完了のトレイルを作成順で1件返します。無ければ ErrNotFound
	FindNextIncompleteByLevel(ctx context.Context, db *gorm.DB, level int, userID uuid.UUID) (*model.Trail, error)
	FindFirstByLevel(ctx context.Context, db *gorm.DB, level int) (*model.Trail, error)
	// Save はトレイルとセグメント・設問・選択肢を1トランザクションで保存します
	Save(ctx context.Context, db *gorm.DB, trail *model.Trail) error
	FindSegmentByID(ctx context.Context, db *gorm.DB, segmentID uuid.UUID) (model.Segment, error)
	UpdateSegmentAudioURL(ctx context.Context, db *gorm.DB, segmentID uuid.UUID, audioURL string) error
}

// --- テーブル定義 ---

type storyTrailRow struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title           string    `gorm:"not null"`
	Description     *string   `gorm:"type:text"`
	ImageURL        *string
	DifficultyLevel int       `gorm:"not null;index"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time

	Segments []storySegmentRow `gorm:"foreignKey:StoryTrailID;constraint:OnDelete:CASCADE"`
}

func (storyTrailRow) TableName() string { return "story_trails" }

type storySegmentRow struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	StoryTrailID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_story_segment_order"`
	OrderIndex   int       `gorm:"not null;uniqueIndex:uq_story_segment_order"`
	Kind         string    `gorm:"type:varchar(30);not null"`
	TextContent  string    `gorm:"type:text;not null"`
	ImageURL     *string
	AudioURL     *string

	Challenge *segmentChallengeRow `gorm:"foreignKey:SegmentID;constraint:OnDelete:CASCADE"`
}

func (storySegmentRow) TableName() string { return "story_segments" }

type segmentChallengeRow struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	SegmentID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Prompt            string    `gorm:"type:text;not null"`
	CorrectChoiceID   uuid.UUID `gorm:"type:uuid;not null"`
	CorrectFeedback   *string   `gorm:"type:text"`
	IncorrectFeedback *string   `gorm:"type:text"`

	Choices []challengeChoiceRow `gorm:"foreignKey:ChallengeID;constraint:OnDelete:CASCADE"`
}

func (segmentChallengeRow) TableName() string { return "segment_challenges" }

type challengeChoiceRow struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChallengeID uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderIndex  int       `gorm:"not null"`
	Text        string    `gorm:"not null"`
	ImageURL    *string
}

func (challengeChoiceRow) TableName() string { return "challenge_choices" }

type gormStoryTrailRepository struct{}

func NewGormStoryTrailRepository() StoryTrailRepository {
	return &gormStoryTrailRepository{}
}

// withSegments はセグメント・設問・選択肢を並び順どおりに Preload します
func withSegments(db *gorm.DB) *gorm.DB {
	byOrder := func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }
	return db.
		Preload("Segments", byOrder).
		Preload("Segments.Challenge").
		Preload("Segments.Challenge.Choices", byOrder)
}

func (r *gormStoryTrailRepository) FindByID(ctx context.Context, db *gorm.DB, trailID uuid.UUID) (*model.Trail, error) {
	logger := middleware.GetLogger(ctx)
	var row storyTrailRow

	result := withSegments(db.WithContext(ctx)).Where("id = ?", trailID).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding story trail by ID in DB", "error", result.Error, "trail_id", trailID.String())
		return nil, fmt.Errorf("gormStoryTrailRepository.FindByID: %w", result.Error)
	}
	return row.toDomain()
}

func (r *gormStoryTrailRepository) FindNextIncompleteByLevel(ctx context.Context, db *gorm.DB, level int, userID uuid.UUID) (*model.Trail, error) {
	logger := middleware.GetLogger(ctx)
	var row storyTrailRow

	result := withSegments(db.WithContext(ctx)).
		Where("difficulty_level = ?", level).
		Where("NOT EXISTS (SELECT 1 FROM completed_stories cs WHERE cs.story_trail_id = story_trails.id AND cs.user_id = ?)", userID).
		Order("created_at ASC").Order("id ASC").
		First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("No incomplete story trail for level", "level", level, "user_id", userID.String())
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding incomplete story trail in DB", "error", result.Error, "level", level, "user_id", userID.String())
		return nil, fmt.Errorf("gormStoryTrailRepository.FindNextIncompleteByLevel: %w", result.Error)
	}
	return row.toDomain()
}

func (r *gormStoryTrailRepository) FindFirstByLevel(ctx context.Context, db *gorm.DB, level int) (*model.Trail, error) {
	logger := middleware.GetLogger(ctx)
	var row storyTrailRow

	result := withSegments(db.WithContext(ctx)).
		Where("difficulty_level = ?", level).
		Order("created_at ASC").Order("id ASC").
		First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding first story trail by level in DB", "error", result.Error, "level", level)
		return nil, fmt.Errorf("gormStoryTrailRepository.FindFirstByLevel: %w", result.Error)
	}
	return row.toDomain()
}

func (r *gormStoryTrailRepository) Save(ctx context.Context, db *gorm.DB, trail *model.Trail) error {
	logger := middleware.GetLogger(ctx)

	if err := trail.Validate(); err != nil {
		logger.Warn("Rejected story trail with integrity violation", "error", err, "trail_id", trail.ID.String())
		return err
	}

	rows := newStoryTrailRows(trail)
	// 関連の自動保存は主キー衝突を黙って upsert するので、階層ごとに明示的に INSERT する
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&rows.trail).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&rows.segments).Error; err != nil {
			return err
		}
		if len(rows.challenges) > 0 {
			if err := tx.Omit(clause.Associations).Create(&rows.challenges).Error; err != nil {
				return err
			}
		}
		if len(rows.choices) > 0 {
			if err := tx.Create(&rows.choices).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if (errors.As(err, &pgErr) && pgErr.Code == "23505") || errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Warn("Duplicate key error on save story trail", "error", err, "trail_id", trail.ID.String())
			return model.ErrConflict
		}
		logger.Error("Error saving story trail in DB", "error", err, "trail_id", trail.ID.String())
		return fmt.Errorf("gormStoryTrailRepository.Save: %w", err)
	}
	return nil
}

func (r *gormStoryTrailRepository) FindSegmentByID(ctx context.Context, db *gorm.DB, segmentID uuid.UUID) (model.Segment, error) {
	logger := middleware.GetLogger(ctx)
	var row storySegmentRow

	result := db.WithContext(ctx).
		Preload("Challenge").
		Preload("Challenge.Choices", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Where("id = ?", segmentID).
		First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding story segment by ID in DB", "error", result.Error, "segment_id", segmentID.String())
		return nil, fmt.Errorf("gormStoryTrailRepository.FindSegmentByID: %w", result.Error)
	}
	return row.toDomain()
}

func (r *gormStoryTrailRepository) UpdateSegmentAudioURL(ctx context.Context, db *gorm.DB, segmentID uuid.UUID, audioURL string) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).
		Model(&storySegmentRow{}).
		Where("id = ? AND kind = ?", segmentID, string(model.SegmentKindNarration)).
		Update("audio_url", audioURL)
	if result.Error != nil {
		logger.Error("Error updating segment audio url in DB", "error", result.Error, "segment_id", segmentID.String())
		return fmt.Errorf("gormStoryTrailRepository.UpdateSegmentAudioURL: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		logger.Warn("Narration segment not found for audio url update", "segment_id", segmentID.String())
		return model.ErrNotFound
	}
	return nil
}

// --- 変換 ---

// storyTrailRows は保存用に階層ごとへ展開した行
type storyTrailRows struct {
	trail      storyTrailRow
	segments   []storySegmentRow
	challenges []segmentChallengeRow
	choices    []challengeChoiceRow
}

func newStoryTrailRows(t *model.Trail) storyTrailRows {
	rows := storyTrailRows{
		trail: storyTrailRow{
			ID:              t.ID,
			Title:           t.Title,
			Description:     t.Description,
			ImageURL:        t.ImageURL,
			DifficultyLevel: t.DifficultyLevel,
		},
		segments: make([]storySegmentRow, 0, len(t.Segments)),
	}
	for _, seg := range t.Segments {
		base := seg.Base()
		sr := storySegmentRow{
			ID:           base.ID,
			StoryTrailID: t.ID,
			OrderIndex:   base.OrderIndex,
			Kind:         string(seg.Kind()),
			TextContent:  base.TextContent,
			ImageURL:     base.ImageURL,
		}
		switch s := seg.(type) {
		case *model.NarrationSegment:
			sr.AudioURL = s.AudioURL
		case *model.ChallengeSegment:
			c := s.Challenge
			rows.challenges = append(rows.challenges, segmentChallengeRow{
				ID:                c.ID,
				SegmentID:         base.ID,
				Prompt:            c.Prompt,
				CorrectChoiceID:   c.CorrectChoiceID,
				CorrectFeedback:   c.CorrectFeedback,
				IncorrectFeedback: c.IncorrectFeedback,
			})
			for i, ch := range c.Choices {
				rows.choices = append(rows.choices, challengeChoiceRow{
					ID:          ch.ID,
					ChallengeID: c.ID,
					OrderIndex:  i,
					Text:        ch.Text,
					ImageURL:    ch.ImageURL,
				})
			}
		}
		rows.segments = append(rows.segments, sr)
	}
	return rows
}

func (row *storyTrailRow) toDomain() (*model.Trail, error) {
	trail := &model.Trail{
		ID:              row.ID,
		Title:           row.Title,
		Description:     row.Description,
		ImageURL:        row.ImageURL,
		DifficultyLevel: row.DifficultyLevel,
		Segments:        make([]model.Segment, 0, len(row.Segments)),
	}
	for i := range row.Segments {
		seg, err := row.Segments[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("trail %s: %w", row.ID, err)
		}
		trail.Segments = append(trail.Segments, seg)
	}
	return trail, nil
}

func (row *storySegmentRow) toDomain() (model.Segment, error) {
	base := model.SegmentBase{
		ID:          row.ID,
		OrderIndex:  row.OrderIndex,
		TextContent: row.TextContent,
		ImageURL:    row.ImageURL,
	}
	switch model.SegmentKind(row.Kind) {
	case model.SegmentKindNarration:
		return &model.NarrationSegment{SegmentBase: base, AudioURL: row.AudioURL}, nil
	case model.SegmentKindChoiceChallenge:
		if row.Challenge == nil {
			return nil, fmt.Errorf("%w: challenge segment %s has no challenge row", model.ErrInternalServer, row.ID)
		}
		c := model.Challenge{
			ID:                row.Challenge.ID,
			Prompt:            row.Challenge.Prompt,
			CorrectChoiceID:   row.Challenge.CorrectChoiceID,
			CorrectFeedback:   row.Challenge.CorrectFeedback,
			IncorrectFeedback: row.Challenge.IncorrectFeedback,
			Choices:           make([]model.Choice, 0, len(row.Challenge.Choices)),
		}
		for _, ch := range row.Challenge.Choices {
			c.Choices = append(c.Choices, model.Choice{ID: ch.ID, Text: ch.Text, ImageURL: ch.ImageURL})
		}
		return &model.ChallengeSegment{SegmentBase: base, Challenge: c}, nil
	default:
		return nil, fmt.Errorf("%w: segment %s has unknown kind %q", model.ErrInternalServer, row.ID, row.Kind)
	}
}
