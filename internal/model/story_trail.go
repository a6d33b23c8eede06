package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type SegmentKind string

const (
	SegmentKindNarration       SegmentKind = "narration"
	SegmentKindChoiceChallenge SegmentKind = "choiceChallenge"
)

// 現在サポートしているチャレンジ形式は単一選択のみ
const ChallengeTypeSingleChoice = "singleChoice"

// Trail は難易度レベルに紐づく短いストーリー
type Trail struct {
	ID              uuid.UUID
	Title           string
	Description     *string
	ImageURL        *string
	DifficultyLevel int
	// OrderIndex の昇順
	Segments []Segment
}

// SegmentBase はすべてのセグメント種別に共通する項目
type SegmentBase struct {
	ID          uuid.UUID
	OrderIndex  int
	TextContent string
	ImageURL    *string
}

func (b SegmentBase) Base() SegmentBase { return b }

// Segment は *NarrationSegment か *ChallengeSegment のいずれか
type Segment interface {
	Kind() SegmentKind
	Base() SegmentBase
}

// NarrationSegment は読み上げ対象のテキスト。AudioURL は合成済み音声の公開URL (未生成なら nil)
type NarrationSegment struct {
	SegmentBase
	AudioURL *string
}

func (*NarrationSegment) Kind() SegmentKind { return SegmentKindNarration }

// ChallengeSegment は設問を必ず1つ持つ
type ChallengeSegment struct {
	SegmentBase
	Challenge Challenge
}

func (*ChallengeSegment) Kind() SegmentKind { return SegmentKindChoiceChallenge }

type Challenge struct {
	ID                uuid.UUID `json:"id"`
	Prompt            string    `json:"prompt"`
	Choices           []Choice  `json:"choices"`
	CorrectChoiceID   uuid.UUID `json:"correct_choice_id"`
	CorrectFeedback   *string   `json:"correct_feedback,omitempty"`
	IncorrectFeedback *string   `json:"incorrect_feedback,omitempty"`
}

type Choice struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	ImageURL *string   `json:"image_url,omitempty"`
}

// Validate は保存前の整合性チェック。違反は ErrInvalidInput をラップして返す
func (t *Trail) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: trail title is empty", ErrInvalidInput)
	}
	if t.DifficultyLevel < 1 {
		return fmt.Errorf("%w: difficulty level %d is below 1", ErrInvalidInput, t.DifficultyLevel)
	}
	if len(t.Segments) == 0 {
		return fmt.Errorf("%w: trail has no segments", ErrInvalidInput)
	}

	seenOrder := make(map[int]struct{}, len(t.Segments))
	// セグメント・設問・選択肢の ID はトレイル内で一意
	seenID := make(map[uuid.UUID]struct{})
	claimID := func(id uuid.UUID, what string) error {
		if id == uuid.Nil {
			return fmt.Errorf("%w: %s has nil id", ErrInvalidInput, what)
		}
		if _, dup := seenID[id]; dup {
			return fmt.Errorf("%w: duplicate %s id %s", ErrInvalidInput, what, id)
		}
		seenID[id] = struct{}{}
		return nil
	}

	for i, seg := range t.Segments {
		switch s := seg.(type) {
		case *NarrationSegment:
			if s == nil {
				return fmt.Errorf("%w: segment %d is nil", ErrInvalidInput, i)
			}
		case *ChallengeSegment:
			if s == nil {
				return fmt.Errorf("%w: segment %d is nil", ErrInvalidInput, i)
			}
		default:
			return fmt.Errorf("%w: segment %d has unsupported type %T", ErrInvalidInput, i, seg)
		}

		base := seg.Base()
		if err := claimID(base.ID, "segment"); err != nil {
			return err
		}
		if strings.TrimSpace(base.TextContent) == "" {
			return fmt.Errorf("%w: segment %s has empty text", ErrInvalidInput, base.ID)
		}
		if base.OrderIndex < 0 {
			return fmt.Errorf("%w: segment %s has negative order index", ErrInvalidInput, base.ID)
		}
		if _, dup := seenOrder[base.OrderIndex]; dup {
			return fmt.Errorf("%w: duplicate order index %d", ErrInvalidInput, base.OrderIndex)
		}
		seenOrder[base.OrderIndex] = struct{}{}

		if cs, ok := seg.(*ChallengeSegment); ok {
			if err := cs.Challenge.Validate(); err != nil {
				return fmt.Errorf("segment %s: %w", base.ID, err)
			}
			if err := claimID(cs.Challenge.ID, "challenge"); err != nil {
				return err
			}
			for _, ch := range cs.Challenge.Choices {
				if err := claimID(ch.ID, "choice"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *Challenge) Validate() error {
	if strings.TrimSpace(c.Prompt) == "" {
		return fmt.Errorf("%w: challenge prompt is empty", ErrInvalidInput)
	}
	if len(c.Choices) < 2 {
		return fmt.Errorf("%w: challenge needs at least 2 choices, got %d", ErrInvalidInput, len(c.Choices))
	}
	found := false
	seen := make(map[uuid.UUID]struct{}, len(c.Choices))
	for _, ch := range c.Choices {
		if _, dup := seen[ch.ID]; dup {
			return fmt.Errorf("%w: duplicate choice id %s", ErrInvalidInput, ch.ID)
		}
		seen[ch.ID] = struct{}{}
		if strings.TrimSpace(ch.Text) == "" {
			return fmt.Errorf("%w: choice %s has empty text", ErrInvalidInput, ch.ID)
		}
		if ch.ID == c.CorrectChoiceID {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: correct choice %s is not among the challenge choices", ErrInvalidInput, c.CorrectChoiceID)
	}
	return nil
}

// FindSegment は ID でセグメントを探します
func (t *Trail) FindSegment(id uuid.UUID) (Segment, bool) {
	for _, seg := range t.Segments {
		if seg.Base().ID == id {
			return seg, true
		}
	}
	return nil, false
}

// --- JSON 表現 ---

type trailJSON struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	Description     *string       `json:"description,omitempty"`
	ImageURL        *string       `json:"image_url,omitempty"`
	DifficultyLevel int           `json:"difficulty_level"`
	Segments        []segmentJSON `json:"segments"`
}

type segmentJSON struct {
	ID          uuid.UUID      `json:"id"`
	OrderIndex  int            `json:"order_index"`
	Type        SegmentKind    `json:"type"`
	TextContent string         `json:"text_content"`
	ImageURL    *string        `json:"image_url,omitempty"`
	AudioURL    *string        `json:"audio_url,omitempty"`
	Challenge   *challengeJSON `json:"challenge,omitempty"`
}

type challengeJSON struct {
	ChallengeType string `json:"challenge_type"`
	Challenge
}

func (t Trail) MarshalJSON() ([]byte, error) {
	out := trailJSON{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		ImageURL:        t.ImageURL,
		DifficultyLevel: t.DifficultyLevel,
		Segments:        make([]segmentJSON, 0, len(t.Segments)),
	}
	for _, seg := range t.Segments {
		base := seg.Base()
		sj := segmentJSON{
			ID:          base.ID,
			OrderIndex:  base.OrderIndex,
			Type:        seg.Kind(),
			TextContent: base.TextContent,
			ImageURL:    base.ImageURL,
		}
		switch s := seg.(type) {
		case *NarrationSegment:
			sj.AudioURL = s.AudioURL
		case *ChallengeSegment:
			sj.Challenge = &challengeJSON{ChallengeType: ChallengeTypeSingleChoice, Challenge: s.Challenge}
		}
		out.Segments = append(out.Segments, sj)
	}
	return json.Marshal(out)
}

func (t *Trail) UnmarshalJSON(data []byte) error {
	var in trailJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	segments := make([]Segment, 0, len(in.Segments))
	for i, sj := range in.Segments {
		base := SegmentBase{
			ID:          sj.ID,
			OrderIndex:  sj.OrderIndex,
			TextContent: sj.TextContent,
			ImageURL:    sj.ImageURL,
		}
		switch sj.Type {
		case SegmentKindNarration:
			segments = append(segments, &NarrationSegment{SegmentBase: base, AudioURL: sj.AudioURL})
		case SegmentKindChoiceChallenge:
			if sj.Challenge == nil {
				return fmt.Errorf("segment %d: choiceChallenge without challenge", i)
			}
			segments = append(segments, &ChallengeSegment{SegmentBase: base, Challenge: sj.Challenge.Challenge})
		default:
			return fmt.Errorf("segment %d: unknown segment type %q", i, sj.Type)
		}
	}
	*t = Trail{
		ID:              in.ID,
		Title:           in.Title,
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		DifficultyLevel: in.DifficultyLevel,
		Segments:        segments,
	}
	return nil
}

// SegmentAudioResponse はナレーション音声APIのレスポンス
type SegmentAudioResponse struct {
	SegmentID uuid.UUID `json:"segment_id"`
	AudioURL  string    `json:"audio_url"`
}
