package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

const storyPromptTemplate = `You are an English teacher writing a short interactive story for a language learner.
The learner's difficulty level is %d (1 is an absolute beginner; each level adds slightly longer sentences and richer vocabulary).
%s
Write 3 to 5 segments with at least one narration segment and at least one multiple-choice challenge that checks comprehension of what happened so far.
Each challenge has 2 to 4 choices and exactly one of them has "is_correct": true.

Respond with JSON only, using this shape:
{
  "title": "string",
  "description": "string",
  "segments": [
    {"type": "narration", "text_content": "string"},
    {"type": "choiceChallenge", "text_content": "string",
     "challenge": {
       "prompt": "string",
       "choices": [{"text": "string", "is_correct": true}, {"text": "string", "is_correct": false}],
       "correct_feedback": "string",
       "incorrect_feedback": "string"
     }}
  ]
}`

// 生成結果のスキーマ
type generatedTrail struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description"`
	ImageURL    string             `json:"image_url"`
	Segments    []generatedSegment `json:"segments" validate:"required,min=1,dive"`
}

type generatedSegment struct {
	Type        string              `json:"type" validate:"required,oneof=narration choiceChallenge"`
	TextContent string              `json:"text_content"`
	ImageURL    string              `json:"image_url"`
	Challenge   *generatedChallenge `json:"challenge" validate:"required_if=Type choiceChallenge"`
}

type generatedChallenge struct {
	Prompt            string            `json:"prompt" validate:"required"`
	Choices           []generatedChoice `json:"choices" validate:"min=2,dive"`
	CorrectFeedback   string            `json:"correct_feedback"`
	IncorrectFeedback string            `json:"incorrect_feedback"`
}

type generatedChoice struct {
	Text      string `json:"text" validate:"required"`
	ImageURL  string `json:"image_url"`
	IsCorrect bool   `json:"is_correct"`
}

// StoryGenerator は Gemini でレベル別のストーリーを生成します
type StoryGenerator struct {
	client   *Client
	model    string
	validate *validator.Validate
}

func NewStoryGenerator(client *Client, model string) *StoryGenerator {
	return &StoryGenerator{
		client:   client,
		model:    model,
		validate: validator.New(),
	}
}

// GenerateStory は level 向けのトレイルを1つ生成します。保存はしない。
// previousTitle が空でなければ前レベルの続きとして書かせる
func (g *StoryGenerator) GenerateStory(ctx context.Context, level int, previousTitle string) (*model.Trail, error) {
	logger := middleware.GetLogger(ctx)

	temperature := float32(0.9)
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temperature,
	}
	resp, err := g.client.generate(ctx, "gemini_story", g.model, genai.Text(buildStoryPrompt(level, previousTitle)), cfg)
	if err != nil {
		logger.Error("Story generation request failed", "error", err, "level", level)
		return nil, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	trail, err := g.parseTrail(responseText(resp), level)
	if err != nil {
		logger.Warn("Generated story rejected", "error", err, "level", level)
		return nil, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}
	logger.Info("Story generated", "level", level, "title", trail.Title, "segments", len(trail.Segments))
	return trail, nil
}

func buildStoryPrompt(level int, previousTitle string) string {
	continuity := "This is the first story at this level."
	if previousTitle != "" {
		continuity = fmt.Sprintf("The previous level's story (level %d) was titled %q. This new story for level %d should be slightly more advanced.", level-1, previousTitle, level)
	}
	return fmt.Sprintf(storyPromptTemplate, level, continuity)
}

// parseTrail は生成テキストをドメインの Trail に変換します。ID はすべて新規採番
func (g *StoryGenerator) parseTrail(text string, level int) (*model.Trail, error) {
	text = stripCodeFence(text)
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	var gen generatedTrail
	if err := json.Unmarshal([]byte(text), &gen); err != nil {
		return nil, fmt.Errorf("decode generated story: %w", err)
	}
	if err := g.validate.Struct(gen); err != nil {
		return nil, fmt.Errorf("generated story is incomplete: %w", err)
	}

	trail := &model.Trail{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(gen.Title),
		Description:     optional(gen.Description),
		ImageURL:        optional(gen.ImageURL),
		DifficultyLevel: level,
		Segments:        make([]model.Segment, 0, len(gen.Segments)),
	}

	for i, gs := range gen.Segments {
		base := model.SegmentBase{
			ID:          uuid.New(),
			OrderIndex:  i,
			TextContent: strings.TrimSpace(gs.TextContent),
			ImageURL:    optional(gs.ImageURL),
		}
		switch model.SegmentKind(gs.Type) {
		case model.SegmentKindNarration:
			trail.Segments = append(trail.Segments, &model.NarrationSegment{SegmentBase: base})
		case model.SegmentKindChoiceChallenge:
			challenge, err := toChallenge(gs.Challenge)
			if err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
			trail.Segments = append(trail.Segments, &model.ChallengeSegment{SegmentBase: base, Challenge: challenge})
		}
	}

	if err := trail.Validate(); err != nil {
		return nil, err
	}
	return trail, nil
}

func toChallenge(gc *generatedChallenge) (model.Challenge, error) {
	challenge := model.Challenge{
		ID:                uuid.New(),
		Prompt:            strings.TrimSpace(gc.Prompt),
		Choices:           make([]model.Choice, 0, len(gc.Choices)),
		CorrectFeedback:   optional(gc.CorrectFeedback),
		IncorrectFeedback: optional(gc.IncorrectFeedback),
	}
	correct := 0
	for _, c := range gc.Choices {
		choice := model.Choice{ID: uuid.New(), Text: strings.TrimSpace(c.Text), ImageURL: optional(c.ImageURL)}
		if c.IsCorrect {
			correct++
			challenge.CorrectChoiceID = choice.ID
		}
		challenge.Choices = append(challenge.Choices, choice)
	}
	if correct != 1 {
		return model.Challenge{}, fmt.Errorf("challenge must have exactly one correct choice, got %d", correct)
	}
	return challenge, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
