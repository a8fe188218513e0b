package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gridloom/feedplanner/internal/ai"
	"github.com/gridloom/feedplanner/internal/models"
	"github.com/gridloom/feedplanner/internal/repository"
	"github.com/gridloom/feedplanner/pkg/utils"
)

// Per-field caps applied before persistence.
const (
	maxPromptLen  = 2000
	maxCaptionLen = 2200
	maxPillarLen  = 100
)

const maxMergedTags = 3

// SlotInput carries everything one slot sub-pipeline needs. LayoutPlan data
// and the profile are read-only; RecentHooks is a snapshot taken before the
// slot starts.
type SlotInput struct {
	LayoutID       int64
	UserID         int64
	Slot           models.PostLayout
	Profile        *models.BrandProfile
	TriggerWord    string
	RequestContext string
	RecentHooks    []string
	StrategyTags   []string
}

// CompositionService runs one slot sub-pipeline: visual composition, trigger
// word injection, caption, persist. Unlike the planning stages it is
// fail-fast: any error aborts the slot and, through the orchestrator, the
// whole fan-out.
type CompositionService interface {
	ComposeSlot(ctx context.Context, in SlotInput) (*models.FeedPost, error)
}

type compositionService struct {
	ai ai.Completer
	pr repository.PostRepository
}

func NewCompositionService(completer ai.Completer, pr repository.PostRepository) CompositionService {
	return &compositionService{ai: completer, pr: pr}
}

func (s *compositionService) ComposeSlot(ctx context.Context, in SlotInput) (*models.FeedPost, error) {
	composition, err := s.composeVisual(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("slot %d composition: %w", in.Slot.Position, err)
	}

	prompt := InjectTriggerWord(in.TriggerWord, composition.Prompt)

	caption, err := s.writeCaption(ctx, in, composition)
	if err != nil {
		return nil, fmt.Errorf("slot %d caption: %w", in.Slot.Position, err)
	}

	post := &models.FeedPost{
		LayoutID:      in.LayoutID,
		UserID:        in.UserID,
		Position:      in.Slot.Position,
		Prompt:        utils.TruncateRunes(prompt, maxPromptLen),
		Caption:       utils.TruncateRunes(caption, maxCaptionLen),
		ContentPillar: utils.TruncateRunes(contentPillar(in.Slot.ShotType), maxPillarLen),
		Status:        models.PostStatusSucceeded,
	}

	id, err := s.pr.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("slot %d persist: %w", in.Slot.Position, err)
	}
	post.ID = id

	return post, nil
}

func (s *compositionService) composeVisual(ctx context.Context, in SlotInput) (*models.SlotComposition, error) {
	system := "You are a photo art director for personal brand content. " +
		"Respond with a single JSON object matching the requested shape."

	prompt := fmt.Sprintf(`Design one photo for an Instagram grid slot.

Shot type: %s
Purpose: %s
Visual direction: %s
Color temperature: %s
Brand vibe: %s`,
		in.Slot.ShotType, in.Slot.Purpose, in.Slot.VisualDirection, in.Slot.ColorTemperature, in.Profile.Vibe)
	if in.Slot.CompositionStyle != "" {
		prompt += "\nComposition style: " + in.Slot.CompositionStyle
	}
	if in.RequestContext != "" {
		prompt += "\nFeed context: " + in.RequestContext
	}
	prompt += `

Return JSON:
{"shot_setup": "...", "subject_direction": "...", "setting_mood": "...",
 "styling": "...", "emotional_tone": "...", "prompt": "full image generation prompt"}`

	raw, err := s.ai.Complete(ctx, system, prompt, ai.Options{
		Temperature:     0.8,
		MaxOutputTokens: 1024,
	})
	if err != nil {
		return nil, err
	}

	block, err := extractJSONBlock(raw)
	if err != nil {
		return nil, err
	}

	var composition models.SlotComposition
	if err := json.Unmarshal([]byte(block), &composition); err != nil {
		return nil, fmt.Errorf("composition does not parse: %w", err)
	}
	if composition.Prompt == "" {
		// derive the prompt when the model filled the fields but not the string
		parts := []string{composition.ShotSetup, composition.SubjectDirection, composition.SettingMood, composition.Styling}
		var kept []string
		for _, p := range parts {
			if strings.TrimSpace(p) != "" {
				kept = append(kept, strings.TrimSpace(p))
			}
		}
		if len(kept) == 0 {
			return nil, fmt.Errorf("composition has no usable prompt")
		}
		composition.Prompt = strings.Join(kept, ", ")
	}

	return &composition, nil
}

func (s *compositionService) writeCaption(ctx context.Context, in SlotInput, composition *models.SlotComposition) (string, error) {
	system := fmt.Sprintf("You write Instagram captions in a %s voice for a %s brand. "+
		"Write one caption, no preamble.", in.Profile.BrandVoice, in.Profile.Vibe)

	prompt := fmt.Sprintf(`Write a caption for this post.

Shot type: %s
Purpose: %s
Emotional tone: %s
Target audience: %s`,
		in.Slot.ShotType, in.Slot.Purpose, composition.EmotionalTone, in.Profile.TargetAudience)
	if len(in.RecentHooks) > 0 {
		prompt += "\n\nOpening lines already used on this grid, do not repeat their style:\n- " +
			strings.Join(in.RecentHooks, "\n- ")
	}

	caption, err := s.ai.Complete(ctx, system, prompt, ai.Options{
		Temperature:     0.9,
		MaxOutputTokens: 512,
	})
	if err != nil {
		return "", err
	}

	caption = normalizeBlankLines(caption)
	caption = mergeHashtags(caption, in.StrategyTags)
	return caption, nil
}

// InjectTriggerWord prepends the personalization token to prompt unless it
// is already the prefix. Idempotent: applying it twice equals applying it
// once.
func InjectTriggerWord(token, prompt string) string {
	if token == "" {
		return prompt
	}
	if strings.HasPrefix(prompt, token) {
		return prompt
	}
	return token + ", " + prompt
}

var blankLinesRe = regexp.MustCompile(`\n{3,}`)

func normalizeBlankLines(s string) string {
	return strings.TrimSpace(blankLinesRe.ReplaceAllString(s, "\n\n"))
}

// mergeHashtags appends up to maxMergedTags strategy hashtags the caption
// does not already contain.
func mergeHashtags(caption string, strategyTags []string) string {
	lower := strings.ToLower(caption)
	var added []string
	for _, tag := range strategyTags {
		if len(added) >= maxMergedTags {
			break
		}
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		if strings.Contains(lower, strings.ToLower(tag)) {
			continue
		}
		added = append(added, tag)
	}
	if len(added) == 0 {
		return caption
	}
	return caption + "\n\n" + strings.Join(added, " ")
}

func contentPillar(shot models.ShotType) string {
	switch shot {
	case models.ShotTypeClosePortrait:
		return "connection"
	case models.ShotTypeHalfBody:
		return "authority"
	case models.ShotTypeFullBody:
		return "lifestyle"
	case models.ShotTypeObject, models.ShotTypeFlatlay:
		return "product"
	case models.ShotTypeScenery:
		return "inspiration"
	}
	return "general"
}
