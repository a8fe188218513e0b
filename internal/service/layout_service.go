package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gridloom/feedplanner/internal/ai"
	"github.com/gridloom/feedplanner/internal/models"
)

const (
	gridSize     = 9
	minFaceShots = 7
)

// LayoutService produces the nine-slot structural plan. It is total: any
// collaborator error, unparsable response or face-ratio violation is
// repaired by substituting the canonical plan, so a returned plan always
// satisfies the grid invariant.
type LayoutService interface {
	PlanLayout(ctx context.Context, profile *models.BrandProfile, researchSummary, requestContext string) (*models.LayoutPlan, bool)
}

type layoutService struct {
	ai ai.Completer
}

func NewLayoutService(completer ai.Completer) LayoutService {
	return &layoutService{ai: completer}
}

func (s *layoutService) PlanLayout(ctx context.Context, profile *models.BrandProfile, researchSummary, requestContext string) (*models.LayoutPlan, bool) {
	system := "You design Instagram grid layouts. At least 7 of the 9 posts must show the " +
		"person's face (close_portrait, half_body or full_body); at most 2 may be object, " +
		"flatlay or scenery shots. Respond with a single JSON object matching the requested shape."

	prompt := fmt.Sprintf(`Plan a 9-post feed grid.

Business type: %s
Vibe: %s
Target audience: %s
Brand voice: %s`, profile.BusinessType, profile.Vibe, profile.TargetAudience, profile.BrandVoice)
	if profile.ColorPalette != "" {
		prompt += "\nColor palette: " + profile.ColorPalette
	}
	if researchSummary != "" {
		prompt += "\nMarket research: " + researchSummary
	}
	if requestContext != "" {
		prompt += "\nRequest analysis: " + requestContext
	}
	prompt += `

Return JSON:
{"overall_strategy": "...", "grid_pattern": "...", "color_flow": "...", "visual_rhythm": "...",
 "posts": [{"position": 1, "shot_type": "close_portrait", "purpose": "...", "visual_direction": "...",
            "color_temperature": "warm", "composition_style": "..."}]}
with exactly 9 posts, positions 1 through 9.`

	raw, err := s.ai.Complete(ctx, system, prompt, ai.Options{
		Temperature:     0.7,
		MaxOutputTokens: 2048,
	})
	if err != nil {
		slog.Info("layout stage degraded to canonical plan", "user_id", profile.UserID, "error", err.Error())
		return CanonicalLayoutPlan(), true
	}

	plan, err := parseLayoutPlan(raw)
	if err != nil {
		slog.Info("layout response rejected, using canonical plan", "user_id", profile.UserID, "reason", err.Error())
		return CanonicalLayoutPlan(), true
	}

	return plan, false
}

// parseLayoutPlan extracts the first well-formed JSON block from the
// response and validates the grid invariant. Anything that fails validation
// is treated the same as a collaborator error.
func parseLayoutPlan(raw string) (*models.LayoutPlan, error) {
	block, err := extractJSONBlock(raw)
	if err != nil {
		return nil, err
	}

	var plan models.LayoutPlan
	if err := json.Unmarshal([]byte(block), &plan); err != nil {
		return nil, fmt.Errorf("layout plan does not parse: %w", err)
	}

	if err := validateLayoutPlan(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func validateLayoutPlan(plan *models.LayoutPlan) error {
	if len(plan.Posts) != gridSize {
		return fmt.Errorf("expected %d posts, got %d", gridSize, len(plan.Posts))
	}

	seen := make(map[int]bool, gridSize)
	faceCount := 0
	for _, post := range plan.Posts {
		if post.Position < 1 || post.Position > gridSize {
			return fmt.Errorf("position %d out of range", post.Position)
		}
		if seen[post.Position] {
			return fmt.Errorf("duplicate position %d", post.Position)
		}
		seen[post.Position] = true

		if !post.ShotType.Valid() {
			return fmt.Errorf("unknown shot type %q at position %d", post.ShotType, post.Position)
		}
		if post.ShotType.FaceVisible() {
			faceCount++
		}
	}

	if faceCount < minFaceShots {
		return fmt.Errorf("only %d face-visible posts, need at least %d", faceCount, minFaceShots)
	}
	return nil
}

// extractJSONBlock finds the first balanced top-level JSON object in text,
// tolerating surrounding prose and markdown code fences.
func extractJSONBlock(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object in response")
}

var canonicalPlan = models.LayoutPlan{
	OverallStrategy: "Face-forward personal brand grid: the owner carries the feed, one product slot anchors the offer.",
	GridPattern:     "balanced",
	ColorFlow:       "Warm tones on the diagonal, neutral backdrops everywhere else.",
	VisualRhythm:    "Alternate close and wide framing so no two adjacent posts repeat a crop.",
	Posts: []models.PostLayout{
		{Position: 1, ShotType: models.ShotTypeClosePortrait, Purpose: "Introduce yourself and what you do", VisualDirection: "Eye contact, soft natural light", ColorTemperature: "warm"},
		{Position: 2, ShotType: models.ShotTypeObject, Purpose: "Showcase a signature product or tool", VisualDirection: "Single hero object on a clean surface", ColorTemperature: "neutral"},
		{Position: 3, ShotType: models.ShotTypeHalfBody, Purpose: "Share your core method or philosophy", VisualDirection: "Mid-shot at a workspace, hands visible", ColorTemperature: "neutral"},
		{Position: 4, ShotType: models.ShotTypeFullBody, Purpose: "Show a day in the life", VisualDirection: "Full figure in a real environment", ColorTemperature: "cool"},
		{Position: 5, ShotType: models.ShotTypeClosePortrait, Purpose: "Tell a client transformation story", VisualDirection: "Warm close crop, genuine smile", ColorTemperature: "warm"},
		{Position: 6, ShotType: models.ShotTypeHalfBody, Purpose: "Teach one practical tip", VisualDirection: "Speaking to camera, gesture mid-frame", ColorTemperature: "neutral"},
		{Position: 7, ShotType: models.ShotTypeFullBody, Purpose: "Highlight your process in action", VisualDirection: "Candid working shot, environmental context", ColorTemperature: "cool"},
		{Position: 8, ShotType: models.ShotTypeHalfBody, Purpose: "Answer a common audience question", VisualDirection: "Relaxed seated pose, soft backdrop", ColorTemperature: "warm"},
		{Position: 9, ShotType: models.ShotTypeClosePortrait, Purpose: "Invite people to work with you", VisualDirection: "Confident direct gaze, minimal background", ColorTemperature: "warm"},
	},
}

// CanonicalLayoutPlan returns a copy of the fixed 8-face/1-object fallback
// plan. The backing value is built once and never mutated.
func CanonicalLayoutPlan() *models.LayoutPlan {
	plan := canonicalPlan
	plan.Posts = make([]models.PostLayout, len(canonicalPlan.Posts))
	copy(plan.Posts, canonicalPlan.Posts)
	return &plan
}
