package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridloom/feedplanner/internal/models"
)

func validPlanJSON(t *testing.T, faceCount int) string {
	t.Helper()
	require.LessOrEqual(t, faceCount, gridSize)

	posts := make([]models.PostLayout, 0, gridSize)
	for i := 1; i <= gridSize; i++ {
		shot := models.ShotTypeHalfBody
		if i > faceCount {
			shot = models.ShotTypeObject
		}
		posts = append(posts, models.PostLayout{
			Position:         i,
			ShotType:         shot,
			Purpose:          fmt.Sprintf("purpose %d", i),
			VisualDirection:  "soft light",
			ColorTemperature: "warm",
		})
	}

	raw, err := json.Marshal(models.LayoutPlan{
		OverallStrategy: "face forward",
		GridPattern:     "balanced",
		ColorFlow:       "warm diagonal",
		VisualRhythm:    "alternating crops",
		Posts:           posts,
	})
	require.NoError(t, err)
	return string(raw)
}

func TestPlanLayoutAcceptsValidPlan(t *testing.T) {
	completer := newFakeCompleter()
	completer.respondText("design Instagram grid layouts",
		"Here is your plan:\n```json\n"+validPlanJSON(t, 7)+"\n```\nEnjoy!")

	svc := NewLayoutService(completer)
	plan, fellBack := svc.PlanLayout(context.Background(), completeProfile(), "summary", "context")

	assert.False(t, fellBack)
	assert.Equal(t, "face forward", plan.OverallStrategy)
	assert.Len(t, plan.Posts, gridSize)
}

func TestPlanLayoutUnparsableUsesCanonicalPlan(t *testing.T) {
	completer := newFakeCompleter()
	completer.respondText("design Instagram grid layouts", "I'd love to help but here is prose with no structure at all.")

	profile := completeProfile()
	require.Equal(t, "wellness coach", profile.BusinessType)
	require.Equal(t, "warm", profile.Vibe)

	svc := NewLayoutService(completer)
	plan, fellBack := svc.PlanLayout(context.Background(), profile, "", "")

	assert.True(t, fellBack)
	assert.Equal(t, CanonicalLayoutPlan(), plan)
}

func TestPlanLayoutCollaboratorErrorUsesCanonicalPlan(t *testing.T) {
	completer := newFakeCompleter()
	completer.respond("design Instagram grid layouts", func(string) (string, error) {
		return "", fmt.Errorf("model overloaded")
	})

	svc := NewLayoutService(completer)
	plan, fellBack := svc.PlanLayout(context.Background(), completeProfile(), "", "")

	assert.True(t, fellBack)
	assert.Equal(t, CanonicalLayoutPlan(), plan)
}

func TestPlanLayoutRejectsLowFaceCount(t *testing.T) {
	completer := newFakeCompleter()
	completer.respondText("design Instagram grid layouts", validPlanJSON(t, 5))

	svc := NewLayoutService(completer)
	plan, fellBack := svc.PlanLayout(context.Background(), completeProfile(), "", "")

	assert.True(t, fellBack)
	assert.Equal(t, CanonicalLayoutPlan(), plan)
}

func TestCanonicalPlanSatisfiesInvariant(t *testing.T) {
	plan := CanonicalLayoutPlan()
	require.NoError(t, validateLayoutPlan(plan))

	faceCount := 0
	positions := make(map[int]bool)
	for _, post := range plan.Posts {
		positions[post.Position] = true
		if post.ShotType.FaceVisible() {
			faceCount++
		}
	}

	assert.Equal(t, 8, faceCount)
	assert.Equal(t, models.ShotTypeObject, plan.Posts[1].ShotType)
	assert.Equal(t, 2, plan.Posts[1].Position)
	for i := 1; i <= gridSize; i++ {
		assert.True(t, positions[i], "position %d missing", i)
	}
}

func TestCanonicalPlanCopyIsIsolated(t *testing.T) {
	first := CanonicalLayoutPlan()
	first.Posts[0].Purpose = "mutated"

	second := CanonicalLayoutPlan()
	assert.NotEqual(t, "mutated", second.Posts[0].Purpose)
}

func TestValidateLayoutPlan(t *testing.T) {
	base := func() *models.LayoutPlan {
		plan := CanonicalLayoutPlan()
		return plan
	}

	tests := []struct {
		name    string
		mutate  func(*models.LayoutPlan)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*models.LayoutPlan) {},
		},
		{
			name:    "too few posts",
			mutate:  func(p *models.LayoutPlan) { p.Posts = p.Posts[:8] },
			wantErr: "expected 9 posts",
		},
		{
			name:    "duplicate position",
			mutate:  func(p *models.LayoutPlan) { p.Posts[3].Position = 1 },
			wantErr: "duplicate position",
		},
		{
			name:    "position out of range",
			mutate:  func(p *models.LayoutPlan) { p.Posts[0].Position = 10 },
			wantErr: "out of range",
		},
		{
			name:    "unknown shot type",
			mutate:  func(p *models.LayoutPlan) { p.Posts[0].ShotType = "selfie" },
			wantErr: "unknown shot type",
		},
		{
			name: "too many non-face posts",
			mutate: func(p *models.LayoutPlan) {
				p.Posts[0].ShotType = models.ShotTypeFlatlay
				p.Posts[2].ShotType = models.ShotTypeScenery
			},
			wantErr: "face-visible",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := base()
			tt.mutate(plan)
			err := validateLayoutPlan(plan)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "surrounded by prose",
			input: "Sure! Here you go:\n{\"a\": {\"b\": 2}}\nLet me know if you need more.",
			want:  `{"a": {"b": 2}}`,
		},
		{
			name:  "braces inside strings",
			input: `{"a": "curly } brace", "b": 1} trailing`,
			want:  `{"a": "curly } brace", "b": 1}`,
		},
		{
			name:    "no object",
			input:   "no structure here",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			input:   `{"a": 1`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONBlock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
