package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResearchFallbackOnCollaboratorError(t *testing.T) {
	completer := newFakeCompleter()
	completer.respond("market researcher", func(string) (string, error) {
		return "", errors.New("model overloaded")
	})

	svc := NewResearchService(completer, nil)
	result, fellBack := svc.Research(context.Background(), completeProfile())

	require.NotNil(t, result)
	assert.True(t, fellBack)
	assert.Equal(t, "wellness coach", result.Niche)
	assert.NotEmpty(t, result.Summary)
	assert.NotEmpty(t, result.Hooks)
	assert.NotEmpty(t, result.TrendingTags)
	assert.Contains(t, result.TrendingTags, "#wellnesscoach")
}

func TestResearchParsesCollaboratorOutput(t *testing.T) {
	completer := newFakeCompleter()
	completer.respondText("market researcher", `Wellness content is shifting toward honest, unpolished storytelling.
Short-form personal narratives outperform polished promotional posts.

Hook ideas:
- The morning habit that changed my clients' energy levels
- Why rest days matter more than workout days
* Stop doing this one thing before bed
1. What nobody tells you about burnout recovery
2. ok

Trending tags: #Wellness #SelfCare #wellness #burnout`)

	svc := NewResearchService(completer, nil)
	result, fellBack := svc.Research(context.Background(), completeProfile())

	assert.False(t, fellBack)
	assert.Contains(t, result.Summary, "honest, unpolished storytelling")
	require.Len(t, result.Hooks, 4)
	assert.Equal(t, "The morning habit that changed my clients' energy levels", result.Hooks[0])
	// "ok" is dropped by the length filter
	assert.NotContains(t, result.Hooks, "ok")
	// hashtags are case-normalized and deduplicated
	assert.Equal(t, []string{"#wellness", "#selfcare", "#burnout"}, result.TrendingTags)
}

func TestResearchEmptySummaryFallsBack(t *testing.T) {
	completer := newFakeCompleter()
	completer.respondText("market researcher", "- only a bullet, no summary paragraph here")

	svc := NewResearchService(completer, nil)
	result, fellBack := svc.Research(context.Background(), completeProfile())

	assert.True(t, fellBack)
	assert.NotEmpty(t, result.Summary)
}

func TestRefreshNicheUsesCollaborator(t *testing.T) {
	completer := newFakeCompleter()
	completer.respondText("market researcher", "Fresh trends summary.\n\n- A hook line long enough to keep\n\n#fresh")

	svc := NewResearchService(completer, nil)
	result, fellBack := svc.RefreshNiche(context.Background(), "florist")

	assert.False(t, fellBack)
	assert.Equal(t, "florist", result.Niche)
	assert.Equal(t, "Fresh trends summary.", result.Summary)
	assert.Equal(t, 1, completer.callCount())
}
