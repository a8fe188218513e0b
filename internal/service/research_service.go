package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gridloom/feedplanner/internal/ai"
	"github.com/gridloom/feedplanner/internal/cache"
	"github.com/gridloom/feedplanner/internal/models"
)

const (
	maxResearchHooks = 5
	maxResearchTags  = 10
)

// ResearchService produces market and trend insights for a niche. It never
// fails: collaborator errors and unusable output degrade to a static
// fallback, reported through the second return value.
type ResearchService interface {
	Research(ctx context.Context, profile *models.BrandProfile) (*models.ResearchResult, bool)
	RefreshNiche(ctx context.Context, niche string) (*models.ResearchResult, bool)
}

type researchService struct {
	ai    ai.Completer
	cache *cache.ResearchCache
}

func NewResearchService(completer ai.Completer, researchCache *cache.ResearchCache) ResearchService {
	return &researchService{
		ai:    completer,
		cache: researchCache,
	}
}

func (s *researchService) Research(ctx context.Context, profile *models.BrandProfile) (*models.ResearchResult, bool) {
	niche := profile.BusinessType

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, niche); ok {
			return cached, false
		}
	}

	return s.generate(ctx, niche, profile.TargetAudience)
}

func (s *researchService) RefreshNiche(ctx context.Context, niche string) (*models.ResearchResult, bool) {
	return s.generate(ctx, niche, "")
}

func (s *researchService) generate(ctx context.Context, niche, audience string) (*models.ResearchResult, bool) {
	system := "You are a social media market researcher. Answer with a short trend summary, " +
		"a bulleted list of content hook ideas, and a list of trending hashtags."

	prompt := fmt.Sprintf("Research current Instagram content trends for the %q niche.", niche)
	if audience != "" {
		prompt += fmt.Sprintf(" The target audience is: %s.", audience)
	}
	prompt += " Include 5 hook ideas as bullet points and up to 10 trending hashtags."

	raw, err := s.ai.Complete(ctx, system, prompt, ai.Options{
		Temperature:     0.7,
		MaxOutputTokens: 1024,
	})
	if err != nil {
		slog.Info("research stage degraded to fallback", "niche", niche, "error", err.Error())
		return fallbackResearch(niche), true
	}

	result := parseResearch(niche, raw)
	if result.Summary == "" {
		slog.Info("research stage returned unusable output, using fallback", "niche", niche)
		return fallbackResearch(niche), true
	}

	if s.cache != nil {
		s.cache.Set(ctx, niche, result)
	}
	return result, false
}

var (
	hookLineRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.+)$`)
	hashtagRe  = regexp.MustCompile(`#[A-Za-z0-9_]+`)
)

// parseResearch extracts a summary, hook lines and hashtags out of the
// collaborator's free-form answer.
func parseResearch(niche, raw string) *models.ResearchResult {
	result := &models.ResearchResult{Niche: niche}

	var summaryLines []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(summaryLines) > 0 {
				break
			}
			continue
		}
		if hookLineRe.MatchString(trimmed) {
			break
		}
		summaryLines = append(summaryLines, trimmed)
	}
	result.Summary = strings.Join(summaryLines, " ")
	if len([]rune(result.Summary)) > 500 {
		result.Summary = string([]rune(result.Summary)[:500])
	}

	for _, line := range strings.Split(raw, "\n") {
		m := hookLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		hook := strings.Trim(strings.TrimSpace(m[1]), `"`)
		// length filter drops list noise like lone words or whole paragraphs
		if len(hook) < 15 || len(hook) > 120 {
			continue
		}
		result.Hooks = append(result.Hooks, hook)
		if len(result.Hooks) >= maxResearchHooks {
			break
		}
	}

	seen := make(map[string]bool)
	for _, tag := range hashtagRe.FindAllString(raw, -1) {
		normalized := strings.ToLower(tag)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		result.TrendingTags = append(result.TrendingTags, normalized)
		if len(result.TrendingTags) >= maxResearchTags {
			break
		}
	}

	return result
}

func fallbackResearch(niche string) *models.ResearchResult {
	nicheTag := "#" + strings.ToLower(strings.ReplaceAll(strings.TrimSpace(niche), " ", ""))
	return &models.ResearchResult{
		Niche:   niche,
		Summary: fmt.Sprintf("Audiences in the %s niche respond best to consistent, personal content that mixes expertise with everyday moments.", niche),
		Hooks: []string{
			"The one thing nobody tells you about " + niche,
			"Here's what changed everything for my clients",
			"Stop scrolling if you've been struggling with this",
		},
		TrendingTags: []string{nicheTag, "#contentcreator", "#smallbusiness", "#instagrowth", "#behindthescenes"},
	}
}
