package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridloom/feedplanner/internal/ai"
	"github.com/gridloom/feedplanner/internal/models"
)

// AnalysisService interprets the user's free-text request against the brand
// profile. The summary is contextual input for later stages only and is not
// persisted. Soft-fail: collaborator errors degrade to a templated summary.
type AnalysisService interface {
	Analyze(ctx context.Context, rawRequest string, profile *models.BrandProfile) (string, bool)
}

type analysisService struct {
	ai ai.Completer
}

func NewAnalysisService(completer ai.Completer) AnalysisService {
	return &analysisService{ai: completer}
}

func (s *analysisService) Analyze(ctx context.Context, rawRequest string, profile *models.BrandProfile) (string, bool) {
	system := "You analyze content requests for social media planning. " +
		"Summarize in 2-3 sentences what the user wants their feed to communicate."

	prompt := fmt.Sprintf(
		"Request: %q\nBusiness type: %s\nVibe: %s\nTarget audience: %s\nBrand voice: %s",
		rawRequest, profile.BusinessType, profile.Vibe, profile.TargetAudience, profile.BrandVoice)
	if profile.BusinessGoals != "" {
		prompt += "\nBusiness goals: " + profile.BusinessGoals
	}

	summary, err := s.ai.Complete(ctx, system, prompt, ai.Options{
		Temperature:     0.6,
		MaxOutputTokens: 512,
	})
	if err != nil {
		slog.Info("request analysis degraded to fallback", "user_id", profile.UserID, "error", err.Error())
		return fallbackAnalysis(profile), true
	}

	return summary, false
}

func fallbackAnalysis(profile *models.BrandProfile) string {
	return fmt.Sprintf(
		"A %s feed for a %s brand, aimed at %s, keeping a consistent %s voice across all nine posts.",
		profile.Vibe, profile.BusinessType, profile.TargetAudience, profile.BrandVoice)
}
