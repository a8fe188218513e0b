package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gridloom/feedplanner/internal/ai"
	"github.com/gridloom/feedplanner/internal/models"
	"github.com/gridloom/feedplanner/pkg/utils"
)

const maxBioLen = 150

// BioService generates the profile bio. Soft-fail: collaborator errors
// degrade to a templated bio. Results never exceed 150 characters; longer
// output is truncated with an ellipsis rather than rejected.
type BioService interface {
	GenerateBio(ctx context.Context, profile *models.BrandProfile, researchSummary string) (string, bool)
}

type bioService struct {
	ai ai.Completer
}

func NewBioService(completer ai.Completer) BioService {
	return &bioService{ai: completer}
}

func (s *bioService) GenerateBio(ctx context.Context, profile *models.BrandProfile, researchSummary string) (string, bool) {
	system := "You write Instagram profile bios. Maximum 150 characters. " +
		"Reply with the bio text only."

	prompt := fmt.Sprintf("Business type: %s\nVibe: %s\nTarget audience: %s\nBrand voice: %s",
		profile.BusinessType, profile.Vibe, profile.TargetAudience, profile.BrandVoice)
	if researchSummary != "" {
		prompt += "\nMarket context: " + researchSummary
	}

	bio, err := s.ai.Complete(ctx, system, prompt, ai.Options{
		Temperature:     0.7,
		MaxOutputTokens: 256,
	})
	if err != nil {
		slog.Info("bio stage degraded to fallback", "user_id", profile.UserID, "error", err.Error())
		return fallbackBio(profile), true
	}

	bio = strings.TrimSpace(strings.Trim(strings.TrimSpace(bio), `"`))
	if bio == "" {
		return fallbackBio(profile), true
	}

	return utils.TruncateWithEllipsis(bio, maxBioLen), false
}

func fallbackBio(profile *models.BrandProfile) string {
	bio := fmt.Sprintf("%s | %s content for %s", profile.BusinessType, profile.Vibe, profile.TargetAudience)
	return utils.TruncateWithEllipsis(bio, maxBioLen)
}
