package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gridloom/feedplanner/internal/models"
	"github.com/gridloom/feedplanner/internal/repository"
	"github.com/gridloom/feedplanner/internal/transfer"
	"github.com/gridloom/feedplanner/pkg/utils"
)

var (
	// ErrBrandProfileIncomplete is the precondition failure: planning never
	// starts without a completed brand profile.
	ErrBrandProfileIncomplete = errors.New("brand profile is missing or incomplete")

	// ErrPlanningFailed covers every fatal pipeline failure. No stage detail
	// reaches the caller; it goes to logs only.
	ErrPlanningFailed = errors.New("feed planning failed")
)

const (
	maxHashtags      = 30
	maxTitleLen      = 200
	maxSummaryLen    = 1000
	maxFieldLen      = 1000
	recentHookWindow = 3
)

// Pipeline states, logged at each transition.
const (
	stateLoadingContext        = "loading_context"
	stateResearching           = "researching"
	stateAnalyzingRequest      = "analyzing_request"
	statePlanningLayout        = "planning_layout"
	statePersistingLayout      = "persisting_layout"
	stateComposingSlots        = "composing_slots"
	stateGeneratingBio         = "generating_bio"
	stateBuildingProfilePrompt = "building_profile_prompt"
	stateFinalizing            = "finalizing"
)

type PlannerService interface {
	PlanFeed(ctx context.Context, userID int64, rawRequest string) (*transfer.FeedPlan, error)
	GetPlan(ctx context.Context, userID int64, publicID string) (*transfer.FeedPlan, error)
	ListPlans(ctx context.Context, userID int64) ([]*models.FeedLayout, error)
}

type plannerService struct {
	bp repository.BrandProfileRepository
	tm repository.TrainedModelRepository
	lr repository.LayoutRepository
	pr repository.PostRepository
	br repository.BioRepository

	stages StageSet
}

// StageSet groups the generation stages the orchestrator drives.
type StageSet struct {
	Research    ResearchService
	Analysis    AnalysisService
	Layout      LayoutService
	Composition CompositionService
	Bio         BioService
	Archive     *ArchiveService
}

func NewPlannerService(
	bp repository.BrandProfileRepository,
	tm repository.TrainedModelRepository,
	lr repository.LayoutRepository,
	pr repository.PostRepository,
	br repository.BioRepository,
	stages StageSet) PlannerService {
	return &plannerService{
		bp:     bp,
		tm:     tm,
		lr:     lr,
		pr:     pr,
		br:     br,
		stages: stages,
	}
}

func (s *plannerService) PlanFeed(ctx context.Context, userID int64, rawRequest string) (*transfer.FeedPlan, error) {
	logState(userID, stateLoadingContext)

	profile, found, err := s.bp.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}
	if !found || !profile.IsComplete {
		return nil, ErrBrandProfileIncomplete
	}

	triggerWord := ""
	if model, err := s.tm.GetReadyByUserID(ctx, userID); err != nil {
		// the token is optional, so a failed read degrades to an
		// unpersonalized run instead of aborting
		slog.Info("trained model lookup failed, planning without trigger word", "user_id", userID, "error", err.Error())
	} else if model != nil {
		triggerWord = model.TriggerWord
	}

	logState(userID, stateResearching)
	research, researchFellBack := s.stages.Research.Research(ctx, profile)
	if researchFellBack {
		slog.Info("research used fallback", "user_id", userID)
	}

	logState(userID, stateAnalyzingRequest)
	analysis, _ := s.stages.Analysis.Analyze(ctx, rawRequest, profile)

	logState(userID, statePlanningLayout)
	plan, planFellBack := s.stages.Layout.PlanLayout(ctx, profile, research.Summary, analysis)
	if planFellBack {
		slog.Info("layout used canonical plan", "user_id", userID)
	}

	logState(userID, statePersistingLayout)
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}

	layout := &models.FeedLayout{
		PublicID:        publicID,
		UserID:          userID,
		Title:           utils.TruncateRunes(rawRequest, maxTitleLen),
		Description:     utils.TruncateRunes(analysis, maxFieldLen),
		LayoutType:      utils.TruncateRunes(plan.GridPattern, maxFieldLen),
		VisualRhythm:    utils.TruncateRunes(plan.VisualRhythm, maxFieldLen),
		ColorPalette:    utils.TruncateRunes(profile.ColorPalette, maxFieldLen),
		Strategy:        utils.TruncateRunes(plan.OverallStrategy, maxFieldLen),
		ResearchSummary: utils.TruncateRunes(research.Summary, maxSummaryLen),
		Status:          models.LayoutStatusDraft,
	}
	layoutID, err := s.lr.Create(ctx, layout)
	if err != nil {
		// a plan that cannot be recorded must not reach slot generation
		slog.Error("layout persistence failed", "user_id", userID, "error", err.Error())
		return nil, fmt.Errorf("%w: layout persistence", ErrPlanningFailed)
	}

	logState(userID, stateComposingSlots)
	posts, err := s.composeSlots(ctx, layoutID, userID, profile, plan, triggerWord, analysis, research.TrendingTags)
	if err != nil {
		slog.Error("slot composition failed", "user_id", userID, "error", err.Error())
		return nil, fmt.Errorf("%w: slot composition", ErrPlanningFailed)
	}

	logState(userID, stateGeneratingBio)
	bio, bioFellBack := s.stages.Bio.GenerateBio(ctx, profile, research.Summary)
	if bioFellBack {
		slog.Info("bio used fallback", "user_id", userID)
	}
	if _, err := s.br.Create(ctx, &models.FeedBio{LayoutID: layoutID, UserID: userID, Bio: bio}); err != nil {
		slog.Info("bio persistence failed", "user_id", userID, "error", err.Error())
	}

	logState(userID, stateBuildingProfilePrompt)
	profilePrompt := BuildProfilePrompt(triggerWord)

	logState(userID, stateFinalizing)
	hashtags := collectHashtags(research.TrendingTags, posts)
	err = s.lr.Finalize(ctx, layoutID,
		utils.TruncateRunes(profilePrompt, maxFieldLen),
		utils.TruncateRunes(strings.Join(hashtags, " "), maxFieldLen))
	if err != nil {
		slog.Info("layout finalize failed", "user_id", userID, "error", err.Error())
	}

	feedPlan := &transfer.FeedPlan{
		LayoutID:      publicID,
		Layout:        *plan,
		Posts:         postsByPosition(posts),
		Bio:           bio,
		Hashtags:      hashtags,
		ProfilePrompt: profilePrompt,
	}

	s.archive(ctx, userID, publicID, feedPlan)

	return feedPlan, nil
}

// composeSlots fans the nine slot sub-pipelines out concurrently and waits
// for all of them. Fail-fast: the first slot error cancels the group and
// fails the stage; a partial grid is not a valid result.
func (s *plannerService) composeSlots(
	ctx context.Context,
	layoutID, userID int64,
	profile *models.BrandProfile,
	plan *models.LayoutPlan,
	triggerWord, requestContext string,
	strategyTags []string) ([]models.FeedPost, error) {

	hooks := newHookTracker(recentHookWindow)
	results := make([]*models.FeedPost, len(plan.Posts))

	g, gctx := errgroup.WithContext(ctx)
	for i, slot := range plan.Posts {
		g.Go(func() error {
			post, err := s.stages.Composition.ComposeSlot(gctx, SlotInput{
				LayoutID:       layoutID,
				UserID:         userID,
				Slot:           slot,
				Profile:        profile,
				TriggerWord:    triggerWord,
				RequestContext: requestContext,
				RecentHooks:    hooks.recent(),
				StrategyTags:   strategyTags,
			})
			if err != nil {
				return err
			}
			hooks.record(firstLine(post.Caption))
			results[i] = post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	posts := make([]models.FeedPost, len(results))
	for i, post := range results {
		posts[i] = *post
	}
	return posts, nil
}

func (s *plannerService) archive(ctx context.Context, userID int64, publicID string, plan *transfer.FeedPlan) {
	if s.stages.Archive == nil {
		return
	}
	snapshot, err := json.Marshal(plan)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if err := s.stages.Archive.UploadPlan(ctx, userID, publicID, snapshot); err != nil {
		slog.Info("plan archive failed", "user_id", userID, "error", err.Error())
	}
}

func (s *plannerService) GetPlan(ctx context.Context, userID int64, publicID string) (*transfer.FeedPlan, error) {
	layout, err := s.lr.GetByPublicID(ctx, publicID, userID)
	if err != nil {
		return nil, err
	}
	if layout == nil {
		return nil, errors.New("feed plan not found")
	}

	posts, err := s.pr.ListByLayoutID(ctx, layout.ID)
	if err != nil {
		return nil, err
	}

	bioText := ""
	if bio, err := s.br.GetByLayoutID(ctx, layout.ID); err == nil && bio != nil {
		bioText = bio.Bio
	}

	plan := &transfer.FeedPlan{
		LayoutID: layout.PublicID,
		Layout: models.LayoutPlan{
			OverallStrategy: layout.Strategy,
			GridPattern:     layout.LayoutType,
			VisualRhythm:    layout.VisualRhythm,
		},
		Bio:           bioText,
		ProfilePrompt: layout.ProfilePrompt,
	}
	if layout.Hashtags != "" {
		plan.Hashtags = strings.Fields(layout.Hashtags)
	}
	for _, post := range posts {
		plan.Posts = append(plan.Posts, *post)
	}
	return plan, nil
}

func (s *plannerService) ListPlans(ctx context.Context, userID int64) ([]*models.FeedLayout, error) {
	return s.lr.ListByUserID(ctx, userID)
}

// hookTracker shares caption opening lines across concurrent slots. The
// window is best effort and completion ordered; caption variety is a quality
// heuristic, not a correctness requirement.
type hookTracker struct {
	mu     sync.Mutex
	window int
	hooks  []string
}

func newHookTracker(window int) *hookTracker {
	return &hookTracker{window: window}
}

func (t *hookTracker) record(hook string) {
	if hook == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks = append(t.hooks, hook)
}

func (t *hookTracker) recent() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	start := len(t.hooks) - t.window
	if start < 0 {
		start = 0
	}
	return append([]string(nil), t.hooks[start:]...)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// collectHashtags merges strategy tags with tags found in captions, deduped
// and capped at 30.
func collectHashtags(strategyTags []string, posts []models.FeedPost) []string {
	seen := make(map[string]bool)
	var tags []string

	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || tag == "#" {
			return
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		if seen[tag] || len(tags) >= maxHashtags {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	for _, tag := range strategyTags {
		add(tag)
	}
	for _, post := range posts {
		for _, tag := range hashtagRe.FindAllString(post.Caption, -1) {
			add(tag)
		}
	}
	return tags
}

func postsByPosition(posts []models.FeedPost) []models.FeedPost {
	sorted := append([]models.FeedPost(nil), posts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	return sorted
}

func logState(userID int64, state string) {
	slog.Info("feed planning", "user_id", userID, "state", state)
}
