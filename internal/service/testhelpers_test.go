package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/gridloom/feedplanner/internal/ai"
	"github.com/gridloom/feedplanner/internal/models"
)

// fakeCompleter routes calls to stage-specific responders keyed on a
// substring of the system instruction, and counts every call.
type fakeCompleter struct {
	mu        sync.Mutex
	calls     int
	responses map[string]func(prompt string) (string, error)
}

func newFakeCompleter() *fakeCompleter {
	return &fakeCompleter{responses: make(map[string]func(prompt string) (string, error))}
}

func (f *fakeCompleter) respond(systemContains string, fn func(prompt string) (string, error)) {
	f.responses[systemContains] = fn
}

func (f *fakeCompleter) respondText(systemContains, text string) {
	f.respond(systemContains, func(string) (string, error) { return text, nil })
}

func (f *fakeCompleter) Complete(ctx context.Context, system, prompt string, opts ai.Options) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	for key, fn := range f.responses {
		if strings.Contains(system, key) {
			return fn(prompt)
		}
	}
	return "", errors.New("no fake response configured")
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeBrandProfileRepo struct {
	profile *models.BrandProfile
	err     error
}

func (r *fakeBrandProfileRepo) GetByUserID(ctx context.Context, userID int64) (*models.BrandProfile, bool, error) {
	if r.err != nil {
		return nil, false, r.err
	}
	if r.profile == nil {
		return nil, false, nil
	}
	return r.profile, true, nil
}

func (r *fakeBrandProfileRepo) ListCompletedNiches(ctx context.Context) ([]string, error) {
	if r.profile == nil {
		return nil, nil
	}
	return []string{r.profile.BusinessType}, nil
}

type fakeTrainedModelRepo struct {
	model *models.TrainedModel
	err   error
}

func (r *fakeTrainedModelRepo) GetReadyByUserID(ctx context.Context, userID int64) (*models.TrainedModel, error) {
	return r.model, r.err
}

type fakeLayoutRepo struct {
	mu        sync.Mutex
	createErr error
	layouts   map[int64]*models.FeedLayout
	nextID    int64
	finalized map[int64]bool
}

func newFakeLayoutRepo() *fakeLayoutRepo {
	return &fakeLayoutRepo{layouts: make(map[int64]*models.FeedLayout), finalized: make(map[int64]bool)}
}

func (r *fakeLayoutRepo) Create(ctx context.Context, layout *models.FeedLayout) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.nextID++
	stored := *layout
	stored.ID = r.nextID
	r.layouts[r.nextID] = &stored
	return r.nextID, nil
}

func (r *fakeLayoutRepo) GetByID(ctx context.Context, id int64) (*models.FeedLayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layouts[id], nil
}

func (r *fakeLayoutRepo) GetByPublicID(ctx context.Context, publicID string, userID int64) (*models.FeedLayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.layouts {
		if l.PublicID == publicID && l.UserID == userID {
			return l, nil
		}
	}
	return nil, nil
}

func (r *fakeLayoutRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.FeedLayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.FeedLayout
	for _, l := range r.layouts {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLayoutRepo) Finalize(ctx context.Context, id int64, profilePrompt, hashtags string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.layouts[id]; ok {
		l.ProfilePrompt = profilePrompt
		l.Hashtags = hashtags
		l.Status = models.LayoutStatusReady
	}
	r.finalized[id] = true
	return nil
}

type fakePostRepo struct {
	mu        sync.Mutex
	nextID    int64
	posts     []*models.FeedPost
	createErr error
}

func (r *fakePostRepo) Create(ctx context.Context, post *models.FeedPost) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.nextID++
	stored := *post
	stored.ID = r.nextID
	r.posts = append(r.posts, &stored)
	return r.nextID, nil
}

func (r *fakePostRepo) ListByLayoutID(ctx context.Context, layoutID int64) ([]*models.FeedPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.FeedPost
	for _, p := range r.posts {
		if p.LayoutID == layoutID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.posts)
}

type fakeBioRepo struct {
	mu   sync.Mutex
	bios []*models.FeedBio
}

func (r *fakeBioRepo) Create(ctx context.Context, bio *models.FeedBio) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *bio
	stored.ID = int64(len(r.bios) + 1)
	r.bios = append(r.bios, &stored)
	return stored.ID, nil
}

func (r *fakeBioRepo) GetByLayoutID(ctx context.Context, layoutID int64) (*models.FeedBio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bios {
		if b.LayoutID == layoutID {
			return b, nil
		}
	}
	return nil, nil
}

func completeProfile() *models.BrandProfile {
	return &models.BrandProfile{
		ID:             1,
		UserID:         42,
		BusinessType:   "wellness coach",
		Vibe:           "warm",
		TargetAudience: "busy professionals",
		BrandVoice:     "encouraging",
		ColorPalette:   "sage green, cream, terracotta",
		IsComplete:     true,
	}
}
