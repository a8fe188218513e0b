package job

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gridloom/feedplanner/internal/repository"
	"github.com/gridloom/feedplanner/internal/service"
)

// ResearchRefreshJob periodically regenerates cached niche research so
// planning runs start from fresh trend data.
type ResearchRefreshJob struct {
	bp repository.BrandProfileRepository
	rs service.ResearchService
}

func NewResearchRefreshJob(bp repository.BrandProfileRepository, rs service.ResearchService) *ResearchRefreshJob {
	return &ResearchRefreshJob{bp: bp, rs: rs}
}

func (j *ResearchRefreshJob) Refresh() {
	ctx := context.Background()

	niches, err := j.bp.ListCompletedNiches(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 5
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, niche := range niches {

		wg.Add(1)
		semaphore <- struct{}{}

		go func(niche string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if _, fellBack := j.rs.RefreshNiche(ctx, niche); fellBack {
				slog.Info("research refresh fell back", "niche", niche)
			}
		}(niche)
	}

	wg.Wait()
}
