package jobs

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
	scanRepo "github.com/tr33-app/tr33-backend/internal/modules/scan/repository"
	search "github.com/tr33-app/tr33-backend/internal/modules/search/service"
)

// Scheduler runs periodic maintenance. The only job today is a nightly
// full reindex of the scan ledger into Meilisearch, which heals any
// drift left by failed fire-and-forget indexing on commit.
type Scheduler struct {
	cron   *cron.Cron
	repo   scanRepo.ScanRepository
	search search.ScanSearchService
}

func NewScheduler(repo scanRepo.ScanRepository, searchService search.ScanSearchService) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		repo:   repo,
		search: searchService,
	}
}

func (s *Scheduler) Start() {
	if s.search == nil {
		log.Println("Search not configured, reindex job disabled")
		return
	}

	_, err := s.cron.AddFunc("0 3 * * *", func() {
		log.Println("Starting nightly scan reindex...")
		if err := s.ReindexScans(context.Background()); err != nil {
			log.Printf("Scan reindex failed: %v", err)
		} else {
			log.Println("Scan reindex completed")
		}
	})
	if err != nil {
		log.Printf("Failed to schedule reindex job: %v", err)
		return
	}

	s.cron.Start()
	log.Println("Job scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) ReindexScans(ctx context.Context) error {
	scans, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	return s.search.ReindexAll(scans)
}
