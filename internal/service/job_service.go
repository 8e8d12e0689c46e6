package service

import (
	"fmt"
	"log"

	"slotswapper/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// ReleaseExpiredListings takes SWAPPABLE slots whose end time has passed off
// the marketplace. Slots with an open negotiation are left alone.
func (s *JobService) ReleaseExpiredListings() error {
	affected, err := s.Repo.ReleaseExpiredListings()
	if err != nil {
		return fmt.Errorf("cron job: failed to release expired listings: %w", err)
	}
	if affected > 0 {
		log.Printf("Cron Job: released %d expired marketplace listings", affected)
	}
	return nil
}
