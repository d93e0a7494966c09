package services

import (
	"context"

	"github.com/google/uuid"

	"workero/internal/models"
	"workero/internal/repositories"
)

// JobServiceInterface exposes the read surface over materialized jobs.
type JobServiceInterface interface {
	List(ctx context.Context, companyID uuid.UUID, page, limit int) ([]*models.Job, int64, error)
	Get(ctx context.Context, companyID, jobID uuid.UUID) (*models.Job, error)
}

type jobService struct {
	jobRepo repositories.JobRepository
}

// NewJobService creates a new job service instance
func NewJobService(jobRepo repositories.JobRepository) JobServiceInterface {
	return &jobService{jobRepo: jobRepo}
}

func (s *jobService) List(ctx context.Context, companyID uuid.UUID, page, limit int) ([]*models.Job, int64, error) {
	return s.jobRepo.List(ctx, companyID, limit, (page-1)*limit)
}

func (s *jobService) Get(ctx context.Context, companyID, jobID uuid.UUID) (*models.Job, error) {
	return s.jobRepo.GetByID(ctx, companyID, jobID)
}
