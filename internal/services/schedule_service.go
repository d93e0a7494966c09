package services

import (
	"context"

	"github.com/google/uuid"

	"workero/internal/common"
	"workero/internal/models"
	"workero/internal/repositories"
)

// ScheduleServiceInterface lists stored schedule events. Availability
// and conflict detection are not implemented yet and surface as
// Unavailable.
type ScheduleServiceInterface interface {
	Events(ctx context.Context, companyID uuid.UUID, filter *models.ScheduleEventFilter) ([]*models.ScheduleEvent, error)
	Availability(ctx context.Context, companyID uuid.UUID) error
	Conflicts(ctx context.Context, companyID uuid.UUID) error
}

type scheduleService struct {
	scheduleRepo repositories.ScheduleRepository
}

// NewScheduleService creates a new schedule service instance
func NewScheduleService(scheduleRepo repositories.ScheduleRepository) ScheduleServiceInterface {
	return &scheduleService{scheduleRepo: scheduleRepo}
}

func (s *scheduleService) Events(ctx context.Context, companyID uuid.UUID, filter *models.ScheduleEventFilter) ([]*models.ScheduleEvent, error) {
	return s.scheduleRepo.ListEvents(ctx, companyID, filter)
}

func (s *scheduleService) Availability(ctx context.Context, companyID uuid.UUID) error {
	return common.NewUnavailableError()
}

func (s *scheduleService) Conflicts(ctx context.Context, companyID uuid.UUID) error {
	return common.NewUnavailableError()
}
