package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"workero/internal/models"
	"workero/internal/repositories"

	"github.com/google/uuid"
)

// JobReminderService writes outbound reminder messages for jobs
// scheduled within the lookahead window. Quote expiry is deliberately
// not handled here; it is recorded lazily when a stale quote is
// accepted.
type JobReminderService struct {
	companyRepo repositories.CompanyRepository
	jobRepo     repositories.JobRepository
	messageRepo repositories.MessageRepository
}

func NewJobReminderService(companyRepo repositories.CompanyRepository, jobRepo repositories.JobRepository, messageRepo repositories.MessageRepository) *JobReminderService {
	return &JobReminderService{
		companyRepo: companyRepo,
		jobRepo:     jobRepo,
		messageRepo: messageRepo,
	}
}

// RemindUpcomingJobs sweeps every active company and queues a reminder
// message for each job scheduled in the next lookahead period.
func (s *JobReminderService) RemindUpcomingJobs(ctx context.Context, lookahead time.Duration) error {
	if lookahead <= 0 {
		lookahead = 24 * time.Hour
	}

	companies, err := s.companyRepo.ListActive(ctx)
	if err != nil {
		log.Printf("Failed to list companies for job reminders: %v", err)
		return err
	}

	now := time.Now()
	for _, company := range companies {
		upcoming, err := s.jobRepo.ListScheduledBetween(ctx, company.ID, now, now.Add(lookahead))
		if err != nil {
			log.Printf("Failed to list upcoming jobs for company %s: %v", company.ID.String(), err)
			continue
		}

		for _, job := range upcoming {
			if err := s.queueReminder(ctx, company.ID, job); err != nil {
				log.Printf("Failed to queue reminder for job %s: %v", job.ID.String(), err)
			}
		}
	}
	return nil
}

func (s *JobReminderService) queueReminder(ctx context.Context, companyID uuid.UUID, job *models.Job) error {
	message := &models.Message{
		ID:        uuid.New(),
		CompanyID: companyID,
		Direction: "outbound",
		Body: fmt.Sprintf("Reminder: job '%s' is scheduled for %s.",
			job.Title, job.ScheduledDate.Format("2006-01-02 15:04")),
	}
	return s.messageRepo.Create(ctx, message)
}
