package background

import (
	"context"
	"log"
	"time"

	"workero/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs the periodic background sweeps.
type Scheduler struct {
	scheduler gocron.Scheduler
	reminders *jobs.JobReminderService
}

// NewScheduler creates a new background scheduler
func NewScheduler(reminders *jobs.JobReminderService) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler: scheduler,
		reminders: reminders,
	}

	// Upcoming-job reminders - daily
	_, err = scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := s.reminders.RemindUpcomingJobs(ctx, 24*time.Hour); err != nil {
				log.Printf("Job reminder sweep failed: %v", err)
			}
		}),
		gocron.WithName("job-reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Start starts the background scheduler
func (s *Scheduler) Start() {
	log.Printf("Starting background job scheduler")
	s.scheduler.Start()
}

// Stop stops the background scheduler
func (s *Scheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return s.scheduler.Shutdown()
}
