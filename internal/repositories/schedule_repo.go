package repositories

import (
	"context"
	"fmt"
	"strings"

	"workero/internal/models"

	"github.com/google/uuid"
)

type ScheduleRepository interface {
	ListEvents(ctx context.Context, companyID uuid.UUID, filter *models.ScheduleEventFilter) ([]*models.ScheduleEvent, error)
}

type scheduleRepo struct {
	db Database
}

func NewScheduleRepository(db Database) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) ListEvents(ctx context.Context, companyID uuid.UUID, filter *models.ScheduleEventFilter) ([]*models.ScheduleEvent, error) {
	if filter == nil {
		filter = &models.ScheduleEventFilter{}
	}

	conditions := []string{"company_id = $1"}
	args := []any{companyID}

	if filter.Start != nil && filter.End != nil {
		args = append(args, *filter.Start)
		conditions = append(conditions, fmt.Sprintf(`"start" >= $%d`, len(args)))
		args = append(args, *filter.End)
		conditions = append(conditions, fmt.Sprintf(`"start" <= $%d`, len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		conditions = append(conditions, fmt.Sprintf("technician_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT id, company_id, job_id, technician_id, title, "start", "end", created_at, updated_at
		FROM schedule_events
		WHERE %s
		ORDER BY "start" ASC
	`, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*models.ScheduleEvent{}
	for rows.Next() {
		event := &models.ScheduleEvent{}
		if err := rows.Scan(&event.ID, &event.CompanyID, &event.JobID, &event.TechnicianID, &event.Title, &event.Start, &event.End, &event.CreatedAt, &event.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
