package repositories

import (
	"context"
	"errors"
	"time"

	"workero/internal/common"
	"workero/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Job, int64, error)
	ListScheduledBetween(ctx context.Context, companyID uuid.UUID, start, end time.Time) ([]*models.Job, error)
}

type jobRepo struct {
	db Database
}

func NewJobRepository(db Database) JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id, company_id, client_id, quote_id, title, description, status, priority, estimated_duration, assigned_technician, scheduled_date, location, notes, created_at, updated_at`

func scanJob(row pgx.Row) (*models.Job, error) {
	job := &models.Job{}
	err := row.Scan(
		&job.ID, &job.CompanyID, &job.ClientID, &job.QuoteID, &job.Title, &job.Description, &job.Status,
		&job.Priority, &job.EstimatedDuration, &job.AssignedTechnician, &job.ScheduledDate, &job.Location,
		&job.Notes, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *jobRepo) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (id, company_id, client_id, quote_id, title, description, status, priority, estimated_duration, assigned_technician, scheduled_date, location, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, job.ID, job.CompanyID, job.ClientID, job.QuoteID, job.Title, job.Description, job.Status, string(job.Priority), job.EstimatedDuration, job.AssignedTechnician, job.ScheduledDate, job.Location, job.Notes)
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE company_id = $1 AND id = $2`
	job, err := scanJob(r.db.QueryRow(ctx, query, companyID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("job")
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *jobRepo) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Job, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE company_id = $1
		ORDER BY scheduled_date DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
	}
	return jobs, total, rows.Err()
}

func (r *jobRepo) ListScheduledBetween(ctx context.Context, companyID uuid.UUID, start, end time.Time) ([]*models.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE company_id = $1 AND status = 'scheduled' AND scheduled_date >= $2 AND scheduled_date < $3
		ORDER BY scheduled_date ASC
	`
	rows, err := r.db.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
