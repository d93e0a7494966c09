package repositories

import (
	"context"
	"errors"

	"workero/internal/common"
	"workero/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CompanyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListActive(ctx context.Context) ([]*models.Company, error)
}

type companyRepo struct {
	db Database
}

func NewCompanyRepository(db Database) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company := &models.Company{}
	query := `
		SELECT id, name, email, phone, status, created_at, updated_at
		FROM companies
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&company.ID, &company.Name, &company.Email, &company.Phone, &company.Status, &company.CreatedAt, &company.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("company")
	}
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (r *companyRepo) ListActive(ctx context.Context) ([]*models.Company, error) {
	query := `
		SELECT id, name, email, phone, status, created_at, updated_at
		FROM companies
		WHERE status = 'active'
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []*models.Company{}
	for rows.Next() {
		company := &models.Company{}
		if err := rows.Scan(&company.ID, &company.Name, &company.Email, &company.Phone, &company.Status, &company.CreatedAt, &company.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}
