package repositories

import (
	"context"
	"errors"

	"workero/internal/common"
	"workero/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type clientRepo struct {
	db Database
}

func NewClientRepository(db Database) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, company_id, name, email, phone, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, client.ID, client.CompanyID, client.Name, client.Email, client.Phone, client.Address, client.Notes)
	return err
}

func (r *clientRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Client, error) {
	client := &models.Client{}
	query := `
		SELECT id, company_id, name, email, phone, address, notes, created_at, updated_at
		FROM clients
		WHERE company_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, companyID, id).Scan(&client.ID, &client.CompanyID, &client.Name, &client.Email, &client.Phone, &client.Address, &client.Notes, &client.CreatedAt, &client.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("client")
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *clientRepo) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	query := `
		SELECT id, company_id, name, email, phone, address, notes, created_at, updated_at
		FROM clients
		WHERE company_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []*models.Client{}
	for rows.Next() {
		client := &models.Client{}
		if err := rows.Scan(&client.ID, &client.CompanyID, &client.Name, &client.Email, &client.Phone, &client.Address, &client.Notes, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *clientRepo) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, address = $4, notes = $5, updated_at = NOW()
		WHERE company_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, client.Name, client.Email, client.Phone, client.Address, client.Notes, client.CompanyID, client.ID)
	return err
}

func (r *clientRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE company_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, companyID, id)
	return err
}
