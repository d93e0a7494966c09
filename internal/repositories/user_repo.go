package repositories

import (
	"context"
	"errors"

	"workero/internal/common"
	"workero/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.User, error)
	GetCompanyIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.User, error)
}

type userRepo struct {
	db Database
}

func NewUserRepository(db Database) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, company_id, email, first_name, last_name, role, status, created_at, updated_at
		FROM users
		WHERE company_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, companyID, id).Scan(&user.ID, &user.CompanyID, &user.Email, &user.FirstName, &user.LastName, &user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("user")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetCompanyIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var companyID uuid.UUID
	query := `SELECT company_id FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, common.NewNotFoundError("user")
	}
	if err != nil {
		return uuid.Nil, err
	}
	return companyID, nil
}

func (r *userRepo) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT id, company_id, email, first_name, last_name, role, status, created_at, updated_at
		FROM users
		WHERE company_id = $1
		ORDER BY last_name ASC, first_name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.CompanyID, &user.Email, &user.FirstName, &user.LastName, &user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
