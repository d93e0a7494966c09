package repositories

import (
	"context"
	"time"

	"workero/internal/common"
	"workero/internal/models"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Message, int64, error)
	ListThreads(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Conversation, int64, error)
}

type messageRepo struct {
	db Database
}

func NewMessageRepository(db Database) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (id, company_id, conversation_id, direction, body, sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, message.ID, message.CompanyID, message.ConversationID, message.Direction, message.Body, message.SentAt)
	return err
}

func (r *messageRepo) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Message, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, company_id, conversation_id, direction, body, sent_at, created_at, updated_at
		FROM messages
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		message := &models.Message{}
		if err := rows.Scan(&message.ID, &message.CompanyID, &message.ConversationID, &message.Direction, &message.Body, &message.SentAt, &message.CreatedAt, &message.UpdatedAt); err != nil {
			return nil, 0, err
		}
		messages = append(messages, message)
	}
	return messages, total, rows.Err()
}

func (r *messageRepo) ListThreads(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Conversation, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM conversations WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT v.id, v.company_id, v.participant_id, v.last_message_at, v.created_at, v.updated_at,
		       c.id, c.company_id, c.name, c.email, c.phone, c.address, c.notes, c.created_at, c.updated_at
		FROM conversations v
		LEFT JOIN clients c ON c.id = v.participant_id AND c.company_id = v.company_id
		WHERE v.company_id = $1
		ORDER BY v.last_message_at DESC NULLS LAST
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	threads := []*models.Conversation{}
	for rows.Next() {
		thread := &models.Conversation{}
		var (
			pid        *uuid.UUID
			pCompanyID *uuid.UUID
			pName      *string
			pEmail     *string
			pPhone     *string
			pAddress   models.Address
			pNotes     *string
			pCreatedAt *time.Time
			pUpdatedAt *time.Time
		)
		err := rows.Scan(
			&thread.ID, &thread.CompanyID, &thread.ParticipantID, &thread.LastMessageAt, &thread.CreatedAt, &thread.UpdatedAt,
			&pid, &pCompanyID, &pName, &pEmail, &pPhone, &pAddress, &pNotes, &pCreatedAt, &pUpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		if pid != nil {
			thread.Participant = &models.Client{
				ID:        *pid,
				CompanyID: *pCompanyID,
				Name:      common.SafeString(pName),
				Email:     pEmail,
				Phone:     pPhone,
				Address:   pAddress,
				Notes:     pNotes,
				CreatedAt: *pCreatedAt,
				UpdatedAt: *pUpdatedAt,
			}
		}
		threads = append(threads, thread)
	}
	return threads, total, rows.Err()
}
