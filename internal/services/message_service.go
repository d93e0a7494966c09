package services

import (
	"context"

	"github.com/google/uuid"

	"workero/internal/common"
	"workero/internal/models"
	"workero/internal/repositories"
)

// MessageServiceInterface exposes the message history and templates.
// Outbound delivery (WhatsApp/email) is not wired up yet.
type MessageServiceInterface interface {
	List(ctx context.Context, companyID uuid.UUID, page, limit int) ([]*models.Message, int64, error)
	Threads(ctx context.Context, companyID uuid.UUID, page, limit int) ([]*models.Conversation, int64, error)
	Templates() []*models.MessageTemplate
	Send(ctx context.Context, companyID uuid.UUID) error
}

type messageService struct {
	messageRepo repositories.MessageRepository
}

// NewMessageService creates a new message service instance
func NewMessageService(messageRepo repositories.MessageRepository) MessageServiceInterface {
	return &messageService{messageRepo: messageRepo}
}

func (s *messageService) List(ctx context.Context, companyID uuid.UUID, page, limit int) ([]*models.Message, int64, error) {
	return s.messageRepo.List(ctx, companyID, limit, (page-1)*limit)
}

func (s *messageService) Threads(ctx context.Context, companyID uuid.UUID, page, limit int) ([]*models.Conversation, int64, error) {
	return s.messageRepo.ListThreads(ctx, companyID, limit, (page-1)*limit)
}

func (s *messageService) Templates() []*models.MessageTemplate {
	return []*models.MessageTemplate{
		{
			ID:      "quote_sent",
			Name:    "Quote Sent",
			Content: "Your quote has been sent. Please review and let us know if you have any questions.",
		},
		{
			ID:      "job_scheduled",
			Name:    "Job Scheduled",
			Content: "Your job has been scheduled. We will arrive on {date} at {time}.",
		},
		{
			ID:      "payment_reminder",
			Name:    "Payment Reminder",
			Content: "This is a reminder that invoice #{invoice_number} is due on {due_date}.",
		},
	}
}

func (s *messageService) Send(ctx context.Context, companyID uuid.UUID) error {
	return common.NewUnavailableError()
}
