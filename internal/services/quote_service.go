package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"workero/internal/common"
	"workero/internal/models"
	"workero/internal/quotemath"
	"workero/internal/repositories"
)

// QuoteServiceInterface defines the quote lifecycle operations.
type QuoteServiceInterface interface {
	List(ctx context.Context, companyID uuid.UUID, filter *models.QuoteSearchFilter) ([]*models.Quote, int64, error)
	Get(ctx context.Context, companyID, quoteID uuid.UUID) (*models.Quote, error)
	Create(ctx context.Context, companyID uuid.UUID, req *CreateQuoteRequest) (*models.Quote, error)
	Update(ctx context.Context, companyID, quoteID uuid.UUID, req *UpdateQuoteRequest) (*models.Quote, error)
	Delete(ctx context.Context, companyID, quoteID uuid.UUID) error
	Send(ctx context.Context, companyID, quoteID uuid.UUID) (*models.Quote, error)
	Accept(ctx context.Context, companyID, quoteID uuid.UUID) (*models.Quote, error)
	Reject(ctx context.Context, companyID, quoteID uuid.UUID) (*models.Quote, error)
	ConvertToJob(ctx context.Context, companyID, quoteID uuid.UUID, req *ConvertToJobRequest) (*models.Job, error)
}

// CreateQuoteRequest carries validated input for quote creation.
type CreateQuoteRequest struct {
	ClientID     uuid.UUID
	Items        []quotemath.ItemInput
	ValidUntil   time.Time
	Notes        *string
	ProfitMargin *decimal.Decimal
}

// UpdateQuoteRequest carries an item replacement and/or a field patch.
// Nil fields are left untouched; a nil Items slice means the item set
// is not being replaced.
type UpdateQuoteRequest struct {
	Items        []quotemath.ItemInput
	ValidUntil   *time.Time
	Notes        *string
	ProfitMargin *decimal.Decimal
	Status       *models.QuoteStatus
}

// ConvertToJobRequest carries scheduling input for quote-to-job conversion.
type ConvertToJobRequest struct {
	ScheduledDate      time.Time
	AssignedTechnician *uuid.UUID
	Priority           *models.JobPriority
	EstimatedDuration  *decimal.Decimal
	Location           models.Address
	Notes              *string
}

type quoteService struct {
	quoteRepo  repositories.QuoteRepository
	clientRepo repositories.ClientRepository
	userRepo   repositories.UserRepository
	jobRepo    repositories.JobRepository
}

// NewQuoteService creates a new quote service instance
func NewQuoteService(quoteRepo repositories.QuoteRepository, clientRepo repositories.ClientRepository, userRepo repositories.UserRepository, jobRepo repositories.JobRepository) QuoteServiceInterface {
	return &quoteService{
		quoteRepo:  quoteRepo,
		clientRepo: clientRepo,
		userRepo:   userRepo,
		jobRepo:    jobRepo,
	}
}

func (s *quoteService) List(ctx context.Context, companyID uuid.UUID, filter *models.QuoteSearchFilter) ([]*models.Quote, int64, error) {
	return s.quoteRepo.List(ctx, companyID, filter)
}

func (s *quoteService) Get(ctx context.Context, companyID, quoteID uuid.UUID) (*models.Quote, error) {
	return s.quoteRepo.GetByID(ctx, companyID, quoteID)
}

var oneHundred = decimal.NewFromInt(100)

func validateProfitMargin(margin *decimal.Decimal, fields map[string]string) {
	if margin != nil && (margin.IsNegative() || margin.GreaterThan(oneHundred)) {
		fields["profit_margin"] = "profit margin must be between 0 and 100"
	}
}

func (s *quoteService) Create(ctx context.Context, companyID uuid.UUID, req *CreateQuoteRequest) (*models.Quote, error) {
	fields := map[string]string{}
	if !req.ValidUntil.After(time.Now()) {
		fields["valid_until"] = "valid until must be a future date"
	}
	validateProfitMargin(req.ProfitMargin, fields)
	if len(fields) > 0 {
		return nil, common.NewValidationError("Validation error", fields)
	}

	totals, err := quotemath.Compute(req.Items)
	if err != nil {
		return nil, err
	}

	// The client must belong to the caller's company.
	client, err := s.clientRepo.GetByID(ctx, companyID, req.ClientID)
	if err != nil {
		return nil, err
	}

	margin := decimal.Zero
	if req.ProfitMargin != nil {
		margin = *req.ProfitMargin
	}

	quote := &models.Quote{
		ID:           uuid.New(),
		CompanyID:    companyID,
		ClientID:     client.ID,
		Subtotal:     totals.Subtotal,
		TaxAmount:    totals.TaxAmount,
		Total:        totals.Total,
		ProfitMargin: margin,
		Status:       models.QuoteStatusDraft,
		ValidUntil:   req.ValidUntil,
		Notes:        req.Notes,
	}

	if err := s.quoteRepo.Create(ctx, quote, buildQuoteItems(quote.ID, totals)); err != nil {
		return nil, common.NewInternalError("Failed to create quote", err)
	}
	return s.quoteRepo.GetByID(ctx, companyID, quote.ID)
}

func buildQuoteItems(quoteID uuid.UUID, totals *quotemath.Totals) []*models.QuoteItem {
	items := make([]*models.QuoteItem, 0, len(totals.Items))
	for _, line := range totals.Items {
		items = append(items, &models.QuoteItem{
			ID:          uuid.New(),
			QuoteID:     quoteID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TaxRate:     line.TaxRate,
			LineTotal:   line.LineTotal,
		})
	}
	return items
}

func (s *quoteService) Update(ctx context.Context, companyID, quoteID uuid.UUID, req *UpdateQuoteRequest) (*models.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if !quote.Status.Mutable() {
		return nil, common.NewConflictError("Cannot update accepted or rejected quotes")
	}
	// The status every guard below was evaluated against; the repository
	// rejects the write if it has changed since.
	expected := quote.Status

	fields := map[string]string{}
	if req.ValidUntil != nil && !req.ValidUntil.After(time.Now()) {
		fields["valid_until"] = "valid until must be a future date"
	}
	validateProfitMargin(req.ProfitMargin, fields)
	if len(fields) > 0 {
		return nil, common.NewValidationError("Validation error", fields)
	}

	if req.Status != nil && *req.Status != quote.Status {
		if !quote.Status.CanTransition(*req.Status) {
			return nil, common.NewConflictError(fmt.Sprintf("Cannot change quote status from %s to %s", quote.Status, *req.Status))
		}
		quote.Status = *req.Status
	}

	replaceItems := req.Items != nil
	if replaceItems {
		totals, err := quotemath.Compute(req.Items)
		if err != nil {
			return nil, err
		}
		quote.Subtotal = totals.Subtotal
		quote.TaxAmount = totals.TaxAmount
		quote.Total = totals.Total
		quote.Items = buildQuoteItems(quote.ID, totals)
	}

	if req.ValidUntil != nil {
		quote.ValidUntil = *req.ValidUntil
	}
	if req.Notes != nil {
		quote.Notes = req.Notes
	}
	if req.ProfitMargin != nil {
		quote.ProfitMargin = *req.ProfitMargin
	}

	if err := s.quoteRepo.Update(ctx, quote, expected, replaceItems); err != nil {
		return nil, err
	}
	return s.quoteRepo.GetByID(ctx, companyID, quoteID)
}

func (s *quoteService) Delete(ctx context.Context, companyID, quoteID uuid.UUID) error {
	return s.quoteRepo.Delete(ctx, companyID, quoteID)
}

func (s *quoteService) Send(ctx context.Context, companyID, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if !quote.Status.Mutable() {
		return nil, common.NewConflictError("Only draft or sent quotes can be sent")
	}

	ok, err := s.quoteRepo.UpdateStatus(ctx, companyID, quoteID,
		[]models.QuoteStatus{models.QuoteStatusDraft, models.QuoteStatusSent}, models.QuoteStatusSent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.NewConflictError("Only draft or sent quotes can be sent")
	}

	// Outbound email/WhatsApp delivery is handled by the messaging
	// collaborator once wired up.
	return s.quoteRepo.GetByID(ctx, companyID, quoteID)
}

func (s *quoteService) Accept(ctx context.Context, companyID, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != models.QuoteStatusSent {
		return nil, common.NewConflictError("Only sent quotes can be accepted")
	}

	// Lazy expiry: a stale accept records the expiry even though the
	// request itself fails. If the swap loses to a concurrent
	// transition the quote is no longer sent, so the expiry message
	// would be wrong.
	if quote.ValidUntil.Before(time.Now()) {
		ok, err := s.quoteRepo.UpdateStatus(ctx, companyID, quoteID,
			[]models.QuoteStatus{models.QuoteStatusSent}, models.QuoteStatusExpired)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, common.NewConflictError("Only sent quotes can be accepted")
		}
		return nil, common.NewConflictError("Quote has expired")
	}

	ok, err := s.quoteRepo.UpdateStatus(ctx, companyID, quoteID,
		[]models.QuoteStatus{models.QuoteStatusSent}, models.QuoteStatusAccepted)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent transition won the race.
		return nil, common.NewConflictError("Only sent quotes can be accepted")
	}
	return s.quoteRepo.GetByID(ctx, companyID, quoteID)
}

func (s *quoteService) Reject(ctx context.Context, companyID, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != models.QuoteStatusSent {
		return nil, common.NewConflictError("Only sent quotes can be rejected")
	}

	ok, err := s.quoteRepo.UpdateStatus(ctx, companyID, quoteID,
		[]models.QuoteStatus{models.QuoteStatusSent}, models.QuoteStatusRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.NewConflictError("Only sent quotes can be rejected")
	}
	return s.quoteRepo.GetByID(ctx, companyID, quoteID)
}

func (s *quoteService) ConvertToJob(ctx context.Context, companyID, quoteID uuid.UUID, req *ConvertToJobRequest) (*models.Job, error) {
	quote, err := s.quoteRepo.GetByID(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != models.QuoteStatusAccepted {
		return nil, common.NewConflictError("Only accepted quotes can be converted to jobs")
	}

	fields := map[string]string{}
	if !req.ScheduledDate.After(time.Now()) {
		fields["scheduled_date"] = "scheduled date must be a future date"
	}
	if req.EstimatedDuration != nil && req.EstimatedDuration.IsNegative() {
		fields["estimated_duration"] = "estimated duration cannot be negative"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("Validation error", fields)
	}

	// An assigned technician must belong to the caller's company.
	if req.AssignedTechnician != nil {
		if _, err := s.userRepo.GetByID(ctx, companyID, *req.AssignedTechnician); err != nil {
			return nil, err
		}
	}

	priority := models.JobPriorityMedium
	if req.Priority != nil {
		priority = *req.Priority
	}

	location := req.Location
	if location == nil && quote.Client != nil && quote.Client.Address != nil {
		location = quote.Client.Address
	}
	if location == nil {
		location = models.Address{}
	}

	description := "Job created from accepted quote"
	if quote.Notes != nil && *quote.Notes != "" {
		description = *quote.Notes
	}

	job := &models.Job{
		ID:                 uuid.New(),
		CompanyID:          companyID,
		ClientID:           quote.ClientID,
		QuoteID:            &quote.ID,
		Title:              "Job from Quote #" + quote.ID.String()[:8],
		Description:        description,
		Status:             models.JobStatusScheduled,
		Priority:           priority,
		EstimatedDuration:  req.EstimatedDuration,
		AssignedTechnician: req.AssignedTechnician,
		ScheduledDate:      req.ScheduledDate,
		Location:           location,
		Notes:              req.Notes,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, common.NewInternalError("Failed to create job from quote", err)
	}
	return job, nil
}
