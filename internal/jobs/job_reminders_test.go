package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"workero/internal/models"
)

type mockCompanyRepo struct {
	mock.Mock
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *mockCompanyRepo) ListActive(ctx context.Context) ([]*models.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Company), args.Error(1)
}

type mockJobRepo struct {
	mock.Mock
}

func (m *mockJobRepo) Create(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *mockJobRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobRepo) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Job, int64, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Job), args.Get(1).(int64), args.Error(2)
}

func (m *mockJobRepo) ListScheduledBetween(ctx context.Context, companyID uuid.UUID, start, end time.Time) ([]*models.Job, error) {
	args := m.Called(ctx, companyID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Job), args.Error(1)
}

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockMessageRepo) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Message, int64, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Message), args.Get(1).(int64), args.Error(2)
}

func (m *mockMessageRepo) ListThreads(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Conversation, int64, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Conversation), args.Get(1).(int64), args.Error(2)
}

func TestRemindUpcomingJobs_QueuesOneMessagePerJob(t *testing.T) {
	companyRepo := &mockCompanyRepo{}
	jobRepo := &mockJobRepo{}
	messageRepo := &mockMessageRepo{}
	service := NewJobReminderService(companyRepo, jobRepo, messageRepo)

	companyID := uuid.New()
	companyRepo.On("ListActive", mock.Anything).
		Return([]*models.Company{{ID: companyID, Name: "Plumbers BV"}}, nil)

	upcoming := []*models.Job{
		{ID: uuid.New(), CompanyID: companyID, Title: "Boiler service", ScheduledDate: time.Now().Add(6 * time.Hour)},
		{ID: uuid.New(), CompanyID: companyID, Title: "Leak inspection", ScheduledDate: time.Now().Add(20 * time.Hour)},
	}
	jobRepo.On("ListScheduledBetween", mock.Anything, companyID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(upcoming, nil)

	messageRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Message")).Return(nil).Times(2).
		Run(func(args mock.Arguments) {
			message := args.Get(1).(*models.Message)
			assert.Equal(t, companyID, message.CompanyID)
			assert.Equal(t, "outbound", message.Direction)
			assert.Contains(t, message.Body, "scheduled for")
		})

	err := service.RemindUpcomingJobs(context.Background(), 24*time.Hour)
	assert.NoError(t, err)
	companyRepo.AssertExpectations(t)
	jobRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestRemindUpcomingJobs_SkipsCompanyOnListFailure(t *testing.T) {
	companyRepo := &mockCompanyRepo{}
	jobRepo := &mockJobRepo{}
	messageRepo := &mockMessageRepo{}
	service := NewJobReminderService(companyRepo, jobRepo, messageRepo)

	brokenCompany := uuid.New()
	healthyCompany := uuid.New()
	companyRepo.On("ListActive", mock.Anything).
		Return([]*models.Company{{ID: brokenCompany}, {ID: healthyCompany}}, nil)

	jobRepo.On("ListScheduledBetween", mock.Anything, brokenCompany, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("connection reset"))
	jobRepo.On("ListScheduledBetween", mock.Anything, healthyCompany, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]*models.Job{{ID: uuid.New(), Title: "Install", ScheduledDate: time.Now().Add(time.Hour)}}, nil)

	messageRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Message")).Return(nil).Once()

	// One company failing must not stop the sweep.
	err := service.RemindUpcomingJobs(context.Background(), 24*time.Hour)
	assert.NoError(t, err)
	messageRepo.AssertExpectations(t)
}
