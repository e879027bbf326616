package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByPhone(ctx context.Context, mobile string) (*entity.Lead, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListUnassigned(ctx context.Context, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) AssignIfUnassigned(ctx context.Context, leadID, agentID, status string) (bool, error) {
	args := m.Called(ctx, leadID, agentID, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) ClaimIfUnchanged(ctx context.Context, leadID, agentID string, seenLostAt *time.Time) (bool, error) {
	args := m.Called(ctx, leadID, agentID, seenLostAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) MarkLost(ctx context.Context, leadID string, history entity.LostHistory) error {
	args := m.Called(ctx, leadID, history)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, leadID, status string) error {
	args := m.Called(ctx, leadID, status)
	return args.Error(0)
}

func (m *MockLeadRepository) SetReminder(ctx context.Context, leadID string, at *time.Time) error {
	args := m.Called(ctx, leadID, at)
	return args.Error(0)
}

func (m *MockLeadRepository) ClaimDueReminders(ctx context.Context, now time.Time) ([]*entity.Lead, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) ListActiveSalesAgents(ctx context.Context) ([]*entity.SalesAgent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SalesAgent), args.Error(1)
}

func (m *MockAgentRepository) FindByID(ctx context.Context, id string) (*entity.SalesAgent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SalesAgent), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) CreateForRecipients(ctx context.Context, recipients []string, template *entity.Notification) (int, error) {
	args := m.Called(ctx, recipients, template)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	args := m.Called(ctx, recipientID, unreadOnly, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	args := m.Called(ctx, id, recipientID)
	return args.Error(0)
}

type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *entity.LeadNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.LeadNote, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LeadNote), args.Error(1)
}

type MockTaskQueue struct {
	mock.Mock
}

func (m *MockTaskQueue) Enqueue(ctx context.Context, task entity.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

type MockCursor struct {
	mock.Mock
}

func (m *MockCursor) Next(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendReminder(to, agentName, leadName, leadPhone string) error {
	args := m.Called(to, agentName, leadName, leadPhone)
	return args.Error(0)
}

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendText(ctx context.Context, subscriberID, phone, text string) error {
	args := m.Called(ctx, subscriberID, phone, text)
	return args.Error(0)
}

type MockConversionTracker struct {
	mock.Mock
}

func (m *MockConversionTracker) TrackLead(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

type MockBoardSync struct {
	mock.Mock
}

func (m *MockBoardSync) CreateLeadCard(ctx context.Context, lead *entity.Lead) (string, error) {
	args := m.Called(ctx, lead)
	return args.String(0), args.Error(1)
}

// syncQueue runs tasks inline so a test can follow intake through to its
// side effects.
type syncQueue struct {
	handle func(ctx context.Context, task entity.Task) error
	tasks  []entity.Task
}

func (q *syncQueue) Enqueue(ctx context.Context, task entity.Task) error {
	q.tasks = append(q.tasks, task)
	if q.handle == nil {
		return nil
	}
	return q.handle(ctx, task)
}

func (q *syncQueue) kinds() []string {
	out := make([]string, 0, len(q.tasks))
	for _, t := range q.tasks {
		out = append(out, t.Kind)
	}
	return out
}

func strPtr(s string) *string { return &s }
