package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/infra/integration/places"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

type MockIntaker struct{ mock.Mock }

func (m *MockIntaker) Execute(ctx context.Context, input usecase.IntakeLeadInput) (*usecase.IntakeLeadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.IntakeLeadOutput), args.Error(1)
}

type MockClaimer struct{ mock.Mock }

func (m *MockClaimer) Preview(ctx context.Context, leadID string) (*usecase.ClaimPreview, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ClaimPreview), args.Error(1)
}

func (m *MockClaimer) Execute(ctx context.Context, input usecase.ClaimLeadInput) (*entity.Lead, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

type MockLostMarker struct{ mock.Mock }

func (m *MockLostMarker) Execute(ctx context.Context, input usecase.MarkLostInput) (*entity.Lead, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

type MockAssigner struct{ mock.Mock }

func (m *MockAssigner) Execute(ctx context.Context, leadID string) (*usecase.AssignLeadOutput, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AssignLeadOutput), args.Error(1)
}

type MockManager struct{ mock.Mock }

func (m *MockManager) Get(ctx context.Context, leadID string) (*usecase.LeadDetails, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LeadDetails), args.Error(1)
}

func (m *MockManager) ListUnassigned(ctx context.Context, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockManager) UpdateStatus(ctx context.Context, input usecase.UpdateStatusInput) (*entity.Lead, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockManager) AddNote(ctx context.Context, input usecase.AddNoteInput) (*entity.LeadNote, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadNote), args.Error(1)
}

func (m *MockManager) SetReminder(ctx context.Context, leadID string, at *time.Time) (*entity.Lead, error) {
	args := m.Called(ctx, leadID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

type MockInbox struct{ mock.Mock }

func (m *MockInbox) List(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	args := m.Called(ctx, recipientID, unreadOnly, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Notification), args.Error(1)
}

func (m *MockInbox) MarkRead(ctx context.Context, id, recipientID string) error {
	return m.Called(ctx, id, recipientID).Error(0)
}

type MockSender struct{ mock.Mock }

func (m *MockSender) Execute(ctx context.Context, input usecase.SendMessageInput) error {
	return m.Called(ctx, input).Error(0)
}

type MockPlaces struct{ mock.Mock }

func (m *MockPlaces) Autocomplete(ctx context.Context, input, sessionToken string) ([]places.Prediction, error) {
	args := m.Called(ctx, input, sessionToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]places.Prediction), args.Error(1)
}

func (m *MockPlaces) Details(ctx context.Context, placeID, sessionToken string) (*places.Place, error) {
	args := m.Called(ctx, placeID, sessionToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*places.Place), args.Error(1)
}

// withRoute simulates chi routing for a handler called directly.
func withRoute(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for k, v := range params {
		chiCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

func asAgent(req *http.Request, id, role string) *http.Request {
	return req.WithContext(middleware.WithAgent(req.Context(), &middleware.Agent{ID: id, Role: role}))
}

func strPtr(s string) *string { return &s }
