package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Append(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindAll(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Compact(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

// MockAgentGateway
type MockAgentGateway struct {
	mock.Mock
}

func (m *MockAgentGateway) Send(ctx context.Context, conversationID, text string) (string, error) {
	args := m.Called(ctx, conversationID, text)
	return args.String(0), args.Error(1)
}

func (m *MockAgentGateway) ResetSession(conversationID string) {
	m.Called(conversationID)
}

// MockLeadEventPublisher
type MockLeadEventPublisher struct {
	mock.Mock
}

func (m *MockLeadEventPublisher) PublishLeadConfirmed(ctx context.Context, payload queue.LeadConfirmedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
