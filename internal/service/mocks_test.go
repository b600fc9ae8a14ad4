package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dmchat/internal/domain"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) ListExcept(ctx context.Context, id string) ([]*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetMany(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.User), args.Error(1)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Summaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.UserSummary), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, kind domain.EventKind, deliveries map[string]*domain.ViewMessage) {
	m.Called(ctx, kind, deliveries)
}

// last returns the kind and deliveries of the most recent Notify call.
func (m *MockNotifier) last() (domain.EventKind, map[string]*domain.ViewMessage) {
	call := m.Calls[len(m.Calls)-1]
	return call.Arguments.Get(1).(domain.EventKind), call.Arguments.Get(2).(map[string]*domain.ViewMessage)
}
