package mocks

import (
	"context"

	"github.com/rpggio/reqindex/internal/domain/request"
	"github.com/rpggio/reqindex/internal/repository"
	"github.com/stretchr/testify/mock"
)

// RequestRepository is a mock for repository.RequestRepository.
type RequestRepository struct {
	mock.Mock
}

var _ repository.RequestRepository = (*RequestRepository)(nil)

func (m *RequestRepository) Create(ctx context.Context, req *request.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *RequestRepository) Get(ctx context.Context, id int64) (*request.Request, error) {
	args := m.Called(ctx, id)
	if req, ok := args.Get(0).(*request.Request); ok {
		return req, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RequestRepository) List(ctx context.Context) ([]request.Request, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]request.Request); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RequestRepository) AddDependency(ctx context.Context, fromID, toID int64) error {
	args := m.Called(ctx, fromID, toID)
	return args.Error(0)
}

func (m *RequestRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// WithTx records the call and, unless an error is configured, runs fn
// against the mock itself.
func (m *RequestRepository) WithTx(ctx context.Context, fn func(repository.RequestRepository) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}
