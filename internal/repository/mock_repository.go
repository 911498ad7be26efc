package repository

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"candidate-registry/internal/model"
)

type MockCandidateRepository struct {
	mock.Mock
}

func (m *MockCandidateRepository) List(ctx context.Context) ([]model.Candidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Candidate), args.Error(1)
}

func (m *MockCandidateRepository) Get(ctx context.Context, id int64) (model.Candidate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Candidate), args.Error(1)
}

func (m *MockCandidateRepository) Create(ctx context.Context, in model.CandidateInput, createdAt time.Time) (model.Candidate, error) {
	args := m.Called(ctx, in, createdAt)
	return args.Get(0).(model.Candidate), args.Error(1)
}

func (m *MockCandidateRepository) Update(ctx context.Context, id int64, in model.CandidateInput) (model.Candidate, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(model.Candidate), args.Error(1)
}

func (m *MockCandidateRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCandidateRepository) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Candidate), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
